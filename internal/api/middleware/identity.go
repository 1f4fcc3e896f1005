package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/identity"
	"github.com/traymate/backend/internal/core/ports"
	"github.com/traymate/backend/internal/pkg/metrics"
)

// IdentityConfig configures the Identity middleware.
type IdentityConfig struct {
	// Skipper bypasses identity resolution. Defaults to DefaultIdentitySkipper.
	Skipper echomiddleware.Skipper
	Codec   ports.TokenCodec
	Users   ports.UserRepository
	Logger  zerolog.Logger
}

// DefaultIdentitySkipper skips the login endpoint, which never needs an identity.
func DefaultIdentitySkipper(c echo.Context) bool {
	r := c.Request()
	return r.Method == http.MethodPost && r.URL.Path == "/auth/login"
}

// Identity resolves the bearer token of each request into a domain.Identity
// and attaches it to the request context.
//
// The middleware never rejects a request. A missing header, an unusable
// token or a subject that no longer exists all leave the request anonymous;
// the access policy decides what an anonymous caller may reach.
func Identity(cfg IdentityConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = DefaultIdentitySkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			if _, ok := identity.FromContext(ctx); ok {
				return next(c)
			}

			raw, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.IdentityResolutionsTotal.WithLabelValues("no_token").Inc()
				return next(c)
			}

			assertion, err := cfg.Codec.Parse(raw)
			if err != nil {
				outcome := parseOutcome(err)
				metrics.IdentityResolutionsTotal.WithLabelValues(outcome).Inc()
				cfg.Logger.Debug().
					Str("reason", outcome).
					Str("path", req.URL.Path).
					Msg("bearer token rejected, continuing anonymously")
				return next(c)
			}

			user, err := cfg.Users.FindByEmail(ctx, assertion.Subject)
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				metrics.IdentityResolutionsTotal.WithLabelValues("unknown_user").Inc()
				cfg.Logger.Debug().
					Str("subject", assertion.Subject).
					Msg("token subject has no account, continuing anonymously")
				return next(c)
			case err != nil:
				metrics.IdentityResolutionsTotal.WithLabelValues("store_error").Inc()
				cfg.Logger.Warn().Err(err).
					Str("path", req.URL.Path).
					Msg("identity lookup failed, continuing anonymously")
				return next(c)
			}

			metrics.IdentityResolutionsTotal.WithLabelValues("resolved").Inc()
			c.SetRequest(req.WithContext(identity.With(ctx, user.Identity())))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func parseOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
