package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/traymate/backend/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// registeredClaims are owned by the codec and stripped from parsed claims.
var registeredClaims = []string{"sub", "iat", "exp"}

// JWTCodec issues and verifies HS256-signed JWTs. It is safe for concurrent
// use; the key is never modified after construction.
type JWTCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// CodecOption customizes a JWTCodec.
type CodecOption func(*JWTCodec)

// WithClock sets the clock used to check expiry at parse time.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec creates a codec signing with secret. A non-positive ttl falls
// back to 24 hours.
func NewJWTCodec(secret string, ttl time.Duration, opts ...CodecOption) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt codec: empty signing secret")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	c := &JWTCodec{key: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs an assertion for subject valid from now until now+ttl. The
// registered claims always win over entries of the same name in claims.
func (c *JWTCodec) Issue(subject string, claims map[string]any, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}

	mc := make(jwt.MapClaims, len(claims)+len(registeredClaims))
	for k, v := range claims {
		mc[k] = v
	}
	mc["sub"] = subject
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(now.Add(c.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// expiryClock lags the codec clock by one nanosecond. jwt/v5 rejects a token
// once now is not before exp, so the lag makes the exp instant itself valid:
// a token expires only when the current time exceeds its exp.
func (c *JWTCodec) expiryClock() time.Time {
	return c.now().Add(-time.Nanosecond)
}

// Parse verifies the signature first and the expiry second. It returns
// domain.ErrMalformedToken, domain.ErrInvalidSignature or
// domain.ErrTokenExpired on failure.
func (c *JWTCodec) Parse(token string) (*domain.Assertion, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.expiryClock),
	)

	mc := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(token, mc, c.keyFunc); err != nil {
		return nil, classify(err)
	}

	subject, err := mc.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}

	a := &domain.Assertion{Subject: subject, Claims: make(map[string]any)}
	if exp, _ := mc.GetExpirationTime(); exp != nil {
		a.ExpiresAt = exp.Time
	}
	if iat, _ := mc.GetIssuedAt(); iat != nil {
		a.IssuedAt = iat.Time
	}
	for k, v := range mc {
		a.Claims[k] = v
	}
	for _, k := range registeredClaims {
		delete(a.Claims, k)
	}
	return a, nil
}

func (c *JWTCodec) keyFunc(_ *jwt.Token) (any, error) {
	return c.key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
}
