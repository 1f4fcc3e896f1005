package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger logs every completed request with method, path, status and
// duration. Probe and scrape endpoints are skipped.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if isProbePath(req.URL.Path) {
				return next(c)
			}

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			duration := time.Since(start)

			status := c.Response().Status
			var evt *zerolog.Event
			switch {
			case status >= 500:
				evt = log.Error()
			case status >= 400:
				evt = log.Warn()
			default:
				evt = log.Debug()
			}

			evt.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("duration_ms", duration.Milliseconds())
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				evt.Str("request_id", id)
			}
			evt.Msg("request completed")
			return nil
		}
	}
}

func isProbePath(p string) bool {
	switch p {
	case "/", "/health", "/health/ready", "/metrics":
		return true
	}
	return false
}
