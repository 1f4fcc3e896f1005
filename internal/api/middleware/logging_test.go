package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
)

func TestRequestLogger_LogsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/residents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestLogger(log)(func(c echo.Context) error {
		return domain.ErrForbidden
	})(c)
	if err != nil {
		t.Fatalf("logger must handle the error itself, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q", buf.String())
	}
	if entry["level"] != "warn" || entry["path"] != "/admin/residents" || entry["status"] != float64(403) {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestRequestLogger_SkipsProbes(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())

	_ = RequestLogger(zerolog.New(&buf))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if buf.Len() != 0 {
		t.Fatalf("expected no log output for probes, got %q", buf.String())
	}
}
