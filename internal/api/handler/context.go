package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/identity"
)

// currentIdentity returns the identity resolved for this request. Routes
// behind the access policy always have one; the check guards handlers
// mounted without it.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	return identity.Require(c.Request().Context())
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
