package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// currentIdentity reads the principal attached by the Authenticate middleware.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	who, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return who, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
