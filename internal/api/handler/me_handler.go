package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Me returns the identity the request was authenticated as.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/me [get]
func Me(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		ID:          who.UserID,
		Email:       who.Email,
		Role:        who.Role,
		Authorities: []string{who.Role.Authority()},
	})
}

// Root is the public landing endpoint.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok", Service: "todo-api"})
}
