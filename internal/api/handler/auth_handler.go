package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasktrack/todo-api/internal/api/metrics"
	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		recordAuth("register", err)
		return err
	}

	token, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	recordAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		recordAuth("login", err)
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	recordAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func recordAuth(operation string, err error) {
	var (
		ve *ValidationError
		he *echo.HTTPError
	)
	result := "success"
	switch {
	case err == nil:
	case errors.As(err, &ve), errors.As(err, &he):
		result = "invalid_request"
	case errors.Is(err, domain.ErrDuplicateEmail):
		result = "duplicate"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
