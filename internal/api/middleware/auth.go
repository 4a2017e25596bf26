package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tasktrack/todo-api/internal/api/metrics"
	"github.com/tasktrack/todo-api/internal/core/domain"
	"github.com/tasktrack/todo-api/internal/core/ports"
)

// AuthConfig configures Authenticate.
type AuthConfig struct {
	// Skipper bypasses authentication entirely. Defaults to PublicPaths.
	Skipper  echomiddleware.Skipper
	Tokens   ports.TokenService
	Resolver ports.IdentityResolver
	// Strict rejects a present but unusable token with 401 instead of
	// continuing without an identity.
	Strict bool
	Logger zerolog.Logger
}

// Authenticate verifies the bearer token and attaches the resolved
// domain.Identity to the request context. It never rejects a request that
// carries no token; RequireRole does that.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = PublicPaths
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			subject, err := cfg.Tokens.Verify(token)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				cfg.Logger.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				if cfg.Strict {
					return err
				}
				return next(c)
			}

			ctx := c.Request().Context()
			who, err := cfg.Resolver.ResolveIdentity(ctx, subject)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("unresolved").Inc()
				if !errors.Is(err, domain.ErrUserNotFound) {
					cfg.Logger.Error().Err(err).Msg("resolve identity")
				}
				if cfg.Strict && errors.Is(err, domain.ErrUserNotFound) {
					return domain.ErrUnauthenticated
				}
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.SetRequest(c.Request().WithContext(domain.WithIdentity(ctx, who)))
			return next(c)
		}
	}
}

// bearerToken extracts the credentials of an "Authorization: Bearer <t>"
// header. Any other shape counts as no token.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func verifyResult(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "expired"
	}
	return "invalid"
}
