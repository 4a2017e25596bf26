package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tasktrack/todo-api/internal/core/domain"
)

// RequireRole admits requests whose identity holds one of allowedRoles.
// No identity → domain.ErrUnauthenticated (401); other roles → domain.ErrForbidden (403).
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, ok := domain.IdentityFromContext(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[who.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
