package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

var publicExact = map[string]struct{}{
	"/":             {},
	"/api/auth":     {},
	"/health":       {},
	"/health/ready": {},
	"/metrics":      {},
}

var publicPrefixes = []string{"/api/auth/", "/swagger/"}

// PublicPaths reports whether the request targets an endpoint that needs no
// identity. It matches on the raw URL path so unknown routes are not public.
func PublicPaths(c echo.Context) bool {
	path := c.Request().URL.Path
	if _, ok := publicExact[path]; ok {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
