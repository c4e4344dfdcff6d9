package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through only when the authenticated caller
// holds one of roles. It must be mounted after Auth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token required")
			}
			if _, ok := allowed[identity.Role]; !ok {
				return reject("forbidden", http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
