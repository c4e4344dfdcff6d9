package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/senbank/backoffice/internal/api/middleware"
	"github.com/senbank/backoffice/internal/core/domain"
)

// identityFrom returns the caller stored by the Auth middleware. A route
// mounted without Auth gets a 401 rather than acting as an anonymous user.
func identityFrom(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "token required")
	}
	return identity, nil
}
