package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/senbank/backoffice/internal/api/metrics"
	"github.com/senbank/backoffice/internal/core/domain"
)

const identityKey = "identity"

// Authenticator turns a raw bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (domain.Identity, error)
}

// Auth checks the bearer token against the authenticator and stores the
// resulting domain.Identity on the context. Any failure, including a
// denylist lookup error, ends the request with 401; lookup errors are logged.
func Auth(auth Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("no_header", http.StatusUnauthorized, "token required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("no_token", http.StatusUnauthorized, "token missing")
			}

			identity, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrInvalidToken) {
					return reject("invalid_token", http.StatusUnauthorized, "invalid token")
				}
				if !errors.Is(err, domain.ErrTokenRevoked) {
					log.Error().Err(err).Str("path", c.Path()).Msg("revocation check failed")
				}
				return reject("revoked", http.StatusUnauthorized, "unauthorized")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

func reject(reason string, code int, msg string) error {
	metrics.AuthRejectedTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(code, msg)
}
