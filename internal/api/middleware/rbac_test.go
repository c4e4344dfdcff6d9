package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/senbank/backoffice/internal/core/domain"
)

func serveRole(t *testing.T, identity *domain.Identity, roles ...string) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(identityKey, *identity)
	}

	called := false
	handler := RequireRole(roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestRequireRole_Allows(t *testing.T) {
	code, called := serveRole(t, &domain.Identity{UserID: "a1", Role: domain.RoleAgent}, domain.RoleAgent)
	if !called {
		t.Fatalf("next handler not called")
	}
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	code, called := serveRole(t, &domain.Identity{UserID: "c1", Role: domain.RoleClient}, domain.RoleAgent)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	code, called := serveRole(t, nil, domain.RoleAgent)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
