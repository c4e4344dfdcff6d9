package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/senbank/backoffice/internal/core/domain"
)

type stubAuthenticator struct {
	identity domain.Identity
	err      error
	gotToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, raw string) (domain.Identity, error) {
	s.gotToken = raw
	return s.identity, s.err
}

func runAuth(t *testing.T, auth Authenticator, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	return runAuthWithLog(t, auth, header, zerolog.Nop())
}

func runAuthWithLog(t *testing.T, auth Authenticator, header string, log zerolog.Logger) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(auth, log)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body["message"]
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	want := domain.Identity{UserID: "u1", Email: "a@b.sn", Role: domain.RoleAgent, TokenID: "jti-1"}
	auth := &stubAuthenticator{identity: want}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(auth, zerolog.Nop())(func(c echo.Context) error {
		called = true
		got, ok := IdentityFrom(c)
		if !ok {
			t.Fatalf("identity not set")
		}
		if got != want {
			t.Fatalf("identity = %+v, want %+v", got, want)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if auth.gotToken != "abc.def.ghi" {
		t.Fatalf("token passed = %q", auth.gotToken)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		authErr error
		wantMsg string
	}{
		{name: "missing header", header: "", wantMsg: "token required"},
		{name: "scheme only", header: "Bearer ", wantMsg: "token missing"},
		{name: "wrong scheme", header: "Token abc", wantMsg: "token missing"},
		{name: "bad token", header: "Bearer nope", authErr: domain.ErrInvalidToken, wantMsg: "invalid token"},
		{name: "revoked", header: "Bearer tok", authErr: domain.ErrTokenRevoked, wantMsg: "unauthorized"},
		{name: "store down", header: "Bearer tok", authErr: errors.New("mongo unreachable"), wantMsg: "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runAuth(t, &stubAuthenticator{err: tt.authErr}, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != tt.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestAuthMiddleware_LogsStoreFailure(t *testing.T) {
	tests := []struct {
		name    string
		authErr error
		wantLog bool
	}{
		{name: "store down", authErr: errors.New("redis unreachable"), wantLog: true},
		{name: "revoked", authErr: domain.ErrTokenRevoked, wantLog: false},
		{name: "bad token", authErr: domain.ErrInvalidToken, wantLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rec, _ := runAuthWithLog(t, &stubAuthenticator{err: tt.authErr}, "Bearer tok", zerolog.New(&buf))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			logged := strings.Contains(buf.String(), "revocation check failed")
			if logged != tt.wantLog {
				t.Fatalf("logged = %v, want %v (output %q)", logged, tt.wantLog, buf.String())
			}
			if tt.wantLog && !strings.Contains(buf.String(), "redis unreachable") {
				t.Fatalf("cause missing from log: %q", buf.String())
			}
		})
	}
}
