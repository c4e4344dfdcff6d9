package ports

import (
	"context"

	"github.com/senbank/backoffice/internal/core/domain"
)

// AuthService covers login, logout and token authentication.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, actor domain.Identity) error
	// Authenticate verifies rawToken and checks it against the denylist.
	Authenticate(ctx context.Context, rawToken string) (domain.Identity, error)
}
