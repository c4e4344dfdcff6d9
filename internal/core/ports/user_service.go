package ports

import (
	"context"

	"github.com/senbank/backoffice/internal/core/domain"
)

// CreateUserInput carries the registration payload.
type CreateUserInput struct {
	Nom       string
	Prenom    string
	Email     string
	Password  string
	Role      string
	NumTel    string
	NumCompte string
	Photo     string
}

// UpdateUserInput carries a profile edit. NumTel and Photo are only applied
// when non-nil.
type UpdateUserInput struct {
	Nom    string
	Prenom string
	Email  string
	NumTel *string
	Photo  *string
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserService defines the user directory use cases.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id string, in UpdateUserInput) error
	ChangePassword(ctx context.Context, actor domain.Identity, id string, in ChangePasswordInput) error
	Archive(ctx context.Context, actor domain.Identity, ids []string) (int64, error)
	SetBlocked(ctx context.Context, actor domain.Identity, ids []string, blocked bool) (int64, error)
	List(ctx context.Context) ([]*domain.User, error)
}
