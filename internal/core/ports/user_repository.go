package ports

import (
	"context"
	"time"

	"github.com/senbank/backoffice/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Create inserts a new user. Uniqueness of email, numCompte and numTel is
	// enforced by the store at insert time and surfaces as ErrEmailTaken,
	// ErrAccountNumberTaken or ErrPhoneTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// EmailTaken reports whether another record (excluding excludeID when
	// non-empty) already uses email.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	// PhoneTaken checks both numTel and the legacy telephone field.
	PhoneTaken(ctx context.Context, phone, excludeID string) (bool, error)
	AccountNumberTaken(ctx context.Context, numCompte string) (bool, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	// Archive and SetBlocked return the matched and modified counts.
	Archive(ctx context.Context, ids []string, at time.Time) (matched, modified int64, err error)
	SetBlocked(ctx context.Context, ids []string, blocked bool, at time.Time) (matched, modified int64, err error)
	// ListActive returns every non-archived user.
	ListActive(ctx context.Context) ([]*domain.User, error)
}
