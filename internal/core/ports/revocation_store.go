package ports

import (
	"context"

	"github.com/senbank/backoffice/internal/core/domain"
)

// RevocationStore is the access-token denylist. Entries expire on their own
// once past ExpiresAt; callers never delete them.
type RevocationStore interface {
	// Revoke inserts or refreshes the entry keyed by r.JTI.
	Revoke(ctx context.Context, r domain.Revocation) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
