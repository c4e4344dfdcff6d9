package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/senbank/backoffice/internal/core/domain"
)

const keyPrefix = "revoked:"

// RevocationStore keeps the token denylist in Redis.
// Key format: revoked:<jti>, a hash expiring at the token's own expiry.
type RevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRevocationStore wraps the given Redis client.
func NewRevocationStore(client redis.Cmdable) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke writes the entry and its expiry in one MULTI block. An entry whose
// expiry is already past is not written; the token would fail verification.
func (s *RevocationStore) Revoke(ctx context.Context, r domain.Revocation) error {
	if !r.ExpiresAt.After(s.now()) {
		return nil
	}
	key := keyPrefix + r.JTI
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"userId", r.UserID,
			"role", r.Role,
			"createdAt", r.CreatedAt.UTC().Format(time.RFC3339),
		)
		pipe.ExpireAt(ctx, key, r.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti is on the denylist.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}
