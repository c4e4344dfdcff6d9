package domain

import "time"

// Revocation is a denylist entry for a single access token.
type Revocation struct {
	JTI       string
	UserID    string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}
