package domain

import "time"

// Claims is the decoded payload of an access token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	ID        string
	ExpiresAt time.Time
}

// Identity is the authenticated caller of a request. It is produced by the
// access guard and passed explicitly to every service call that needs it.
type Identity struct {
	UserID string
	Email  string
	Role   string
	// TokenID is the jti (or its derived proxy) of the presented token.
	TokenID   string
	ExpiresAt time.Time
}

// IsAgent reports whether the caller holds the agent role.
func (i Identity) IsAgent() bool { return i.Role == RoleAgent }

// CanActOn reports whether the caller may modify the user record userID:
// either they own it or they are an agent.
func (i Identity) CanActOn(userID string) bool {
	return i.UserID == userID || i.IsAgent()
}
