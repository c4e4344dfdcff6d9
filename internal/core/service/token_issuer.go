package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/senbank/backoffice/internal/core/domain"
)

// DefaultTokenTTL is the validity window of an access token.
const DefaultTokenTTL = time.Hour

// ErrMissingSigningKey is returned by NewTokenIssuer when no key is configured.
var ErrMissingSigningKey = errors.New("token issuer: signing key is required")

// accessClaims is the JWT payload. The field names match the tokens already
// held by dashboard sessions.
type accessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for user with a fresh jti.
func (t *TokenIssuer) Issue(user *domain.User) (string, *domain.Claims, error) {
	now := t.now()
	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, toDomainClaims(&claims), nil
}

// Parse verifies signature, algorithm and expiry of raw and returns its claims.
func (t *TokenIssuer) Parse(raw string) (*domain.Claims, error) {
	claims := &accessClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.key, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return toDomainClaims(claims), nil
}

func toDomainClaims(c *accessClaims) *domain.Claims {
	out := &domain.Claims{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
		ID:     c.ID,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

// TokenID returns the revocation key for a token: its jti when present,
// otherwise the hex SHA-256 of the raw token.
func TokenID(claims *domain.Claims, raw string) string {
	if claims != nil && claims.ID != "" {
		return claims.ID
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
