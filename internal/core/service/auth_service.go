package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

// AuthService implements login, logout and per-request token authentication.
type AuthService struct {
	users       ports.UserRepository
	revocations ports.RevocationStore
	tokens      *TokenIssuer
	hasher      *PasswordHasher
	audit       ports.AuditSink
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	revocations ports.RevocationStore,
	tokens *TokenIssuer,
	hasher *PasswordHasher,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &AuthService{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		hasher:      hasher,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

// Login checks the credentials of email and returns a signed token together
// with the user record. Blocked and archived accounts are rejected before the
// password is compared.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed("", email, "unknown_email")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if user.Bloquer {
		s.loginFailed(user.ID, email, "blocked")
		return "", nil, domain.ErrAccountBlocked
	}
	if user.Archived {
		s.loginFailed(user.ID, email, "archived")
		return "", nil, domain.ErrAccountArchived
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash is unusable")
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.loginFailed(user.ID, email, "bad_password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogin,
		ActorID:   user.ID,
		ActorRole: user.Role,
		Target:    claims.ID,
		At:        s.now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return token, user, nil
}

// Logout revokes the token the actor authenticated with until its natural
// expiry.
func (s *AuthService) Logout(ctx context.Context, actor domain.Identity) error {
	if actor.TokenID == "" {
		return fmt.Errorf("%w: token missing", domain.ErrValidation)
	}

	now := s.now().UTC()
	expiresAt := actor.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(DefaultTokenTTL)
	}

	err := s.revocations.Revoke(ctx, domain.Revocation{
		JTI:       actor.TokenID,
		UserID:    actor.UserID,
		Role:      actor.Role,
		CreatedAt: now,
		ExpiresAt: expiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditLogout,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    actor.TokenID,
		At:        now,
	})
	s.log.Info().Str("user_id", actor.UserID).Str("jti", actor.TokenID).Msg("token revoked")
	return nil
}

// Authenticate verifies rawToken and rejects it when its id is on the
// denylist. Store failures are returned as errors so callers fail closed.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (domain.Identity, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return domain.Identity{}, err
	}

	jti := TokenID(claims, rawToken)
	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return domain.Identity{}, domain.ErrTokenRevoked
	}

	return domain.Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   jti,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *AuthService) loginFailed(userID, email, reason string) {
	s.audit.Record(domain.AuditEvent{
		Action:  domain.AuditLoginFailed,
		ActorID: userID,
		Target:  email,
		Details: map[string]any{"reason": reason},
		At:      s.now().UTC(),
	})
	s.log.Warn().Str("email", email).Str("reason", reason).Msg("login rejected")
}
