package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes and x/crypto rejects it outright.
	maxPasswordBytes = 72
)

// UserService implements the user directory.
type UserService struct {
	repo          ports.UserRepository
	hasher        *PasswordHasher
	audit         ports.AuditSink
	log           zerolog.Logger
	now           func() time.Time
	accountNumber func() string
}

func NewUserService(repo ports.UserRepository, hasher *PasswordHasher, audit ports.AuditSink, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &UserService{
		repo:          repo,
		hasher:        hasher,
		audit:         audit,
		log:           log,
		now:           time.Now,
		accountNumber: generateAccountNumber,
	}
}

// Create registers a new client or distributeur. When no account number is
// supplied one is generated; the store's unique index decides collisions and
// generation is retried a bounded number of times.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.NumTel = strings.TrimSpace(in.NumTel)
	in.NumCompte = strings.TrimSpace(in.NumCompte)

	if in.Nom == "" || in.Prenom == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: nom, prenom, email, motDePasse and role are required", domain.ErrValidation)
	}
	if !domain.IsSelfServiceRole(in.Role) {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrValidation)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	if taken, err := s.repo.EmailTaken(ctx, in.Email, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}

	if in.NumCompte != "" {
		if taken, err := s.repo.AccountNumberTaken(ctx, in.NumCompte); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrAccountNumberTaken
		}
	}

	if in.NumTel != "" {
		if taken, err := s.repo.PhoneTaken(ctx, in.NumTel, ""); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrPhoneTaken
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Nom:          in.Nom,
		Prenom:       in.Prenom,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		NumCompte:    in.NumCompte,
		NumTel:       in.NumTel,
		Photo:        in.Photo,
		DateCreation: now,
		UpdateDate:   now,
	}

	created, err := s.insert(ctx, user, in.NumCompte == "")
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditUserCreated,
		ActorID:   created.ID,
		ActorRole: created.Role,
		Target:    created.ID,
		At:        now,
	})
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

func (s *UserService) insert(ctx context.Context, user *domain.User, generate bool) (*domain.User, error) {
	if !generate {
		return s.repo.Create(ctx, user)
	}

	// Each candidate is checked before the insert; the unique index on
	// numCompte still rejects one taken between the check and the insert.
	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		candidate := s.accountNumber()
		taken, err := s.repo.AccountNumberTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			s.log.Warn().Int("attempt", attempt).Msg("generated account number already in use")
			continue
		}

		user.NumCompte = candidate
		created, err := s.repo.Create(ctx, user)
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			s.log.Warn().Int("attempt", attempt).Msg("generated account number collided")
			continue
		}
		return created, err
	}
	return nil, domain.ErrAccountNumberExhausted
}

// Update edits the profile of user id. Only the owner or an agent may do so.
// An unknown id is reported as not found before the permission check.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, in ports.UpdateUserInput) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if !actor.CanActOn(id) {
		return domain.ErrForbidden
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Nom == "" || in.Prenom == "" || in.Email == "" {
		return fmt.Errorf("%w: nom, prenom and email are required", domain.ErrValidation)
	}

	if taken, err := s.repo.EmailTaken(ctx, in.Email, id); err != nil {
		return err
	} else if taken {
		return domain.ErrEmailTaken
	}

	if in.NumTel != nil {
		phone := strings.TrimSpace(*in.NumTel)
		in.NumTel = &phone
		if phone != "" {
			if taken, err := s.repo.PhoneTaken(ctx, phone, id); err != nil {
				return err
			} else if taken {
				return domain.ErrPhoneTaken
			}
		}
	}

	now := s.now().UTC()
	err := s.repo.UpdateProfile(ctx, id, domain.ProfileUpdate{
		Nom:    in.Nom,
		Prenom: in.Prenom,
		Email:  in.Email,
		NumTel: in.NumTel,
		Photo:  in.Photo,
	}, now)
	if err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditUserUpdated,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    id,
		At:        now,
	})
	return nil
}

// ChangePassword replaces the password of user id. The old password is always
// required, agents included.
func (s *UserService) ChangePassword(ctx context.Context, actor domain.Identity, id string, in ports.ChangePasswordInput) error {
	if !actor.CanActOn(id) {
		return domain.ErrForbidden
	}

	if in.NewPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(in.NewPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if len(in.NewPassword) > maxPasswordBytes {
		return fmt.Errorf("%w: new password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if in.OldPassword == "" {
		return fmt.Errorf("%w: old password is required", domain.ErrValidation)
	}
	ok, err := s.hasher.Verify(in.OldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrOldPasswordMismatch
	}

	same, err := s.hasher.Verify(in.NewPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if same {
		return domain.ErrPasswordUnchanged
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	if err := s.repo.UpdatePassword(ctx, id, hash, now); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditPasswordChanged,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    id,
		At:        now,
	})
	s.log.Info().Str("user_id", id).Str("actor_id", actor.UserID).Msg("password changed")
	return nil
}

// Archive soft-deletes the given users and returns how many were modified.
func (s *UserService) Archive(ctx context.Context, actor domain.Identity, ids []string) (int64, error) {
	if !actor.IsAgent() {
		return 0, domain.ErrForbidden
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids list is required", domain.ErrValidation)
	}

	now := s.now().UTC()
	matched, modified, err := s.repo.Archive(ctx, ids, now)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, domain.ErrUserNotFound
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditUsersArchived,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    strings.Join(ids, ","),
		Details:   map[string]any{"modified": modified},
		At:        now,
	})
	return modified, nil
}

// SetBlocked blocks or unblocks the given users and returns how many were
// modified. A blocked user cannot log in.
func (s *UserService) SetBlocked(ctx context.Context, actor domain.Identity, ids []string, blocked bool) (int64, error) {
	if !actor.IsAgent() {
		return 0, domain.ErrForbidden
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids list is required", domain.ErrValidation)
	}

	now := s.now().UTC()
	matched, modified, err := s.repo.SetBlocked(ctx, ids, blocked, now)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, domain.ErrUserNotFound
	}

	action := domain.AuditUsersUnblocked
	if blocked {
		action = domain.AuditUsersBlocked
	}
	s.audit.Record(domain.AuditEvent{
		Action:    action,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    strings.Join(ids, ","),
		Details:   map[string]any{"modified": modified},
		At:        now,
	})
	return modified, nil
}

// List returns every non-archived user.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListActive(ctx)
}
