package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/senbank/backoffice/internal/core/domain"
)

var testLog = zerolog.Nop()

func testHasher() *PasswordHasher { return NewPasswordHasher(bcrypt.MinCost) }

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// stubUserRepo mirrors the unique indexes of the Mongo collection.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	// legacyPhones simulates documents that only carry the old telephone field.
	legacyPhones map[string]string
	createCalls  int
	// numCompteUnindexed drops the numCompte check from Create, as on a
	// collection whose unique index failed to build.
	numCompteUnindexed bool
	// staleAccountCheck makes AccountNumberTaken miss every number, as when
	// a concurrent insert lands between the check and Create.
	staleAccountCheck bool
	accountChecks     []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), legacyPhones: make(map[string]string)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, u := range r.users {
		switch {
		case u.Email == user.Email:
			return nil, domain.ErrEmailTaken
		case !r.numCompteUnindexed && u.NumCompte != "" && u.NumCompte == user.NumCompte:
			return nil, domain.ErrAccountNumberTaken
		case u.NumTel != "" && u.NumTel == user.NumTel:
			return nil, domain.ErrPhoneTaken
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) PhoneTaken(_ context.Context, phone, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if id != excludeID && u.NumTel == phone {
			return true, nil
		}
	}
	for id, p := range r.legacyPhones {
		if id != excludeID && p == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) AccountNumberTaken(_ context.Context, numCompte string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accountChecks = append(r.accountChecks, numCompte)
	if r.staleAccountCheck {
		return false, nil
	}
	for _, u := range r.users {
		if u.NumCompte == numCompte {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, up domain.ProfileUpdate, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Nom, u.Prenom, u.Email, u.UpdateDate = up.Nom, up.Prenom, up.Email, at
	if up.NumTel != nil {
		u.NumTel = *up.NumTel
	}
	if up.Photo != nil {
		u.Photo = *up.Photo
	}
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash, u.UpdateDate = hash, at
	return nil
}

func (r *stubUserRepo) Archive(_ context.Context, ids []string, at time.Time) (int64, int64, error) {
	return r.updateMany(ids, func(u *domain.User) {
		u.Archived, u.ArchivedAt, u.UpdateDate = true, &at, at
	})
}

func (r *stubUserRepo) SetBlocked(_ context.Context, ids []string, blocked bool, at time.Time) (int64, int64, error) {
	return r.updateMany(ids, func(u *domain.User) {
		u.Bloquer, u.UpdateDate = blocked, at
	})
}

func (r *stubUserRepo) updateMany(ids []string, apply func(*domain.User)) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched, modified int64
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			matched++
			// UpdateDate always changes, so every match is a modification.
			apply(u)
			modified++
		}
	}
	return matched, modified, nil
}

func (r *stubUserRepo) ListActive(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if !u.Archived {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// stubRevocations mirrors the upsert-by-jti semantics of the denylist.
type stubRevocations struct {
	mu      sync.Mutex
	entries map[string]domain.Revocation
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{entries: make(map[string]domain.Revocation)}
}

func (s *stubRevocations) Revoke(_ context.Context, r domain.Revocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries[r.JTI] = r
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.entries[jti]
	return ok, nil
}

// stubTxRepo keeps transactions in insertion order.
type stubTxRepo struct {
	mu  sync.Mutex
	txs []*domain.Transaction
}

func (r *stubTxRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.IDTransaction == tx.IDTransaction {
			return domain.ErrTransactionExists
		}
	}
	clone := *tx
	r.txs = append(r.txs, &clone)
	return nil
}

func (r *stubTxRepo) ListByDateDesc(_ context.Context) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Transaction, 0, len(r.txs))
	for _, t := range r.txs {
		clone := *t
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTransaction.After(out[j].DateTransaction) })
	return out, nil
}

func (r *stubTxRepo) Cancel(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txs {
		if t.IDTransaction == id && t.Etat.CanTransitionTo(domain.StateAnnule) {
			t.Etat = domain.StateAnnule
			return true, nil
		}
	}
	return false, nil
}

// recordingAudit captures audit events synchronously.
type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}
