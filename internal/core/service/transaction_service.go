package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

// TransactionService implements the ledger.
type TransactionService struct {
	repo  ports.TransactionRepository
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewTransactionService(repo ports.TransactionRepository, audit ports.AuditSink, log zerolog.Logger) *TransactionService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &TransactionService{
		repo:  repo,
		audit: audit,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create records a transaction. The initial etat is taken from the caller and
// may be annule.
func (s *TransactionService) Create(ctx context.Context, actor domain.Identity, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	if in.Type == "" || in.Montant == 0 || in.DateTransaction.IsZero() || in.Etat == "" {
		return nil, fmt.Errorf("%w: type, montant, dateTransaction and etat are required", domain.ErrValidation)
	}

	typ := domain.TransactionType(in.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: invalid transaction type", domain.ErrValidation)
	}
	etat := domain.TransactionState(in.Etat)
	if !etat.Valid() {
		return nil, fmt.Errorf("%w: invalid transaction state", domain.ErrValidation)
	}
	if in.Montant < 0 || math.IsNaN(in.Montant) || math.IsInf(in.Montant, 0) {
		return nil, fmt.Errorf("%w: montant must be a positive number", domain.ErrValidation)
	}

	id := strings.TrimSpace(in.IDTransaction)
	if id == "" {
		id = s.newID()
	}

	now := s.now().UTC()
	tx := &domain.Transaction{
		IDTransaction:         id,
		Type:                  typ,
		Montant:               in.Montant,
		NumCompteSource:       strings.TrimSpace(in.NumCompteSource),
		NumCompteDestinataire: strings.TrimSpace(in.NumCompteDestinataire),
		DateTransaction:       in.DateTransaction.UTC(),
		Etat:                  etat,
		CreatedAt:             now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditTransactionCreated,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    id,
		Details:   map[string]any{"type": string(typ), "montant": in.Montant, "etat": string(etat)},
		At:        now,
	})
	s.log.Info().Str("id_transaction", id).Str("type", string(typ)).Float64("montant", in.Montant).Msg("transaction created")
	return tx, nil
}

// List returns every transaction, newest dateTransaction first.
func (s *TransactionService) List(ctx context.Context) ([]*domain.Transaction, error) {
	return s.repo.ListByDateDesc(ctx)
}

// Cancel moves transaction id from reussi to annule. An unknown id and an
// already cancelled transaction are both reported as ErrTransactionNotCancellable.
func (s *TransactionService) Cancel(ctx context.Context, actor domain.Identity, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: transaction id is required", domain.ErrValidation)
	}

	ok, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTransactionNotCancellable
	}

	s.audit.Record(domain.AuditEvent{
		Action:    domain.AuditTransactionCancelled,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Target:    id,
		At:        s.now().UTC(),
	})
	s.log.Info().Str("id_transaction", id).Str("actor_id", actor.UserID).Msg("transaction cancelled")
	return nil
}
