package ports

import (
	"context"
	"time"

	"github.com/senbank/backoffice/internal/core/domain"
)

// CreateTransactionInput carries a new ledger entry. IDTransaction may be
// empty, in which case one is generated.
type CreateTransactionInput struct {
	IDTransaction         string
	Type                  string
	Montant               float64
	NumCompteSource       string
	NumCompteDestinataire string
	DateTransaction       time.Time
	Etat                  string
}

// TransactionService defines the ledger use cases.
type TransactionService interface {
	Create(ctx context.Context, actor domain.Identity, in CreateTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context) ([]*domain.Transaction, error)
	Cancel(ctx context.Context, actor domain.Identity, id string) error
}
