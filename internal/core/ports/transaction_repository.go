package ports

import (
	"context"

	"github.com/senbank/backoffice/internal/core/domain"
)

// TransactionRepository defines persistence operations for the ledger.
type TransactionRepository interface {
	// Create inserts tx. A duplicate idTransaction yields ErrTransactionExists.
	Create(ctx context.Context, tx *domain.Transaction) error
	// ListByDateDesc returns every transaction ordered by dateTransaction,
	// newest first.
	ListByDateDesc(ctx context.Context) ([]*domain.Transaction, error)
	// Cancel moves the transaction identified by id from reussi to annule in a
	// single conditional update. It reports false when nothing matched.
	Cancel(ctx context.Context, id string) (bool, error)
}
