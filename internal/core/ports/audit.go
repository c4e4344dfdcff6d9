package ports

import (
	"context"

	"github.com/senbank/backoffice/internal/core/domain"
)

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the caller on storage.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
