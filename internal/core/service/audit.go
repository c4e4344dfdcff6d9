package service

import "github.com/senbank/backoffice/internal/core/domain"

// discardAudit is used when no audit sink is wired.
type discardAudit struct{}

func (discardAudit) Record(domain.AuditEvent) {}
