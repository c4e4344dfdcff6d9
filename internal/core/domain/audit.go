package domain

import "time"

// AuditAction names a security or ledger event written to the audit trail.
type AuditAction string

const (
	AuditLogin                AuditAction = "login"
	AuditLoginFailed          AuditAction = "login_failed"
	AuditLogout               AuditAction = "logout"
	AuditUserCreated          AuditAction = "user_created"
	AuditUserUpdated          AuditAction = "user_updated"
	AuditPasswordChanged      AuditAction = "password_changed"
	AuditUsersArchived        AuditAction = "users_archived"
	AuditUsersBlocked         AuditAction = "users_blocked"
	AuditUsersUnblocked       AuditAction = "users_unblocked"
	AuditTransactionCreated   AuditAction = "transaction_created"
	AuditTransactionCancelled AuditAction = "transaction_cancelled"
)

// AuditEvent is one entry of the audit trail.
type AuditEvent struct {
	Action    AuditAction
	ActorID   string
	ActorRole string
	Target    string
	Details   map[string]any
	At        time.Time
}
