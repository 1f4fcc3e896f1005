package domain

import "time"

// AuditAction names a security-relevant event.
type AuditAction string

const (
	AuditLoginSucceeded  AuditAction = "login_succeeded"
	AuditLoginFailed     AuditAction = "login_failed"
	AuditUserRegistered  AuditAction = "user_registered"
	AuditUserDeleted     AuditAction = "user_deleted"
	AuditResidentDeleted AuditAction = "resident_deleted"
)

// AuditEvent records who did what and when. Actor is an email address.
type AuditEvent struct {
	Action     AuditAction
	Actor      string
	Target     string
	OccurredAt time.Time
	Details    map[string]string
}
