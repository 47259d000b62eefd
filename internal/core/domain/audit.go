package domain

import "time"

// AuditOperation enumerates the mutations recorded in the audit trail.
type AuditOperation string

const (
	AuditCreate     AuditOperation = "CREATE"
	AuditPost       AuditOperation = "POST"
	AuditReverse    AuditOperation = "REVERSE"
	AuditClose      AuditOperation = "CLOSE"
	AuditReopen     AuditOperation = "REOPEN"
	AuditDeactivate AuditOperation = "DEACTIVATE"
	AuditUpdate     AuditOperation = "UPDATE"
)

// AuditEvent is an immutable record of a mutating operation. Events are written
// in the same database transaction as the mutation they describe and are never
// updated or deleted.
type AuditEvent struct {
	EventID   string         `json:"eventID"`
	Table     string         `json:"table"`
	RecordID  string         `json:"recordID"`
	Operation AuditOperation `json:"operation"`
	Before    []byte         `json:"before,omitempty"` // JSON snapshot, nil on create
	After     []byte         `json:"after,omitempty"`  // JSON snapshot, nil on delete
	ActorID   string         `json:"actorID"`
	At        time.Time      `json:"at"`
}
