package models

import "time"

// AuditEvent is the audit_events table row. Append-only.
type AuditEvent struct {
	EventID    string    `db:"event_id"`
	TableName  string    `db:"table_name"`
	RecordID   string    `db:"record_id"`
	Operation  string    `db:"operation"`
	BeforeJSON []byte    `db:"before_json"`
	AfterJSON  []byte    `db:"after_json"`
	ActorID    string    `db:"actor_id"`
	At         time.Time `db:"at"`
}
