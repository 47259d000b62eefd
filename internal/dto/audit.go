package dto

import (
	"encoding/json"
	"time"

	"github.com/finbooks/ledger_core/internal/core/domain"
)

// ListAuditEventsParams holds query parameters for the audit trail listing.
type ListAuditEventsParams struct {
	Table     string     `form:"table"`
	Operation string     `form:"operation"`
	ActorID   string     `form:"actorID"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// AuditEventResponse defines the data returned for one audit event.
type AuditEventResponse struct {
	EventID   string          `json:"eventID"`
	Table     string          `json:"table"`
	RecordID  string          `json:"recordID"`
	Operation string          `json:"operation"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	ActorID   string          `json:"actorID"`
	At        time.Time       `json:"at"`
}

// ListAuditEventsResponse is a page of audit events plus the continuation token.
type ListAuditEventsResponse struct {
	Events    []AuditEventResponse `json:"events"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToAuditEventResponse converts a domain.AuditEvent to its DTO.
func ToAuditEventResponse(e *domain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		EventID:   e.EventID,
		Table:     e.Table,
		RecordID:  e.RecordID,
		Operation: string(e.Operation),
		Before:    e.Before,
		After:     e.After,
		ActorID:   e.ActorID,
		At:        e.At,
	}
}

// ToAuditEventResponses converts a slice of audit events.
func ToAuditEventResponses(events []domain.AuditEvent) []AuditEventResponse {
	out := make([]AuditEventResponse, len(events))
	for i := range events {
		out[i] = ToAuditEventResponse(&events[i])
	}
	return out
}
