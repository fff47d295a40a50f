package domain

import "time"

// EventKind captures what a ticket event records.
type EventKind string

const (
	EventKindStatusChange     EventKind = "STATUS_CHANGE"
	EventKindAssignmentChange EventKind = "ASSIGNMENT_CHANGE"
	EventKindComment          EventKind = "COMMENT"
)

// TicketEvent is an immutable audit entry. Once appended it is never mutated
// or deleted; per-ticket order is (CreatedAt, Seq).
type TicketEvent struct {
	ID        string
	Seq       int64
	TicketID  string
	Kind      EventKind
	ActorType ActorType
	ActorID   *string
	OldValue  map[string]any
	NewValue  map[string]any
	Notes     string
	CreatedAt time.Time
}
