package events

import (
	"time"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketCommentAdded      EventType = "ticket_comment_added"
	EventTicketFeedbackSubmitted EventType = "ticket_feedback_submitted"
	EventTicketReopened          EventType = "ticket_reopened"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type       domain.ActorType `json:"type"`
	StudentID  *string          `json:"student_id,omitempty"`
	EmployeeID *string          `json:"employee_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	TicketNumber string      `json:"ticket_number"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID    string  `json:"category_id"`
	SubCategoryID *string `json:"sub_category_id,omitempty"`
	Title         string  `json:"title"`
}

// TicketAssignedPayload records a full assignment-set replacement.
type TicketAssignedPayload struct {
	OldAssigneeIDs []string `json:"old_assignee_ids"`
	NewAssigneeIDs []string `json:"new_assignee_ids"`
	Notes          string   `json:"notes,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	Notes     string        `json:"notes,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string           `json:"comment_id"`
	AuthorType  domain.ActorType `json:"author_type"`
	Internal    bool             `json:"internal"`
	BodyPreview string           `json:"body_preview"`
}

// TicketFeedbackSubmittedPayload payload.
type TicketFeedbackSubmittedPayload struct {
	Rating int `json:"rating"`
}

// TicketReopenedPayload payload.
type TicketReopenedPayload struct {
	Reason string `json:"reason"`
}
