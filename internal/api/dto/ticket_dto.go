package dto

import (
	"time"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CategoryID    string  `json:"category_id" validate:"required"`
	SubCategoryID *string `json:"sub_category_id"`
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	PhotoKey      *string `json:"photo_key"`
}

// AssignRequest payload. The list fully replaces the active assignee set.
type AssignRequest struct {
	AssignedTo []string `json:"assigned_to" validate:"required,min=1,dive,required"`
	Notes      string   `json:"notes"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	CommentText string `json:"comment_text" validate:"required"`
	IsInternal  bool   `json:"is_internal"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	FeedbackText *string `json:"feedback_text"`
}

// TicketSummary response.
type TicketSummary struct {
	ID            string        `json:"id"`
	TicketNumber  string        `json:"ticket_number"`
	CategoryID    string        `json:"category_id"`
	SubCategoryID *string       `json:"sub_category_id,omitempty"`
	Title         string        `json:"title"`
	Status        domain.Status `json:"status"`
	StatusRank    int           `json:"status_rank"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TicketDetailResponse provides the full ticket view.
type TicketDetailResponse struct {
	TicketSummary
	Description       string               `json:"description"`
	PhotoKey          *string              `json:"photo_key,omitempty"`
	StudentID         string               `json:"student_id"`
	Assignments       []AssignmentResponse `json:"assignments"`
	AssignmentHistory []AssignmentResponse `json:"assignment_history,omitempty"`
	Comments          []CommentResponse    `json:"comments"`
	Feedback          *FeedbackResponse    `json:"feedback,omitempty"`
	Events            []EventResponse      `json:"events"`
}

// AssignmentResponse represents one (ticket, assignee) binding.
type AssignmentResponse struct {
	ID           string              `json:"id"`
	EmployeeID   string              `json:"employee_id"`
	Role         domain.AssigneeRole `json:"role"`
	AssignedBy   string              `json:"assigned_by"`
	Notes        string              `json:"notes,omitempty"`
	Active       bool                `json:"active"`
	AssignedAt   time.Time           `json:"assigned_at"`
	SupersededAt *time.Time          `json:"superseded_at,omitempty"`
}

// CommentResponse represents a discussion entry.
type CommentResponse struct {
	ID         string           `json:"id"`
	AuthorType domain.ActorType `json:"author_type"`
	AuthorID   *string          `json:"author_id,omitempty"`
	Body       string           `json:"body"`
	IsInternal bool             `json:"is_internal"`
	CreatedAt  time.Time        `json:"created_at"`
}

// FeedbackResponse represents the closing rating.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"feedback_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventResponse is one audit-log entry.
type EventResponse struct {
	ID        string           `json:"id"`
	TicketID  string           `json:"ticket_id"`
	Kind      domain.EventKind `json:"kind"`
	ActorType domain.ActorType `json:"actor_type"`
	ActorID   *string          `json:"actor_id,omitempty"`
	OldValue  map[string]any   `json:"old_value,omitempty"`
	NewValue  map[string]any   `json:"new_value,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
