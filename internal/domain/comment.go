package domain

import "time"

// ActorType indicates who performed an action or authored a comment.
type ActorType string

const (
	ActorTypeStudent  ActorType = "STUDENT"
	ActorTypeEmployee ActorType = "EMPLOYEE"
	ActorTypeSystem   ActorType = "SYSTEM"
)

// Comment is an immutable entry in a ticket's discussion thread.
// Internal comments are never exposed to the owning student.
type Comment struct {
	ID         string
	TicketID   string
	AuthorType ActorType
	AuthorID   *string
	Body       string
	Internal   bool
	CreatedAt  time.Time
}
