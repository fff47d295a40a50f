package domain

import "time"

// Feedback is the one-time student rating that closes a completion cycle.
type Feedback struct {
	ID        string
	TicketID  string
	StudentID string
	Rating    int
	Text      *string
	CreatedAt time.Time
}
