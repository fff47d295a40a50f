package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status enumerates lifecycle states for tickets. The order of the set is
// also the order of the student-facing progress indicator.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusApproaching Status = "APPROACHING"
	StatusResolving   Status = "RESOLVING"
	StatusCompleted   Status = "COMPLETED"
	StatusClosed      Status = "CLOSED"
)

// Statuses returns every lifecycle state in progress order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproaching, StatusResolving, StatusCompleted, StatusClosed}
}

// Valid reports whether s is one of the five fixed states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproaching, StatusResolving, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Rank returns the position of s in the progress order, starting at 0.
// Unknown statuses rank after every valid one.
func (s Status) Rank() int {
	for i, candidate := range Statuses() {
		if candidate == s {
			return i
		}
	}
	return len(Statuses())
}

// ParseStatus converts external input into a Status, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return status, nil
}

// Ticket is the aggregate for student-raised issues.
type Ticket struct {
	ID            string
	TicketNumber  string
	StudentID     string
	CategoryID    string
	SubCategoryID *string
	Title         string
	Description   string
	PhotoKey      *string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
