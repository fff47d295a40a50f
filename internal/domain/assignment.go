package domain

import "time"

// AssigneeRole is the role an employee holds on an assignment.
type AssigneeRole string

const (
	AssigneeRoleManager AssigneeRole = "MANAGER"
	AssigneeRoleWorker  AssigneeRole = "WORKER"
)

// Assignment binds a ticket to one employee. The active set for a ticket is
// the result of the most recent replacement; superseded rows stay as history.
type Assignment struct {
	ID           string
	TicketID     string
	EmployeeID   string
	Role         AssigneeRole
	AssignedByID string
	Notes        string
	Active       bool
	AssignedAt   time.Time
	SupersededAt *time.Time
}
