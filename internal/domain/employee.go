package domain

import "time"

// EmployeeRole enumerates assignable staff roles.
type EmployeeRole string

const (
	EmployeeRoleManager EmployeeRole = "MANAGER"
	EmployeeRoleWorker  EmployeeRole = "WORKER"
	EmployeeRoleAdmin   EmployeeRole = "ADMIN"
)

// Employee mirrors the externally managed staff directory. The engine only
// reads it, for assignee resolution and workload stats.
type Employee struct {
	ID        string
	FullName  string
	Role      EmployeeRole
	Active    bool
	CreatedAt time.Time
}

// AssigneeRole maps the directory role onto the role recorded on an
// assignment. Admins assign as managers.
func (e Employee) AssigneeRole() AssigneeRole {
	if e.Role == EmployeeRoleWorker {
		return AssigneeRoleWorker
	}
	return AssigneeRoleManager
}
