package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// EmployeeWorkload aggregates assignment-derived counters for one employee.
type EmployeeWorkload struct {
	TotalAssigned   int64
	Completed       int64
	InProgress      int64
	CriticalPending int64
}

// AssignmentRepository manages the per-ticket assignee set.
type AssignmentRepository interface {
	ListActiveByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error)
	SupersedeActive(ctx context.Context, ticketID string) error
	CreateBatch(ctx context.Context, assignments []domain.Assignment) ([]domain.Assignment, error)
	Workload(ctx context.Context, employeeID string) (*EmployeeWorkload, error)
}

type assignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(db DBTX) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListActiveByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, employee_id, role, assigned_by, notes, active, assigned_at, superseded_at
        FROM ticket_assignments WHERE ticket_id=$1 AND active ORDER BY assigned_at ASC, id ASC`
	return r.list(ctx, query, ticketID)
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, ticket_id, employee_id, role, assigned_by, notes, active, assigned_at, superseded_at
        FROM ticket_assignments WHERE ticket_id=$1 ORDER BY assigned_at ASC, id ASC`
	return r.list(ctx, query, ticketID)
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// SupersedeActive closes out the current active set. The rows stay behind as
// history; only the flag and end timestamp change.
func (r *assignmentRepository) SupersedeActive(ctx context.Context, ticketID string) error {
	const query = `
        UPDATE ticket_assignments SET active=FALSE, superseded_at=NOW()
        WHERE ticket_id=$1 AND active`
	_, err := r.db.Exec(ctx, query, ticketID)
	return err
}

func (r *assignmentRepository) CreateBatch(ctx context.Context, assignments []domain.Assignment) ([]domain.Assignment, error) {
	const query = `
        INSERT INTO ticket_assignments (ticket_id, employee_id, role, assigned_by, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, assigned_at`
	created := make([]domain.Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		assignment.Active = true
		if err := r.db.QueryRow(ctx, query,
			assignment.TicketID,
			assignment.EmployeeID,
			assignment.Role,
			assignment.AssignedByID,
			assignment.Notes,
		).Scan(&assignment.ID, &assignment.AssignedAt); err != nil {
			return nil, err
		}
		created = append(created, assignment)
	}
	return created, nil
}

func (r *assignmentRepository) Workload(ctx context.Context, employeeID string) (*EmployeeWorkload, error) {
	const query = `
        WITH assigned AS (
            SELECT DISTINCT a.ticket_id
            FROM ticket_assignments a
            WHERE a.employee_id=$1
        )
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE t.status IN ('COMPLETED','CLOSED')),
            COUNT(*) FILTER (WHERE t.status IN ('APPROACHING','RESOLVING')),
            COUNT(*) FILTER (WHERE c.critical AND t.status NOT IN ('COMPLETED','CLOSED'))
        FROM assigned
        JOIN tickets t ON t.id = assigned.ticket_id
        JOIN categories c ON c.id = t.category_id`
	var workload EmployeeWorkload
	if err := r.db.QueryRow(ctx, query, employeeID).Scan(
		&workload.TotalAssigned,
		&workload.Completed,
		&workload.InProgress,
		&workload.CriticalPending,
	); err != nil {
		return nil, err
	}
	return &workload, nil
}

func scanAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TicketID,
			&assignment.EmployeeID,
			&assignment.Role,
			&assignment.AssignedByID,
			&assignment.Notes,
			&assignment.Active,
			&assignment.AssignedAt,
			&assignment.SupersededAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}
