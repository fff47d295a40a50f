package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

const recentEventLimit = 50

// StatsService computes read-only projections over the store and event log.
// Nothing here mutates state or caches beyond the request.
type StatsService struct {
	store repository.Store
}

// NewStatsService constructs the aggregator.
func NewStatsService(store repository.Store) *StatsService {
	return &StatsService{store: store}
}

// StatusCounts holds the global per-status ticket counts. Every status is
// present, zero-valued when no ticket currently holds it.
type StatusCounts struct {
	Counts map[domain.Status]int64
	Total  int64
}

// EmployeeHistory combines workload counters with the employee's most recent
// event-log interactions.
type EmployeeHistory struct {
	Employee        domain.Employee
	TotalAssigned   int64
	Completed       int64
	InProgress      int64
	CriticalPending int64
	RecentEvents    []domain.TicketEvent
}

// StatusCounts groups tickets by current status.
func (s *StatsService) StatusCounts(ctx context.Context) (*StatusCounts, error) {
	rows, err := s.store.Repos().Tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := &StatusCounts{Counts: make(map[domain.Status]int64, len(domain.Statuses()))}
	for _, status := range domain.Statuses() {
		result.Counts[status] = 0
	}
	for _, row := range rows {
		result.Counts[row.Status] = row.Count
		result.Total += row.Count
	}
	return result, nil
}

// EmployeeHistory returns workload stats and the last interactions for one
// employee.
func (s *StatsService) EmployeeHistory(ctx context.Context, employeeID string) (*EmployeeHistory, error) {
	repos := s.store.Repos()
	employee, err := repos.Employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	workload, err := repos.Assignments.Workload(ctx, employeeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	recent, err := repos.Events.ListRecentByActor(ctx, employeeID, recentEventLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &EmployeeHistory{
		Employee:        *employee,
		TotalAssigned:   workload.TotalAssigned,
		Completed:       workload.Completed,
		InProgress:      workload.InProgress,
		CriticalPending: workload.CriticalPending,
		RecentEvents:    recent,
	}, nil
}
