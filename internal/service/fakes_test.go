package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/repository"
)

// memStore is an in-memory repository.Store used by the service tests. It
// mirrors the observable behavior of the Postgres repositories, including
// pgx.ErrNoRows on misses and a 23505 PgError on unique violations.
type memStore struct {
	mu sync.Mutex

	tickets     map[string]domain.Ticket
	assignments []domain.Assignment
	comments    []domain.Comment
	feedback    map[string]domain.Feedback
	events      []domain.TicketEvent
	employees   map[string]domain.Employee
	categories  map[string]domain.Category
	subCats     map[string]domain.SubCategory

	nextSeq    int64
	lastFilter repository.TicketFilter
}

func newMemStore() *memStore {
	return &memStore{
		tickets:    make(map[string]domain.Ticket),
		feedback:   make(map[string]domain.Feedback),
		employees:  make(map[string]domain.Employee),
		categories: make(map[string]domain.Category),
		subCats:    make(map[string]domain.SubCategory),
	}
}

func (m *memStore) Repos() repository.Repos {
	return repository.Repos{
		Tickets:     &memTicketRepo{m},
		Assignments: &memAssignmentRepo{m},
		Comments:    &memCommentRepo{m},
		Feedback:    &memFeedbackRepo{m},
		Events:      &memEventRepo{m},
		Employees:   &memEmployeeRepo{m},
		Categories:  &memCategoryRepo{m},
	}
}

func (m *memStore) WithinTx(_ context.Context, fn func(repository.Repos) error) error {
	return fn(m.Repos())
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

var idCounter int64

func nextID(prefix string) string {
	idCounter++
	return fmt.Sprintf("%s-%d", prefix, idCounter)
}

type memTicketRepo struct{ s *memStore }

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tickets {
		if existing.TicketNumber == ticket.TicketNumber {
			return uniqueViolation("tickets_ticket_number_key")
		}
	}
	ticket.ID = nextID("ticket")
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ticket := range r.s.tickets {
		if ticket.TicketNumber == number {
			t := ticket
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastFilter = filter

	var out []domain.Ticket
	for _, ticket := range r.s.tickets {
		if filter.StudentID != nil && ticket.StudentID != *filter.StudentID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(ticket.Title), term) &&
				!strings.Contains(strings.ToLower(ticket.TicketNumber), term) {
				continue
			}
		}
		if filter.AssigneeID != nil && !r.s.hasActiveAssignee(ticket.ID, *filter.AssigneeID) {
			continue
		}
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memTicketRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[domain.Status]int64)
	for _, ticket := range r.s.tickets {
		counts[ticket.Status]++
	}
	var out []repository.StatusCount
	for status, count := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (s *memStore) hasActiveAssignee(ticketID, employeeID string) bool {
	for _, a := range s.assignments {
		if a.TicketID == ticketID && a.EmployeeID == employeeID && a.Active {
			return true
		}
	}
	return false
}

func containsStatus(statuses []domain.Status, status domain.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type memAssignmentRepo struct{ s *memStore }

func (r *memAssignmentRepo) ListActiveByTicket(_ context.Context, ticketID string) ([]domain.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Assignment
	for _, a := range r.s.assignments {
		if a.TicketID == ticketID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Assignment
	for _, a := range r.s.assignments {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) SupersedeActive(_ context.Context, ticketID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for i := range r.s.assignments {
		if r.s.assignments[i].TicketID == ticketID && r.s.assignments[i].Active {
			r.s.assignments[i].Active = false
			r.s.assignments[i].SupersededAt = &now
		}
	}
	return nil
}

func (r *memAssignmentRepo) CreateBatch(_ context.Context, assignments []domain.Assignment) ([]domain.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Assignment, 0, len(assignments))
	for _, a := range assignments {
		a.ID = nextID("assignment")
		a.Active = true
		a.AssignedAt = time.Now()
		r.s.assignments = append(r.s.assignments, a)
		out = append(out, a)
	}
	return out, nil
}

// Workload counts every ticket the employee was ever assigned to, superseded
// rows included, matching the production aggregate.
func (r *memAssignmentRepo) Workload(_ context.Context, employeeID string) (*repository.EmployeeWorkload, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	workload := &repository.EmployeeWorkload{}
	seen := make(map[string]bool)
	for _, a := range r.s.assignments {
		if a.EmployeeID != employeeID || seen[a.TicketID] {
			continue
		}
		seen[a.TicketID] = true
		ticket, ok := r.s.tickets[a.TicketID]
		if !ok {
			continue
		}
		workload.TotalAssigned++
		switch ticket.Status {
		case domain.StatusCompleted, domain.StatusClosed:
			workload.Completed++
		case domain.StatusApproaching, domain.StatusResolving:
			workload.InProgress++
		}
		category, ok := r.s.categories[ticket.CategoryID]
		if ok && category.Critical && ticket.Status != domain.StatusCompleted && ticket.Status != domain.StatusClosed {
			workload.CriticalPending++
		}
	}
	return workload, nil
}

type memCommentRepo struct{ s *memStore }

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = nextID("comment")
	comment.CreatedAt = time.Now()
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.s.comments {
		if c.TicketID != ticketID {
			continue
		}
		if c.Internal && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type memFeedbackRepo struct{ s *memStore }

func (r *memFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.feedback[feedback.TicketID]; ok {
		return uniqueViolation("ticket_feedback_ticket_id_key")
	}
	feedback.ID = nextID("feedback")
	feedback.CreatedAt = time.Now()
	r.s.feedback[feedback.TicketID] = *feedback
	return nil
}

func (r *memFeedbackRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	feedback, ok := r.s.feedback[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &feedback, nil
}

type memEventRepo struct{ s *memStore }

func (r *memEventRepo) Append(_ context.Context, event *domain.TicketEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSeq++
	event.ID = nextID("event")
	event.Seq = r.s.nextSeq
	event.CreatedAt = time.Now()
	r.s.events = append(r.s.events, *event)
	return nil
}

func (r *memEventRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.TicketEvent
	for _, e := range r.s.events {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *memEventRepo) ListRecentByActor(_ context.Context, actorID string, limit int) ([]domain.TicketEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.TicketEvent
	for _, e := range r.s.events {
		if e.ActorID != nil && *e.ActorID == actorID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memEmployeeRepo struct{ s *memStore }

func (r *memEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	employee, ok := r.s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &employee, nil
}

func (r *memEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Employee
	for _, id := range ids {
		if employee, ok := r.s.employees[id]; ok {
			out = append(out, employee)
		}
	}
	return out, nil
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category, ok := r.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (r *memCategoryRepo) GetSubCategory(_ context.Context, id string) (*domain.SubCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.subCats[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &sub, nil
}
