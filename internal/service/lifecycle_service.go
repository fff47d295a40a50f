package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/helpdesk-service/internal/config"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/events"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

// Actor identifies the authenticated caller of an engine operation. Identity
// and the permission decision are resolved upstream; the engine only enforces
// ownership and lifecycle invariants.
type Actor struct {
	Type domain.ActorType
	ID   string
}

// StudentActor builds a student actor.
func StudentActor(id string) Actor {
	return Actor{Type: domain.ActorTypeStudent, ID: id}
}

// EmployeeActor builds an employee actor.
func EmployeeActor(id string) Actor {
	return Actor{Type: domain.ActorTypeEmployee, ID: id}
}

// LifecycleService is the sole mutator of ticket state.
type LifecycleService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	cfg        config.LifecycleConfig
}

// LifecycleDependencies bundles collaborators for the engine.
type LifecycleDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
}

// NewLifecycleService constructs the engine.
func NewLifecycleService(cfg config.LifecycleConfig, deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CategoryID    string
	SubCategoryID *string
	Title         string
	Description   string
	PhotoKey      *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	StudentID  *string
	CategoryID *string
	AssigneeID *string
	Statuses   []domain.Status
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketDetail aggregates a ticket with its sub-records for read paths.
type TicketDetail struct {
	Ticket            domain.Ticket
	ActiveAssignments []domain.Assignment
	AssignmentHistory []domain.Assignment
	Comments          []domain.Comment
	Feedback          *domain.Feedback
	Events            []domain.TicketEvent
}

const ticketNumberAttempts = 3

// CreateTicket opens a new ticket for a student. Status always starts at
// PENDING; the creation is recorded as the first status-change event.
func (s *LifecycleService) CreateTicket(ctx context.Context, studentID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	repos := s.store.Repos()
	category, err := repos.Categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category inactive", map[string]any{"category_id": category.ID})
	}
	if input.SubCategoryID != nil {
		sub, err := repos.Categories.GetSubCategory(ctx, *input.SubCategoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("sub-category", map[string]any{"sub_category_id": *input.SubCategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		if sub.CategoryID != category.ID {
			return nil, apperrors.NewValidationError("sub-category not part of category", nil)
		}
	}

	ticket := &domain.Ticket{
		StudentID:     studentID,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Title:         title,
		Description:   description,
		PhotoKey:      input.PhotoKey,
		Status:        domain.StatusPending,
	}

	err = s.store.WithinTx(ctx, func(r repository.Repos) error {
		for attempt := 0; ; attempt++ {
			ticket.TicketNumber = generateTicketNumber()
			createErr := r.Tickets.Create(ctx, ticket)
			if createErr == nil {
				break
			}
			if repository.IsUniqueViolation(createErr) && attempt < ticketNumberAttempts-1 {
				continue
			}
			if repository.IsUniqueViolation(createErr) {
				return apperrors.NewConflict("ticket number collision", map[string]any{"ticket_number": ticket.TicketNumber})
			}
			return createErr
		}
		actorID := studentID
		return r.Events.Append(ctx, &domain.TicketEvent{
			TicketID:  ticket.ID,
			Kind:      domain.EventKindStatusChange,
			ActorType: domain.ActorTypeStudent,
			ActorID:   &actorID,
			OldValue:  nil,
			NewValue:  map[string]any{"status": string(domain.StatusPending)},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        studentEventActor(studentID),
		Payload: events.TicketCreatedPayload{
			CategoryID:    ticket.CategoryID,
			SubCategoryID: ticket.SubCategoryID,
			Title:         ticket.Title,
		},
	})
	return ticket, nil
}

// Assign replaces the ticket's active assignment set in one transaction.
// The previous set survives as history; no status transition is implied.
func (s *LifecycleService) Assign(ctx context.Context, actor Actor, ticketID string, assigneeIDs []string, notes string) (*domain.Ticket, error) {
	if actor.Type != domain.ActorTypeEmployee {
		return nil, apperrors.NewForbidden("only staff may assign tickets")
	}
	assigneeIDs = dedupe(assigneeIDs)
	if len(assigneeIDs) == 0 {
		return nil, apperrors.NewInvalidAssignment("assignee list is empty", nil)
	}

	var ticket *domain.Ticket
	var oldIDs, newIDs []string
	err := s.store.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		ticket, err = r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return notFoundIfNoRows(err, "ticket", ticketID)
		}

		employees, err := r.Employees.ListByIDs(ctx, assigneeIDs)
		if err != nil {
			return err
		}
		byID := make(map[string]domain.Employee, len(employees))
		for _, employee := range employees {
			byID[employee.ID] = employee
		}
		for _, id := range assigneeIDs {
			employee, ok := byID[id]
			if !ok {
				return apperrors.NewInvalidAssignment("unknown assignee", map[string]any{"employee_id": id})
			}
			if !employee.Active {
				return apperrors.NewInvalidAssignment("assignee inactive", map[string]any{"employee_id": id})
			}
		}

		previous, err := r.Assignments.ListActiveByTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		oldIDs = assigneeIDsOf(previous)

		if err := r.Assignments.SupersedeActive(ctx, ticketID); err != nil {
			return err
		}
		batch := make([]domain.Assignment, 0, len(assigneeIDs))
		for _, id := range assigneeIDs {
			batch = append(batch, domain.Assignment{
				TicketID:     ticketID,
				EmployeeID:   id,
				Role:         byID[id].AssigneeRole(),
				AssignedByID: actor.ID,
				Notes:        notes,
			})
		}
		created, err := r.Assignments.CreateBatch(ctx, batch)
		if err != nil {
			return err
		}
		newIDs = assigneeIDsOf(created)

		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		actorID := actor.ID
		return r.Events.Append(ctx, &domain.TicketEvent{
			TicketID:  ticketID,
			Kind:      domain.EventKindAssignmentChange,
			ActorType: domain.ActorTypeEmployee,
			ActorID:   &actorID,
			OldValue:  map[string]any{"assignee_ids": oldIDs},
			NewValue:  map[string]any{"assignee_ids": newIDs},
			Notes:     notes,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketAssigned,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        employeeEventActor(actor.ID),
		Payload: events.TicketAssignedPayload{
			OldAssigneeIDs: oldIDs,
			NewAssigneeIDs: newIDs,
			Notes:          notes,
		},
	})
	return ticket, nil
}

// ChangeStatus moves a ticket to newStatus. By default any pair is allowed,
// including backward moves; strict mode consults the transition table.
func (s *LifecycleService) ChangeStatus(ctx context.Context, actor Actor, ticketID string, newStatus domain.Status, notes string) (*domain.Ticket, error) {
	if actor.Type != domain.ActorTypeEmployee {
		return nil, apperrors.NewForbidden("only staff may change ticket status")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	var ticket *domain.Ticket
	var oldStatus domain.Status
	err := s.store.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		ticket, err = r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return notFoundIfNoRows(err, "ticket", ticketID)
		}
		oldStatus = ticket.Status
		if s.cfg.StrictTransitions && !transitionAllowed(oldStatus, newStatus) {
			return apperrors.NewInvalidState("status transition not allowed", map[string]any{
				"from": string(oldStatus),
				"to":   string(newStatus),
			})
		}
		ticket.Status = newStatus
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		actorID := actor.ID
		return r.Events.Append(ctx, &domain.TicketEvent{
			TicketID:  ticketID,
			Kind:      domain.EventKindStatusChange,
			ActorType: domain.ActorTypeEmployee,
			ActorID:   &actorID,
			OldValue:  map[string]any{"status": string(oldStatus)},
			NewValue:  map[string]any{"status": string(newStatus)},
			Notes:     notes,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        employeeEventActor(actor.ID),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		},
	})
	return ticket, nil
}

// AddComment appends an immutable comment. Students may only comment on their
// own tickets and never internally.
func (s *LifecycleService) AddComment(ctx context.Context, actor Actor, ticketID, body string, internal bool) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	if actor.Type == domain.ActorTypeStudent && internal {
		return nil, apperrors.NewForbidden("students cannot post internal comments")
	}

	var ticket *domain.Ticket
	comment := &domain.Comment{
		TicketID:   ticketID,
		AuthorType: actor.Type,
		Body:       body,
		Internal:   internal,
	}
	actorID := actor.ID
	comment.AuthorID = &actorID

	err := s.store.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		ticket, err = r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return notFoundIfNoRows(err, "ticket", ticketID)
		}
		if actor.Type == domain.ActorTypeStudent && ticket.StudentID != actor.ID {
			return apperrors.NewForbidden("ticket belongs to another student")
		}
		if err := r.Comments.Create(ctx, comment); err != nil {
			return err
		}
		return r.Events.Append(ctx, &domain.TicketEvent{
			TicketID:  ticketID,
			Kind:      domain.EventKindComment,
			ActorType: actor.Type,
			ActorID:   &actorID,
			NewValue: map[string]any{
				"comment_id": comment.ID,
				"internal":   internal,
				"body":       preview(body, 120),
			},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCommentAdded,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        eventActor(actor),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorType:  comment.AuthorType,
			Internal:    internal,
			BodyPreview: preview(body, 120),
		},
	})
	return comment, nil
}

// SubmitFeedback records the owning student's one-time rating on a completed
// ticket, ending the completion cycle.
func (s *LifecycleService) SubmitFeedback(ctx context.Context, actor Actor, ticketID string, rating int, text *string) (*domain.Feedback, error) {
	if actor.Type != domain.ActorTypeStudent {
		return nil, apperrors.NewForbidden("only the owning student may submit feedback")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	feedback := &domain.Feedback{
		TicketID:  ticketID,
		StudentID: actor.ID,
		Rating:    rating,
		Text:      text,
	}
	var ticket *domain.Ticket
	err := s.store.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		ticket, err = r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return notFoundIfNoRows(err, "ticket", ticketID)
		}
		if ticket.StudentID != actor.ID {
			return apperrors.NewForbidden("ticket belongs to another student")
		}
		if ticket.Status != domain.StatusCompleted {
			return apperrors.NewInvalidState("feedback requires a completed ticket", map[string]any{"status": string(ticket.Status)})
		}
		if _, err := r.Feedback.GetByTicket(ctx, ticketID); err == nil {
			return apperrors.NewConflict("feedback already submitted", map[string]any{"ticket_id": ticketID})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err := r.Feedback.Create(ctx, feedback); err != nil {
			if repository.IsUniqueViolation(err) {
				return apperrors.NewConflict("feedback already submitted", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketFeedbackSubmitted,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        studentEventActor(actor.ID),
		Payload:      events.TicketFeedbackSubmittedPayload{Rating: rating},
	})
	return feedback, nil
}

// Reopen returns a completed, unrated ticket to PENDING, recording the
// student's reason as a system comment. Feedback and reopen are mutually
// exclusive responses to completion.
func (s *LifecycleService) Reopen(ctx context.Context, actor Actor, ticketID, reason string) (*domain.Ticket, error) {
	if actor.Type != domain.ActorTypeStudent {
		return nil, apperrors.NewForbidden("only the owning student may reopen")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reopen reason required", nil)
	}

	var ticket *domain.Ticket
	err := s.store.WithinTx(ctx, func(r repository.Repos) error {
		var err error
		ticket, err = r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return notFoundIfNoRows(err, "ticket", ticketID)
		}
		if ticket.StudentID != actor.ID {
			return apperrors.NewForbidden("ticket belongs to another student")
		}
		if ticket.Status != domain.StatusCompleted {
			return apperrors.NewInvalidState("only completed tickets can be reopened", map[string]any{"status": string(ticket.Status)})
		}
		if _, err := r.Feedback.GetByTicket(ctx, ticketID); err == nil {
			return apperrors.NewInvalidState("ticket already rated", map[string]any{"ticket_id": ticketID})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		oldStatus := ticket.Status
		ticket.Status = domain.StatusPending
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		if err := r.Comments.Create(ctx, &domain.Comment{
			TicketID:   ticketID,
			AuthorType: domain.ActorTypeSystem,
			Body:       reason,
		}); err != nil {
			return err
		}
		actorID := actor.ID
		return r.Events.Append(ctx, &domain.TicketEvent{
			TicketID:  ticketID,
			Kind:      domain.EventKindStatusChange,
			ActorType: domain.ActorTypeStudent,
			ActorID:   &actorID,
			OldValue:  map[string]any{"status": string(oldStatus)},
			NewValue:  map[string]any{"status": string(domain.StatusPending)},
			Notes:     reason,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketReopened,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        studentEventActor(actor.ID),
		Payload:      events.TicketReopenedPayload{Reason: reason},
	})
	return ticket, nil
}

// ListTickets returns a page of tickets. Page size is clamped to the
// configured maximum rather than cancelled mid-flight.
func (s *LifecycleService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if max := s.cfg.MaxPageSize; max > 0 && limit > max {
		limit = max
	}
	tickets, err := s.store.Repos().Tickets.ListWithFilter(ctx, repository.TicketFilter{
		StudentID:  filter.StudentID,
		CategoryID: filter.CategoryID,
		AssigneeID: filter.AssigneeID,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicketForStudent returns the owner-scoped detail. Internal comments are
// excluded from this read path.
func (s *LifecycleService) GetTicketForStudent(ctx context.Context, studentID, ticketID string) (*TicketDetail, error) {
	detail, err := s.loadDetail(ctx, ticketID, false)
	if err != nil {
		return nil, err
	}
	if detail.Ticket.StudentID != studentID {
		return nil, apperrors.NewForbidden("ticket belongs to another student")
	}
	return detail, nil
}

// GetTicketForStaff returns the full detail including internal comments and
// the superseded assignment history.
func (s *LifecycleService) GetTicketForStaff(ctx context.Context, actor Actor, ticketID string) (*TicketDetail, error) {
	if actor.Type != domain.ActorTypeEmployee {
		return nil, apperrors.NewForbidden("staff required")
	}
	return s.loadDetail(ctx, ticketID, true)
}

// GetTicketByNumber resolves a staff-entered ticket number to the full detail.
func (s *LifecycleService) GetTicketByNumber(ctx context.Context, actor Actor, ticketNumber string) (*TicketDetail, error) {
	if actor.Type != domain.ActorTypeEmployee {
		return nil, apperrors.NewForbidden("staff required")
	}
	ticketNumber = strings.ToUpper(strings.TrimSpace(ticketNumber))
	ticket, err := s.store.Repos().Tickets.GetByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, apperrors.MapError(notFoundIfNoRows(err, "ticket", ticketNumber))
	}
	return s.loadDetail(ctx, ticket.ID, true)
}

func (s *LifecycleService) loadDetail(ctx context.Context, ticketID string, staffView bool) (*TicketDetail, error) {
	repos := s.store.Repos()
	ticket, err := repos.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(notFoundIfNoRows(err, "ticket", ticketID))
	}
	detail := &TicketDetail{Ticket: *ticket}

	if detail.ActiveAssignments, err = repos.Assignments.ListActiveByTicket(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if staffView {
		if detail.AssignmentHistory, err = repos.Assignments.ListByTicket(ctx, ticketID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if detail.Comments, err = repos.Comments.ListByTicket(ctx, ticketID, staffView); err != nil {
		return nil, apperrors.MapError(err)
	}
	feedback, err := repos.Feedback.GetByTicket(ctx, ticketID)
	switch {
	case err == nil:
		detail.Feedback = feedback
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, apperrors.MapError(err)
	}
	if detail.Events, err = repos.Events.ListByTicket(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return detail, nil
}

var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusPending:     {domain.StatusApproaching, domain.StatusResolving, domain.StatusClosed},
	domain.StatusApproaching: {domain.StatusPending, domain.StatusResolving, domain.StatusCompleted},
	domain.StatusResolving:   {domain.StatusApproaching, domain.StatusCompleted},
	domain.StatusCompleted:   {domain.StatusResolving, domain.StatusClosed, domain.StatusPending},
	domain.StatusClosed:      {},
}

func transitionAllowed(current, next domain.Status) bool {
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func generateTicketNumber() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func assigneeIDsOf(assignments []domain.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.EmployeeID)
	}
	return ids
}

func notFoundIfNoRows(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

// preview truncates on rune boundaries so multi-byte text survives intact.
func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func studentEventActor(id string) events.Actor {
	return events.Actor{Type: domain.ActorTypeStudent, StudentID: &id}
}

func employeeEventActor(id string) events.Actor {
	return events.Actor{Type: domain.ActorTypeEmployee, EmployeeID: &id}
}

func eventActor(actor Actor) events.Actor {
	if actor.Type == domain.ActorTypeEmployee {
		return employeeEventActor(actor.ID)
	}
	return studentEventActor(actor.ID)
}
