package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// TicketEventRepository is the append-only event log. Entries are never
// updated or deleted.
type TicketEventRepository interface {
	Append(ctx context.Context, event *domain.TicketEvent) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error)
	ListRecentByActor(ctx context.Context, actorID string, limit int) ([]domain.TicketEvent, error)
}

type ticketEventRepository struct {
	db DBTX
}

// NewTicketEventRepository builds repository.
func NewTicketEventRepository(db DBTX) TicketEventRepository {
	return &ticketEventRepository{db: db}
}

func (r *ticketEventRepository) Append(ctx context.Context, event *domain.TicketEvent) error {
	const query = `
        INSERT INTO ticket_events (ticket_id, kind, actor_type, actor_id, old_value, new_value, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, seq, created_at`
	return r.db.QueryRow(ctx, query,
		event.TicketID,
		event.Kind,
		event.ActorType,
		event.ActorID,
		event.OldValue,
		event.NewValue,
		event.Notes,
	).Scan(&event.ID, &event.Seq, &event.CreatedAt)
}

func (r *ticketEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEvent, error) {
	const query = `
        SELECT id, seq, ticket_id, kind, actor_type, actor_id, old_value, new_value, notes, created_at
        FROM ticket_events WHERE ticket_id=$1 ORDER BY created_at ASC, seq ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *ticketEventRepository) ListRecentByActor(ctx context.Context, actorID string, limit int) ([]domain.TicketEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, seq, ticket_id, kind, actor_type, actor_id, old_value, new_value, notes, created_at
        FROM ticket_events WHERE actor_id=$1 ORDER BY created_at DESC, seq DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, actorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.TicketEvent, error) {
	var result []domain.TicketEvent
	for rows.Next() {
		var event domain.TicketEvent
		if err := rows.Scan(
			&event.ID,
			&event.Seq,
			&event.TicketID,
			&event.Kind,
			&event.ActorType,
			&event.ActorID,
			&event.OldValue,
			&event.NewValue,
			&event.Notes,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
