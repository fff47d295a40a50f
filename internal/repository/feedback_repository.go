package repository

import (
	"context"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// FeedbackRepository stores the one-per-ticket feedback record.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Feedback, error)
}

type feedbackRepository struct {
	db DBTX
}

// NewFeedbackRepository builds repository.
func NewFeedbackRepository(db DBTX) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO ticket_feedback (ticket_id, student_id, rating, feedback_text)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		feedback.TicketID,
		feedback.StudentID,
		feedback.Rating,
		feedback.Text,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Feedback, error) {
	const query = `
        SELECT id, ticket_id, student_id, rating, feedback_text, created_at
        FROM ticket_feedback WHERE ticket_id=$1`
	var feedback domain.Feedback
	if err := r.db.QueryRow(ctx, query, ticketID).Scan(
		&feedback.ID,
		&feedback.TicketID,
		&feedback.StudentID,
		&feedback.Rating,
		&feedback.Text,
		&feedback.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}
