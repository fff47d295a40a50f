package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repository
// code serves plain reads and transactional writes.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repos bundles every repository over one DBTX.
type Repos struct {
	Tickets     TicketRepository
	Assignments AssignmentRepository
	Comments    CommentRepository
	Feedback    FeedbackRepository
	Events      TicketEventRepository
	Employees   EmployeeRepository
	Categories  CategoryRepository
}

// NewRepos builds the repository bundle for db.
func NewRepos(db DBTX) Repos {
	return Repos{
		Tickets:     NewTicketRepository(db),
		Assignments: NewAssignmentRepository(db),
		Comments:    NewCommentRepository(db),
		Feedback:    NewFeedbackRepository(db),
		Events:      NewTicketEventRepository(db),
		Employees:   NewEmployeeRepository(db),
		Categories:  NewCategoryRepository(db),
	}
}

// Store exposes the repositories plus the transactional boundary. Every
// lifecycle mutation runs inside WithinTx so the current-state write and the
// event append commit or roll back together.
type Store interface {
	Repos() Repos
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

type pgStore struct {
	pool  *pgxpool.Pool
	repos Repos
}

// NewStore wraps a pgx pool as a Store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool, repos: NewRepos(pool)}
}

func (s *pgStore) Repos() Repos {
	return s.repos
}

func (s *pgStore) WithinTx(ctx context.Context, fn func(Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
