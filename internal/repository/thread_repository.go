package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/persistence"
)

// ThreadFilter captures thread listing parameters. A nil field means "any".
type ThreadFilter struct {
	ClientID   *string
	Statuses   []domain.ThreadStatus
	Categories []domain.ThreadCategory
	Priorities []domain.ThreadPriority
	Search     *string
	Limit      int
	Offset     int
}

// ThreadRepository encapsulates feedback thread persistence.
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.Thread) error
	GetByThreadID(ctx context.Context, threadID string) (*domain.Thread, error)
	UpdateStatus(ctx context.Context, threadID string, status domain.ThreadStatus) error
	Touch(ctx context.Context, threadID string) error
	ListWithFilter(ctx context.Context, filter ThreadFilter) ([]domain.Thread, error)
}

type threadRepository struct {
	pool *pgxpool.Pool
}

// NewThreadRepository instantiates the Postgres-backed repository.
func NewThreadRepository(pool *pgxpool.Pool) ThreadRepository {
	return &threadRepository{pool: pool}
}

func (r *threadRepository) Create(ctx context.Context, thread *domain.Thread) error {
	const query = `
        INSERT INTO feedback_threads (thread_id, client_id, subject, category, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		thread.ThreadID,
		thread.ClientID,
		thread.Subject,
		thread.Category,
		thread.Priority,
		thread.Status,
	).Scan(&thread.ID, &thread.CreatedAt, &thread.UpdatedAt)
}

func (r *threadRepository) GetByThreadID(ctx context.Context, threadID string) (*domain.Thread, error) {
	const query = `
        SELECT id, thread_id, client_id, subject, category, priority, status, created_at, updated_at
        FROM feedback_threads WHERE thread_id=$1`
	var thread domain.Thread
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, threadID).Scan(
		&thread.ID,
		&thread.ThreadID,
		&thread.ClientID,
		&thread.Subject,
		&thread.Category,
		&thread.Priority,
		&thread.Status,
		&thread.CreatedAt,
		&thread.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) UpdateStatus(ctx context.Context, threadID string, status domain.ThreadStatus) error {
	const query = `
        UPDATE feedback_threads SET status=$1, updated_at=NOW() WHERE thread_id=$2`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query, status, threadID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Touch bumps updated_at so that replying reorders the thread in listings.
func (r *threadRepository) Touch(ctx context.Context, threadID string) error {
	const query = `UPDATE feedback_threads SET updated_at=NOW() WHERE thread_id=$1`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query, threadID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *threadRepository) ListWithFilter(ctx context.Context, filter ThreadFilter) ([]domain.Thread, error) {
	base := `SELECT id, thread_id, client_id, subject, category, priority, status, created_at, updated_at
             FROM feedback_threads`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(subject) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanThreads(rows)
}

func scanThreads(rows pgx.Rows) ([]domain.Thread, error) {
	var result []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		if err := rows.Scan(
			&thread.ID,
			&thread.ThreadID,
			&thread.ClientID,
			&thread.Subject,
			&thread.Category,
			&thread.Priority,
			&thread.Status,
			&thread.CreatedAt,
			&thread.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, thread)
	}
	return result, rows.Err()
}
