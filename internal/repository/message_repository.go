package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/persistence"
)

// MessageRepository manages the append-only message log of a thread.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	ListByThread(ctx context.Context, threadID string) ([]domain.Message, error)
	// MarkReadFrom flips the read flag on every unread message in the thread
	// authored by authorRole, stamping read_at once. Returns the number of
	// messages updated.
	MarkReadFrom(ctx context.Context, threadID string, authorRole domain.Role, at time.Time) (int, error)
	UnreadCountFrom(ctx context.Context, threadID string, authorRole domain.Role) (int, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds the Postgres-backed repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Append(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO feedback_messages (thread_id, sender_id, sender_role, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, seq, created_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		msg.ThreadID,
		msg.SenderID,
		msg.SenderRole,
		msg.Body,
	).Scan(&msg.ID, &msg.Seq, &msg.CreatedAt)
}

func (r *messageRepository) ListByThread(ctx context.Context, threadID string) ([]domain.Message, error) {
	// seq breaks creation-time ties so concurrent appends sort deterministically.
	const query = `
        SELECT id, thread_id, sender_id, sender_role, body, is_read, read_at, seq, created_at
        FROM feedback_messages WHERE thread_id=$1 ORDER BY created_at ASC, seq ASC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ThreadID,
			&msg.SenderID,
			&msg.SenderRole,
			&msg.Body,
			&msg.Read,
			&msg.ReadAt,
			&msg.Seq,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) MarkReadFrom(ctx context.Context, threadID string, authorRole domain.Role, at time.Time) (int, error) {
	// The is_read=FALSE guard keeps read_at stamped exactly once.
	const query = `
        UPDATE feedback_messages SET is_read=TRUE, read_at=$1
        WHERE thread_id=$2 AND sender_role=$3 AND is_read=FALSE`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query, at, threadID, authorRole)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *messageRepository) UnreadCountFrom(ctx context.Context, threadID string, authorRole domain.Role) (int, error) {
	const query = `
        SELECT COUNT(*) FROM feedback_messages
        WHERE thread_id=$1 AND sender_role=$2 AND is_read=FALSE`
	var count int
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, threadID, authorRole).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
