package repository

import (
	"context"
	"errors"
	"fmt"

	"quickchat/internal/domain/message"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO messages (id, sender_id, receiver_id, text, image_url, seen, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, m.ID, m.SenderID, m.ReceiverID, m.Text, m.ImageURL, m.Seen, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return quickchat_errors.ErrNotFound
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *PostgresMessageRepository) GetConversation(ctx context.Context, userA, userB uuid.UUID) ([]message.Message, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, sender_id, receiver_id, text, image_url, seen, created_at
        FROM messages
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY created_at
    `, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("select conversation: %w", err)
	}
	defer rows.Close()

	var messages []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.ImageURL, &m.Seen, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkSeen is idempotent: already-seen rows match nothing and the
// update is a no-op.
func (r *PostgresMessageRepository) MarkSeen(ctx context.Context, senderID, receiverID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
        UPDATE messages
        SET seen = TRUE
        WHERE sender_id = $1 AND receiver_id = $2 AND seen = FALSE
    `, senderID, receiverID)
	if err != nil {
		return 0, fmt.Errorf("mark messages seen: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMessageRepository) UnreadCounts(ctx context.Context, receiverID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT sender_id, COUNT(*)
        FROM messages
        WHERE receiver_id = $1 AND seen = FALSE
        GROUP BY sender_id
    `, receiverID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var senderID uuid.UUID
		var count int
		if err := rows.Scan(&senderID, &count); err != nil {
			return nil, fmt.Errorf("scan unread count: %w", err)
		}
		counts[senderID] = count
	}
	return counts, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
