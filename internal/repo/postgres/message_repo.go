package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhan-app/matrimony/internal/domain/model"
)

type MessageRepo struct {
	db Querier
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	if pool == nil {
		return &MessageRepo{}
	}
	return &MessageRepo{db: pool}
}

func (r *MessageRepo) InTx(tx pgx.Tx) *MessageRepo {
	return &MessageRepo{db: tx}
}

func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID int64, content string) (model.Message, error) {
	if r.db == nil {
		return model.Message{}, fmt.Errorf("postgres pool is nil")
	}

	var msg model.Message
	err := r.db.QueryRow(ctx, `
INSERT INTO messages (sender_id, receiver_id, content, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, sender_id, receiver_id, content, created_at
`, senderID, receiverID, content).Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == foreignKeyViolation {
			return model.Message{}, ErrUserNotFound
		}
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

// ListBetween returns the thread in chronological order. Without a cursor it
// holds the newest limit messages; afterID > 0 pages forward through messages
// newer than that id, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, userID, counterpartID, afterID int64, limit int) ([]model.Message, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `
SELECT id, sender_id, receiver_id, content, created_at
FROM (
	SELECT id, sender_id, receiver_id, content, created_at
	FROM messages
	WHERE LEAST(sender_id, receiver_id) = LEAST($1::bigint, $2::bigint)
		AND GREATEST(sender_id, receiver_id) = GREATEST($1::bigint, $2::bigint)
		AND id > $3
	ORDER BY created_at DESC, id DESC
	LIMIT $4
) newest
ORDER BY created_at ASC, id ASC
`
	if afterID > 0 {
		query = `
SELECT id, sender_id, receiver_id, content, created_at
FROM messages
WHERE LEAST(sender_id, receiver_id) = LEAST($1::bigint, $2::bigint)
	AND GREATEST(sender_id, receiver_id) = GREATEST($1::bigint, $2::bigint)
	AND id > $3
ORDER BY created_at ASC, id ASC
LIMIT $4
`
	}

	rows, err := r.db.Query(ctx, query, userID, counterpartID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// ListConversations resolves every counterpart userID exchanged messages with
// to a profile, most recent exchange first.
func (r *MessageRepo) ListConversations(ctx context.Context, userID int64) ([]model.Profile, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.db.Query(ctx, `
WITH peers AS (
	SELECT
		CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS peer_id,
		MAX(created_at) AS last_at,
		MAX(id) AS last_id
	FROM messages
	WHERE sender_id = $1 OR receiver_id = $1
	GROUP BY 1
)
SELECT `+profileColumns+`
FROM peers
JOIN profiles p ON p.user_id = peers.peer_id
ORDER BY peers.last_at DESC, peers.last_id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	return collectProfiles(rows)
}
