package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
)

// ChatRepository implements the service.ChatRepository interface
type ChatRepository struct {
	q queryable
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *database.DB) *ChatRepository {
	return &ChatRepository{q: db.Pool}
}

// newChatRepositoryWithTx creates a new chat repository with a transaction
func newChatRepositoryWithTx(tx queryable) *ChatRepository {
	return &ChatRepository{q: tx}
}

// Append stores a new message in a conversation
func (r *ChatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (pair_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, msg.PairID, msg.SenderID, msg.Text).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append chat message to %s: %w", msg.PairID, err)
	}
	return nil
}

// ListVisible returns a conversation's messages ascending by time,
// excluding messages the viewer soft-deleted.
func (r *ChatRepository) ListVisible(ctx context.Context, pairID, viewerUID string) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, pair_id, sender_id, text, deleted_for, created_at
		FROM chat_messages
		WHERE pair_id = $1 AND NOT ($2 = ANY(deleted_for))
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, pairID, viewerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages for %s: %w", pairID, err)
	}
	defer rows.Close()

	var msgs []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		err := rows.Scan(&m.ID, &m.PairID, &m.SenderID, &m.Text, &m.DeletedFor, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}
	return msgs, nil
}

// MarkDeletedFor hides one message from one user. The row itself is kept so
// the other participant still sees it.
func (r *ChatRepository) MarkDeletedFor(ctx context.Context, pairID string, msgID int64, uid string) error {
	query := `
		UPDATE chat_messages
		SET deleted_for = array_append(deleted_for, $1)
		WHERE pair_id = $2 AND id = $3 AND NOT ($1 = ANY(deleted_for))
	`

	if _, err := r.q.Exec(ctx, query, uid, pairID, msgID); err != nil {
		return fmt.Errorf("failed to delete chat message %d for %s: %w", msgID, uid, err)
	}
	return nil
}
