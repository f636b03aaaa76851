package repository

import (
	"context"
	"fmt"

	"arenabot/database"
	"arenabot/models"
)

// OutboxRepository implements the service.OutboxRepository interface
type OutboxRepository struct {
	q queryable
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *database.DB) *OutboxRepository {
	return &OutboxRepository{q: db.Pool}
}

// newOutboxRepositoryWithTx creates a new outbox repository with a transaction
func newOutboxRepositoryWithTx(tx queryable) *OutboxRepository {
	return &OutboxRepository{q: tx}
}

// Enqueue stores a pending external message. Called inside business
// transactions so the message commits or rolls back with the change it
// describes.
func (r *OutboxRepository) Enqueue(ctx context.Context, msg *models.OutboxMessage) error {
	query := `
		INSERT INTO outbox (kind, payload)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, msg.Kind, msg.Payload).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox message: %w", err)
	}
	return nil
}

// Pending returns unsent messages below the attempt limit, oldest first
func (r *OutboxRepository) Pending(ctx context.Context, maxAttempts, limit int) ([]*models.OutboxMessage, error) {
	query := `
		SELECT id, kind, payload, attempts, last_error, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL AND attempts < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.OutboxMessage
	for rows.Next() {
		var m models.OutboxMessage
		err := rows.Scan(&m.ID, &m.Kind, &m.Payload, &m.Attempts,
			&m.LastError, &m.CreatedAt, &m.SentAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		msgs = append(msgs, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox messages: %w", err)
	}
	return msgs, nil
}

// MarkSent records a successful delivery
func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `UPDATE outbox SET sent_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox message %d sent: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox message %d not found", id)
	}
	return nil
}

// MarkFailed records a failed delivery attempt for later retry
func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, deliveryErr string) error {
	query := `UPDATE outbox SET attempts = attempts + 1, last_error = $1 WHERE id = $2`

	result, err := r.q.Exec(ctx, query, deliveryErr, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox message %d failed: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox message %d not found", id)
	}
	return nil
}
