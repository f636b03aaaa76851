package repository

import (
	"context"
	"fmt"
	"time"

	"arenabot/database"
	"arenabot/models"
)

// NotificationRepository implements the service.NotificationRepository interface
type NotificationRepository struct {
	q queryable
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{q: db.Pool}
}

// newNotificationRepositoryWithTx creates a new notification repository with a transaction
func newNotificationRepositoryWithTx(tx queryable) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

// Create inserts a broadcast notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (title, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, n.Title, n.Message).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListSince returns notifications newer than the given time, newest first.
// The read marker is held client-side, so "since" is whatever the client
// last saw.
func (r *NotificationRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, title, message, created_at
		FROM notifications
		WHERE created_at > $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}
