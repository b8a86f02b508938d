package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, client_id, channel, recipient, subject,
			content, status, retry_count, last_error, sent_at, created_at, updated_at)
		VALUES (:id, :client_id, :channel, :recipient, :subject,
			:content, :status, :retry_count, :last_error, :sent_at, :created_at, :updated_at)
	`
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `
		SELECT id, client_id, channel, recipient, subject, content, status,
			retry_count, last_error, sent_at, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`
	var n model.Notification
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		return nil, wrapGetErr(err, "notification")
	}
	return &n, nil
}

func (r *notificationRepository) Update(ctx context.Context, n *model.Notification) error {
	query := `
		UPDATE notifications
		SET status = :status, retry_count = :retry_count, last_error = :last_error,
			sent_at = :sent_at, updated_at = :updated_at
		WHERE id = :id
	`
	n.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, n)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (r *notificationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Notification, error) {
	query := `
		SELECT id, client_id, channel, recipient, subject, content, status,
			retry_count, last_error, sent_at, created_at, updated_at
		FROM notifications
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
