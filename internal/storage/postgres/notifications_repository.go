package postgres

import (
	"context"
	"fmt"

	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ notifications.Repository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *NotificationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const notificationColumns = `id, user_id, message, type, link, read, created_at`

func scanNotification(row pgx.Row) (*notifications.Notification, error) {
	var notification notifications.Notification
	if err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Message,
		&notification.Type,
		&notification.Link,
		&notification.Read,
		&notification.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) collectNotifications(ctx context.Context, sql string, args ...any) ([]notifications.Notification, error) {
	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	items := make([]notifications.Notification, 0)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, *notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

func (r *NotificationRepository) Create(ctx context.Context, params notifications.CreateParams) (*notifications.Notification, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO notifications (user_id, message, type, link)
VALUES ($1, $2, $3, $4)
RETURNING `+notificationColumns,
		params.UserID,
		params.Message,
		params.Type,
		params.Link,
	)
	notification, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return notification, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*notifications.Notification, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+notificationColumns+` FROM notifications WHERE id = $1
`, id)
	notification, err := scanNotification(row)
	if err == pgx.ErrNoRows {
		return nil, notifications.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return notification, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]notifications.Notification, error) {
	return r.collectNotifications(ctx, `
SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC
`, userID)
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID int64) ([]notifications.Notification, error) {
	return r.collectNotifications(ctx, `
SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 AND read = FALSE ORDER BY created_at DESC, id DESC
`, userID)
}

func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx, `
SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE notifications SET read = TRUE WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.queryer().Exec(ctx, `
UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE
`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
