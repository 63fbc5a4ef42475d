package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ascend-app/ascend/internal/domain"
)

// ─── Notification Log ───────────────────────────────────────────────────────
// *DB implements domain.NotificationSink.

// Notify appends a user-facing message to the notification log.
func (d *DB) Notify(ctx context.Context, n domain.Notification) error {
	_, err := d.InsertNotification(ctx, n)
	return err
}

// InsertNotification stores a notification and returns its id.
func (d *DB) InsertNotification(ctx context.Context, n domain.Notification) (int64, error) {
	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, body, created_at, shown) VALUES (?, ?, ?, ?, ?, 0)`,
		n.UserID, string(n.Type), n.Title, n.Body, created.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return res.LastInsertId()
}

// ListPendingNotifications returns unshown notifications for a user, oldest
// first.
func (d *DB) ListPendingNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, body, created_at, shown
		 FROM notifications WHERE user_id = ? AND shown = 0
		 ORDER BY created_at ASC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var created int64
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Body, &created, &n.Shown); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.CreatedAt = time.Unix(created, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown flags a notification as delivered.
func (d *DB) MarkNotificationShown(ctx context.Context, id int64) error {
	_, err := d.db.ExecContext(ctx, `UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
