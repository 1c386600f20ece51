package mysql

import (
	"context"
	"database/sql"
	"time"

	"art-auction/internal/domain"
	"art-auction/pkg/utils"
)

// MySQLNotificationRepository is the durable mailbox behind outbid alerts.
// Rows are written best-effort after a bid commits; the presentation layer
// owns delivery and read-state.
type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) Enqueue(ctx context.Context, userID, message, link string) error {
	query := `
        INSERT INTO notifications (id, user_id, message, link, is_read, created_at)
        VALUES (?, ?, ?, ?, FALSE, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		utils.GenerateID("notif"), userID, message, link, time.Now())
	return err
}

func (r *MySQLNotificationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	query := `
        SELECT id, user_id, message, link, is_read, created_at
        FROM notifications
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}
