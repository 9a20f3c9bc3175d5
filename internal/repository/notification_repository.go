package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Eco-nexion/econexion/internal/models"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n models.Notification) error {
	const query = `
		INSERT INTO notifications (
			id, user_id, title, message, kind, related_id, read, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, FALSE, NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Kind,
		n.RelatedID,
	)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const query = `
		SELECT id, user_id, title, message, kind, related_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Kind,
			&n.RelatedID,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, id, userID)
	return err
}

// DeleteOlderThan prunes read notifications during worker cleanup runs.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	const query = `
		DELETE FROM notifications
		WHERE read = TRUE AND created_at < NOW() - ($1 || ' days')::interval
	`
	cmd, err := r.pool.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
