package repository

import (
	"context"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

type PGNotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

func (r *PGNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.QueryRow(ctx, `INSERT INTO notifications (user_id, title, message, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		notification.UserID, notification.Title, notification.Message, notification.Type, notification.Status).
		Scan(&notification.ID, &notification.CreatedAt)
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
