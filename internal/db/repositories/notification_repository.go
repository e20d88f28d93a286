package repositories

import (
	"context"
	"time"

	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *gormModels.Notification) error {
	return wrap(r.db.WithContext(ctx).Create(n).Error, "create notification")
}

// ListForUser returns notifications addressed to the user plus broadcasts,
// newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]gormModels.Notification, error) {
	var list []gormModels.Notification

	err := r.db.WithContext(ctx).
		Where("(user_id = ? OR user_id IS NULL)", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch notifications")
	}

	return list, nil
}

// MarkRead stamps a notification addressed to the user. Broadcasts are
// shared and are never marked.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", at)

	if result.Error != nil {
		return wrap(result.Error, "mark notification read")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
