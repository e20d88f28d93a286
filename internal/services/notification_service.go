package services

import (
	"context"
	"time"

	"policereserves/roster/internal/db/repositories"
	gormModels "policereserves/roster/internal/models/gorm"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewNotificationService(store *repositories.Store) *NotificationService {
	return &NotificationService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListForUser returns the user's own notifications and broadcasts, newest
// first. limit is clamped to [1, 200].
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit int) ([]gormModels.Notification, error) {
	switch {
	case limit <= 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}
	return s.store.Notifications.ListForUser(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.store.Notifications.MarkRead(ctx, id, userID, s.now())
}
