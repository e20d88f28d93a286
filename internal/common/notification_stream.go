package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gormModels "policereserves/roster/internal/models/gorm"

	"github.com/redis/go-redis/v9"
)

// NotificationPublisher hands committed notifications to the delivery side
type NotificationPublisher interface {
	Publish(ctx context.Context, n *gormModels.Notification) error
}

// NotificationBacklog reports how many published notifications are still
// waiting for the delivery worker
type NotificationBacklog interface {
	Length(ctx context.Context) (int64, error)
}

// NotificationMessage is the stream payload consumed by the delivery worker
type NotificationMessage struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	SubjectID uint      `json:"subject_id"`
	UserID    *uint     `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisNotificationStream publishes notifications to a Redis Stream
type RedisNotificationStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

var (
	_ NotificationPublisher = (*RedisNotificationStream)(nil)
	_ NotificationBacklog   = (*RedisNotificationStream)(nil)
)

// NewRedisNotificationStream creates a publisher that caps the stream at
// roughly maxLen entries
func NewRedisNotificationStream(client *redis.Client, stream string, maxLen int64) *RedisNotificationStream {
	return &RedisNotificationStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Publish adds a notification to the stream
func (s *RedisNotificationStream) Publish(ctx context.Context, n *gormModels.Notification) error {
	data, err := json.Marshal(NotificationMessage{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		SubjectID: n.SubjectID,
		UserID:    n.UserID,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// XADD stream MAXLEN ~ n * data <json>
	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// Length returns the number of entries waiting in the stream
func (s *RedisNotificationStream) Length(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, s.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get stream length: %w", err)
	}
	return length, nil
}
