package gorm

import (
	"policereserves/roster/internal/constants"
	"time"
)

// Notification is a reminder produced by a sweep. A NULL UserID addresses
// every member.
type Notification struct {
	ID        uint                       `gorm:"column:id;primaryKey" json:"id"`
	Kind      constants.NotificationKind `gorm:"column:kind;type:varchar(32);not null;index" json:"kind"`
	SubjectID uint                       `gorm:"column:subject_id;not null" json:"subject_id"`
	UserID    *uint                      `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Message   string                     `gorm:"column:message;not null" json:"message"`
	CreatedAt time.Time                  `gorm:"column:created_at;not null" json:"created_at"`
	ReadAt    *time.Time                 `gorm:"column:read_at" json:"read_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// APIKey authenticates machine callers such as the reminder cron trigger.
// Only the bcrypt hash of the secret half is stored.
type APIKey struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(32)"`
	SecretHash  string    `gorm:"column:secret_hash;not null"`
	Description string    `gorm:"column:description"`
	Status      bool      `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM
func (APIKey) TableName() string {
	return "api_keys"
}
