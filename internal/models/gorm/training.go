package gorm

import (
	"policereserves/roster/internal/constants"
	"time"

	"gorm.io/datatypes"
)

type Training struct {
	ID               uint                   `gorm:"column:id;primaryKey" json:"id"`
	Name             string                 `gorm:"column:name;not null" json:"name"`
	Description      string                 `gorm:"column:description" json:"description,omitempty"`
	Location         string                 `gorm:"column:location" json:"location"`
	Instructor       *string                `gorm:"column:instructor" json:"instructor,omitempty"`
	Type             constants.TrainingType `gorm:"column:type;type:training_type;not null" json:"type"`
	Date             datatypes.Date         `gorm:"column:date;type:date;not null" json:"date"`
	StartTime        time.Time              `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime          time.Time              `gorm:"column:end_time;not null" json:"end_time"`
	LastReminderSent *time.Time             `gorm:"column:last_reminder_sent" json:"last_reminder_sent,omitempty"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Training) TableName() string {
	return "trainings"
}

type TrainingAssignment struct {
	ID               uint                        `gorm:"column:id;primaryKey" json:"id"`
	TrainingID       uint                        `gorm:"column:training_id;not null;uniqueIndex:idx_training_assignments_training_user" json:"training_id"`
	UserID           uint                        `gorm:"column:user_id;not null;uniqueIndex:idx_training_assignments_training_user;index" json:"user_id"`
	CompletionStatus *constants.CompletionStatus `gorm:"column:completion_status;type:completion_status" json:"completion_status,omitempty"`
	CompletionNotes  string                      `gorm:"column:completion_notes" json:"completion_notes,omitempty"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Training *Training `gorm:"foreignKey:TrainingID;constraint:OnDelete:CASCADE" json:"training,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (TrainingAssignment) TableName() string {
	return "training_assignments"
}
