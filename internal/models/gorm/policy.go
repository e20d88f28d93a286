package gorm

import (
	"time"

	"gorm.io/datatypes"
)

type Policy struct {
	ID               uint            `gorm:"column:id;primaryKey" json:"id"`
	Number           string          `gorm:"column:number;not null;uniqueIndex" json:"number"`
	Type             string          `gorm:"column:type" json:"type"`
	Name             string          `gorm:"column:name;not null" json:"name"`
	Description      string          `gorm:"column:description" json:"description,omitempty"`
	EffectiveDate    *datatypes.Date `gorm:"column:effective_date;type:date" json:"effective_date,omitempty"`
	StoragePath      string          `gorm:"column:storage_path;not null" json:"storage_path"`
	IsActive         bool            `gorm:"column:is_active;not null" json:"is_active"`
	LastReminderSent *time.Time      `gorm:"column:last_reminder_sent" json:"last_reminder_sent,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Policy) TableName() string {
	return "policies"
}

// PolicyCompletion is a user's acknowledgment that they read a policy
type PolicyCompletion struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	PolicyID    uint      `gorm:"column:policy_id;not null;uniqueIndex:idx_policy_completions_policy_user" json:"policy_id"`
	UserID      uint      `gorm:"column:user_id;not null;uniqueIndex:idx_policy_completions_policy_user;index" json:"user_id"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"completed_at"`

	// Relationships
	Policy *Policy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (PolicyCompletion) TableName() string {
	return "policy_completions"
}

// PolicyView is written every time a signed URL for the policy document is
// issued to a user. Acknowledgment requires at least one.
type PolicyView struct {
	ID       uint      `gorm:"column:id;primaryKey" json:"id"`
	PolicyID uint      `gorm:"column:policy_id;not null;index:idx_policy_views_policy_user" json:"policy_id"`
	UserID   uint      `gorm:"column:user_id;not null;index:idx_policy_views_policy_user" json:"user_id"`
	ViewedAt time.Time `gorm:"column:viewed_at;not null" json:"viewed_at"`

	// Relationships
	Policy *Policy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (PolicyView) TableName() string {
	return "policy_views"
}
