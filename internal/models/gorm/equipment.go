package gorm

import (
	"policereserves/roster/internal/constants"
	"time"

	"gorm.io/datatypes"
)

type Equipment struct {
	ID           uint            `gorm:"column:id;primaryKey" json:"id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	Description  string          `gorm:"column:description" json:"description,omitempty"`
	SerialNumber *string         `gorm:"column:serial_number" json:"serial_number,omitempty"`
	PurchaseDate *datatypes.Date `gorm:"column:purchase_date;type:date" json:"purchase_date,omitempty"`
	IsAssigned   bool            `gorm:"column:is_assigned;not null" json:"is_assigned"`
	IsObsolete   bool            `gorm:"column:is_obsolete;not null;index" json:"is_obsolete"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Equipment) TableName() string {
	return "equipment"
}

// AssignedEquipment is one checkout of an equipment item. A NULL
// CheckedInAt means the item is still out.
type AssignedEquipment struct {
	ID                 uint                         `gorm:"column:id;primaryKey" json:"id"`
	UserID             uint                         `gorm:"column:user_id;not null;index" json:"user_id"`
	EquipmentID        uint                         `gorm:"column:equipment_id;not null;index" json:"equipment_id"`
	CheckedOutAt       time.Time                    `gorm:"column:checked_out_at;not null" json:"checked_out_at"`
	CheckedInAt        *time.Time                   `gorm:"column:checked_in_at" json:"checked_in_at,omitempty"`
	ExpectedReturnDate *time.Time                   `gorm:"column:expected_return_date" json:"expected_return_date,omitempty"`
	Condition          constants.EquipmentCondition `gorm:"column:condition;type:equipment_condition;not null" json:"condition"`
	Notes              *string                      `gorm:"column:notes" json:"notes,omitempty"`
	LastReminderSent   *time.Time                   `gorm:"column:last_reminder_sent" json:"last_reminder_sent,omitempty"`
	CreatedAt          time.Time                    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Equipment *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
}

// TableName specifies the table name for GORM
func (AssignedEquipment) TableName() string {
	return "assigned_equipment"
}

// IsActive reports whether the item has not been checked back in
func (a AssignedEquipment) IsActive() bool {
	return a.CheckedInAt == nil
}
