package gorm

import (
	"policereserves/roster/internal/constants"
	"time"
)

// User is the local record for an identity-provider account
type User struct {
	ID          uint                 `gorm:"column:id;primaryKey" json:"id"`
	ExternalID  string               `gorm:"column:external_id;uniqueIndex;not null" json:"-"`
	Email       string               `gorm:"column:email;index" json:"email"`
	FirstName   string               `gorm:"column:first_name" json:"first_name"`
	LastName    string               `gorm:"column:last_name" json:"last_name"`
	Role        constants.Role       `gorm:"column:role;type:user_role;not null" json:"role"`
	Position    *constants.Position  `gorm:"column:position;type:user_position" json:"position,omitempty"`
	Status      constants.UserStatus `gorm:"column:status;type:user_status;not null" json:"status"`
	Phone       string               `gorm:"column:phone" json:"phone,omitempty"`
	Street      string               `gorm:"column:street" json:"street,omitempty"`
	City        string               `gorm:"column:city" json:"city,omitempty"`
	State       string               `gorm:"column:state" json:"state,omitempty"`
	PostalCode  string               `gorm:"column:postal_code" json:"postal_code,omitempty"`
	Callsign    *string              `gorm:"column:callsign" json:"callsign,omitempty"`
	RadioNumber *string              `gorm:"column:radio_number" json:"radio_number,omitempty"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for display
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
