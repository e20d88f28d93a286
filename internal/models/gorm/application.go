package gorm

import (
	"policereserves/roster/internal/constants"
	"time"

	"gorm.io/datatypes"
)

// Application is a snapshot of what the applicant submitted. Contact fields
// are copied, not joined, so later profile edits do not rewrite history.
type Application struct {
	ID                uint                        `gorm:"column:id;primaryKey" json:"id"`
	UserID            uint                        `gorm:"column:user_id;not null;index" json:"user_id"`
	FirstName         string                      `gorm:"column:first_name;not null" json:"first_name"`
	LastName          string                      `gorm:"column:last_name;not null" json:"last_name"`
	Email             string                      `gorm:"column:email;not null" json:"email"`
	Phone             string                      `gorm:"column:phone" json:"phone"`
	Street            string                      `gorm:"column:street" json:"street"`
	City              string                      `gorm:"column:city" json:"city"`
	State             string                      `gorm:"column:state" json:"state"`
	PostalCode        string                      `gorm:"column:postal_code" json:"postal_code"`
	DateOfBirth       *datatypes.Date             `gorm:"column:date_of_birth;type:date" json:"date_of_birth,omitempty"`
	PreferredPosition *constants.Position         `gorm:"column:preferred_position;type:user_position" json:"preferred_position,omitempty"`
	Experience        string                      `gorm:"column:experience" json:"experience"`
	Status            constants.ApplicationStatus `gorm:"column:status;type:application_status;not null;index" json:"status"`
	ResumePath        *string                     `gorm:"column:resume_path" json:"resume_path,omitempty"`
	CreatedAt         time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Application) TableName() string {
	return "applications"
}
