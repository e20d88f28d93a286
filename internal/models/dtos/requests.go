package dtos

import "time"

type UpdateProfileReq struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Street      *string `json:"street"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postal_code"`
	Callsign    *string `json:"callsign"`
	RadioNumber *string `json:"radio_number"`
}

type UpdateRoleReq struct {
	Role     string  `json:"role"`
	Position *string `json:"position"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

// ApplicationReq is validated against the application JSON schema before it
// is decoded into this struct.
type ApplicationReq struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Street            string  `json:"street"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	PostalCode        string  `json:"postal_code"`
	DateOfBirth       *string `json:"date_of_birth"`
	PreferredPosition *string `json:"preferred_position"`
	Experience        string  `json:"experience"`
}

type EquipmentReq struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SerialNumber *string `json:"serial_number"`
	PurchaseDate *string `json:"purchase_date"`
}

type EquipmentUpdateReq struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serial_number"`
	PurchaseDate *string `json:"purchase_date"`
}

type AssignEquipmentReq struct {
	UserID             uint       `json:"user_id"`
	EquipmentID        uint       `json:"equipment_id"`
	Condition          string     `json:"condition"`
	CheckedOutAt       *time.Time `json:"checked_out_at"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Notes              *string    `json:"notes"`
}

type ReturnEquipmentReq struct {
	Condition string  `json:"condition"`
	Notes     *string `json:"notes"`
}

// SessionReq creates an event or a training. Instructor is ignored for events.
type SessionReq struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Instructor  *string   `json:"instructor"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type SessionUpdateReq struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Type        *string    `json:"type"`
	Instructor  *string    `json:"instructor"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

type AssignUserReq struct {
	UserID uint `json:"user_id"`
}

type CompletionStatusReq struct {
	UserID uint   `json:"user_id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type PolicyActiveReq struct {
	IsActive bool `json:"is_active"`
}

type ResetCompletionReq struct {
	UserID *uint `json:"user_id"`
}
