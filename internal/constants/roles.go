package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the Postgres ENUM 'user_role'
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Position mirrors the Postgres ENUM 'user_position'
type Position string

const (
	PositionOfficer    Position = "officer"
	PositionReserve    Position = "reserve"
	PositionAdmin      Position = "admin"
	PositionStaff      Position = "staff"
	PositionCandidate  Position = "candidate"
	PositionDispatcher Position = "dispatcher"
)

// UserStatus mirrors the Postgres ENUM 'user_status'
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusDenied   UserStatus = "denied"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	}
	return false
}

func (p Position) String() string { return string(p) }

func (p Position) IsValid() bool {
	switch p {
	case PositionOfficer, PositionReserve, PositionAdmin, PositionStaff, PositionCandidate, PositionDispatcher:
		return true
	}
	return false
}

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusDenied:
		return true
	}
	return false
}

/* ---------- DB adapters so gorm/sqlx (or database/sql) scans/values cleanly ---------- */

func (r *Role) Scan(src interface{}) error {
	v, err := scanEnum("Role", src)
	*r = Role(v)
	return err
}

func (r Role) Value() (driver.Value, error) { return string(r), nil }

func (p *Position) Scan(src interface{}) error {
	v, err := scanEnum("Position", src)
	*p = Position(v)
	return err
}

func (p Position) Value() (driver.Value, error) { return string(p), nil }

func (s *UserStatus) Scan(src interface{}) error {
	v, err := scanEnum("UserStatus", src)
	*s = UserStatus(v)
	return err
}

func (s UserStatus) Value() (driver.Value, error) { return string(s), nil }

// scanEnum converts the raw driver value of an enum column into a string
func scanEnum(name string, src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: cannot scan type %T", name, src)
	}
}
