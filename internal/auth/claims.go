package auth

import (
	"policereserves/roster/internal/constants"
	gormModels "policereserves/roster/internal/models/gorm"
)

// Common interface for whoever is calling: a signed-in person or a machine
// holding an API key.
type UserClaims interface {
	UserID() uint
	Role() string
	Source() string
	MFAVerified() bool
}

// IdentityClaims describe a person authenticated by the identity provider
// and resolved to a local user
type IdentityClaims struct {
	UserIDValue uint                 `json:"user_id"`
	ExternalID  string               `json:"external_id"`
	RoleValue   constants.Role       `json:"role"`
	Status      constants.UserStatus `json:"status"`
	MFA         bool                 `json:"mfa"`
}

func (c *IdentityClaims) UserID() uint      { return c.UserIDValue }
func (c *IdentityClaims) Role() string      { return c.RoleValue.String() }
func (c *IdentityClaims) Source() string    { return "JWT" }
func (c *IdentityClaims) MFAVerified() bool { return c.MFA }

// NewIdentityClaims builds claims from the local user record
func NewIdentityClaims(user *gormModels.User, mfa bool) *IdentityClaims {
	return &IdentityClaims{
		UserIDValue: user.ID,
		ExternalID:  user.ExternalID,
		RoleValue:   user.Role,
		Status:      user.Status,
		MFA:         mfa,
	}
}

// APIKeyClaims identify a machine caller such as the reminder cron trigger
type APIKeyClaims struct {
	KeyID string
}

func (c *APIKeyClaims) UserID() uint      { return 0 }
func (c *APIKeyClaims) Role() string      { return "" }
func (c *APIKeyClaims) Source() string    { return "API_KEY" }
func (c *APIKeyClaims) MFAVerified() bool { return false }
