package dtos

import (
	"time"

	gormModels "policereserves/roster/internal/models/gorm"
)

type APIResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message"`
	ResponseTime string      `json:"response_time"`
	Data         interface{} `json:"data,omitempty"`
}

// SignedURLResponse carries a time-limited download link. Links are minted
// on demand and never stored.
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserPolicy is a policy as seen by one member
type UserPolicy struct {
	Policy      gormModels.Policy `json:"policy"`
	Viewed      bool              `json:"viewed"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// SweepResult reports the outcome of one reminder sweep
type SweepResult struct {
	Kind       string `json:"kind"`
	Sent       int    `json:"sent"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type ReminderRunResponse struct {
	TriggeredAt time.Time     `json:"triggered_at"`
	Results     []SweepResult `json:"results"`
}
