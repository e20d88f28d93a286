package entities

import "time"

// PolicyCompletionRow is one line of the per-policy acknowledgment report.
// CompletedAt is nil for users who have not acknowledged the policy.
type PolicyCompletionRow struct {
	UserID      uint       `db:"user_id" json:"user_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
