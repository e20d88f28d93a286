package repositories

import (
	"context"
	"fmt"

	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the read-only reporting queries that are clearer as
// hand-written SQL than as gorm chains
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// PolicyCompletions lists every active admin or member with the time they
// acknowledged the policy, nil if they have not
func (r *ReportRepository) PolicyCompletions(ctx context.Context, policyID uint) ([]entities.PolicyCompletionRow, error) {
	rows := []entities.PolicyCompletionRow{}

	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.PolicyCompletionReport), policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch policy completion report: %w", err)
	}

	return rows, nil
}

func (r *ReportRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
