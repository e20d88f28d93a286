package repositories

import (
	"context"
	"time"

	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Create inserts a policy. A duplicate number returns ErrConflict.
func (r *PolicyRepository) Create(ctx context.Context, policy *gormModels.Policy) error {
	return wrap(r.db.WithContext(ctx).Create(policy).Error, "create policy")
}

func (r *PolicyRepository) GetByID(ctx context.Context, id uint) (*gormModels.Policy, error) {
	var policy gormModels.Policy

	if err := r.db.WithContext(ctx).First(&policy, id).Error; err != nil {
		return nil, wrap(err, "fetch policy")
	}

	return &policy, nil
}

func (r *PolicyRepository) List(ctx context.Context, activeOnly bool) ([]gormModels.Policy, error) {
	var policies []gormModels.Policy

	query := r.db.WithContext(ctx).Order("number ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&policies).Error; err != nil {
		return nil, wrap(err, "fetch policies")
	}

	return policies, nil
}

func (r *PolicyRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Policy{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update policy")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PolicyRepository) RecordView(ctx context.Context, policyID, userID uint, at time.Time) error {
	view := gormModels.PolicyView{PolicyID: policyID, UserID: userID, ViewedAt: at}
	return wrap(r.db.WithContext(ctx).Create(&view).Error, "record policy view")
}

func (r *PolicyRepository) HasViewed(ctx context.Context, policyID, userID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.PolicyView{}).
		Where("policy_id = ? AND user_id = ?", policyID, userID).
		Count(&count).Error
	if err != nil {
		return false, wrap(err, "check policy view")
	}

	return count > 0, nil
}

// ViewedPolicyIDs returns the set of policies the user has opened
func (r *PolicyRepository) ViewedPolicyIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint

	err := r.db.WithContext(ctx).
		Model(&gormModels.PolicyView{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("policy_id", &ids).Error
	if err != nil {
		return nil, wrap(err, "fetch policy views")
	}

	viewed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		viewed[id] = true
	}
	return viewed, nil
}

// CreateCompletion records an acknowledgment. Acknowledging twice keeps the
// first timestamp.
func (r *PolicyRepository) CreateCompletion(ctx context.Context, policyID, userID uint, at time.Time) error {
	c := gormModels.PolicyCompletion{PolicyID: policyID, UserID: userID, CompletedAt: at}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "policy_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&c).Error

	return wrap(err, "create policy completion")
}

func (r *PolicyRepository) ListCompletionsForUser(ctx context.Context, userID uint) ([]gormModels.PolicyCompletion, error) {
	var list []gormModels.PolicyCompletion

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch policy completions")
	}

	return list, nil
}

// DeleteCompletions removes one user's acknowledgment, or every
// acknowledgment of the policy when userID is nil
func (r *PolicyRepository) DeleteCompletions(ctx context.Context, policyID uint, userID *uint) (int64, error) {
	query := r.db.WithContext(ctx).Where("policy_id = ?", policyID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	result := query.Delete(&gormModels.PolicyCompletion{})
	if result.Error != nil {
		return 0, wrap(result.Error, "delete policy completions")
	}

	return result.RowsAffected, nil
}

// DeleteViews mirrors DeleteCompletions for view records
func (r *PolicyRepository) DeleteViews(ctx context.Context, policyID uint, userID *uint) error {
	query := r.db.WithContext(ctx).Where("policy_id = ?", policyID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	return wrap(query.Delete(&gormModels.PolicyView{}).Error, "delete policy views")
}

// ListDueForReminder returns active policies never reminded or last
// reminded before the cutoff
func (r *PolicyRepository) ListDueForReminder(ctx context.Context, remindedBefore time.Time) ([]gormModels.Policy, error) {
	var policies []gormModels.Policy

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(last_reminder_sent IS NULL OR last_reminder_sent < ?)", remindedBefore).
		Order("number ASC").
		Find(&policies).Error
	if err != nil {
		return nil, wrap(err, "fetch policies due for reminder")
	}

	return policies, nil
}

func (r *PolicyRepository) MarkReminded(ctx context.Context, id uint, at time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{"last_reminder_sent": at})
}
