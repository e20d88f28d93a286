package repositories

import (
	"context"
	"time"

	"policereserves/roster/internal/constants"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(ctx context.Context, training *gormModels.Training) error {
	return wrap(r.db.WithContext(ctx).Create(training).Error, "create training")
}

func (r *TrainingRepository) GetByID(ctx context.Context, id uint) (*gormModels.Training, error) {
	var training gormModels.Training

	if err := r.db.WithContext(ctx).First(&training, id).Error; err != nil {
		return nil, wrap(err, "fetch training")
	}

	return &training, nil
}

// List returns trainings by start time. A non-nil endsAfter keeps only trainings
// that have not finished by then.
func (r *TrainingRepository) List(ctx context.Context, endsAfter *time.Time) ([]gormModels.Training, error) {
	var trainings []gormModels.Training

	query := r.db.WithContext(ctx).Order("start_time ASC, id ASC")
	if endsAfter != nil {
		query = query.Where("end_time >= ?", *endsAfter)
	}

	if err := query.Find(&trainings).Error; err != nil {
		return nil, wrap(err, "fetch trainings")
	}

	return trainings, nil
}

func (r *TrainingRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Training{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update training")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the training; its assignments go with it (ON DELETE CASCADE)
func (r *TrainingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.Training{}, id)

	if result.Error != nil {
		return wrap(result.Error, "delete training")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateAssignment signs a user up. A second sign-up for the same training
// returns ErrConflict.
func (r *TrainingRepository) CreateAssignment(ctx context.Context, a *gormModels.TrainingAssignment) error {
	return wrap(r.db.WithContext(ctx).Create(a).Error, "create training assignment")
}

func (r *TrainingRepository) GetAssignment(ctx context.Context, trainingID, userID uint) (*gormModels.TrainingAssignment, error) {
	var a gormModels.TrainingAssignment

	err := r.db.WithContext(ctx).
		Where("training_id = ? AND user_id = ?", trainingID, userID).
		First(&a).Error
	if err != nil {
		return nil, wrap(err, "fetch training assignment")
	}

	return &a, nil
}

// UpsertCompletion records the outcome for (training, user), creating the
// assignment if the user was never signed up. A nil status resets the
// outcome to pending.
func (r *TrainingRepository) UpsertCompletion(ctx context.Context, trainingID, userID uint, status *constants.CompletionStatus, notes string) error {
	a := gormModels.TrainingAssignment{
		TrainingID:          trainingID,
		UserID:           userID,
		CompletionStatus: status,
		CompletionNotes:  notes,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "training_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completion_status", "completion_notes", "updated_at"}),
		}).
		Create(&a).Error

	return wrap(err, "save training completion")
}

func (r *TrainingRepository) ListAssignmentsForUser(ctx context.Context, userID uint) ([]gormModels.TrainingAssignment, error) {
	var list []gormModels.TrainingAssignment

	err := r.db.WithContext(ctx).
		Preload("Training").
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch training assignments")
	}

	return list, nil
}

func (r *TrainingRepository) ListAttendees(ctx context.Context, trainingID uint) ([]gormModels.TrainingAssignment, error) {
	var list []gormModels.TrainingAssignment

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("training_id = ?", trainingID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch training attendees")
	}

	return list, nil
}

// ListDueForReminder returns trainings starting in [from, to) that have not
// been reminded since remindedBefore
func (r *TrainingRepository) ListDueForReminder(ctx context.Context, from, to, remindedBefore time.Time) ([]gormModels.Training, error) {
	var trainings []gormModels.Training

	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Where("(last_reminder_sent IS NULL OR last_reminder_sent < ?)", remindedBefore).
		Order("start_time ASC, id ASC").
		Find(&trainings).Error
	if err != nil {
		return nil, wrap(err, "fetch trainings due for reminder")
	}

	return trainings, nil
}

func (r *TrainingRepository) MarkReminded(ctx context.Context, id uint, at time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{"last_reminder_sent": at})
}
