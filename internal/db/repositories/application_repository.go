package repositories

import (
	"context"

	"policereserves/roster/internal/constants"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *gormModels.Application) error {
	return wrap(r.db.WithContext(ctx).Create(app).Error, "create application")
}

// GetByID returns the application with its applicant preloaded
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*gormModels.Application, error) {
	var app gormModels.Application

	err := r.db.WithContext(ctx).
		Preload("User").
		First(&app, id).Error
	if err != nil {
		return nil, wrap(err, "fetch application")
	}

	return &app, nil
}

// List returns applications newest first, optionally filtered by status
func (r *ApplicationRepository) List(ctx context.Context, status *constants.ApplicationStatus) ([]gormModels.Application, error) {
	var apps []gormModels.Application

	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Find(&apps).Error; err != nil {
		return nil, wrap(err, "fetch applications")
	}

	return apps, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status constants.ApplicationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Application{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return wrap(result.Error, "update application status")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
