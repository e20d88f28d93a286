package repositories

import (
	"context"

	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	return wrap(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, wrap(err, "fetch user")
	}

	return &user, nil
}

// GetByExternalID looks a user up by identity-provider subject
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err != nil {
		return nil, wrap(err, "fetch user")
	}

	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, wrap(err, "fetch users")
	}

	return users, nil
}

// Update applies column updates to one user. Keys are column names.
func (r *UserRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
