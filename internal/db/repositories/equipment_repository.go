package repositories

import (
	"context"
	"time"

	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, item *gormModels.Equipment) error {
	return wrap(r.db.WithContext(ctx).Create(item).Error, "create equipment")
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id uint) (*gormModels.Equipment, error) {
	var item gormModels.Equipment

	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, wrap(err, "fetch equipment")
	}

	return &item, nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]gormModels.Equipment, error) {
	var items []gormModels.Equipment

	err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrap(err, "fetch equipment")
	}

	return items, nil
}

// ListAvailable returns equipment that is not obsolete and has no open
// checkout
func (r *EquipmentRepository) ListAvailable(ctx context.Context) ([]gormModels.Equipment, error) {
	var items []gormModels.Equipment

	err := r.db.WithContext(ctx).
		Select("equipment.*").
		Joins("LEFT JOIN assigned_equipment ae ON ae.equipment_id = equipment.id AND ae.checked_in_at IS NULL").
		Where("ae.id IS NULL").
		Where("equipment.is_obsolete = ?", false).
		Order("equipment.name ASC, equipment.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrap(err, "fetch available equipment")
	}

	return items, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Equipment{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update equipment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete hard-deletes an item. Items with assignment history are rejected by
// the foreign key and come back as ErrInUse.
func (r *EquipmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.Equipment{}, id)

	if result.Error != nil {
		return wrap(result.Error, "delete equipment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateAssignment inserts a checkout. A second open checkout of the same
// item violates idx_assigned_equipment_active and returns ErrConflict.
func (r *EquipmentRepository) CreateAssignment(ctx context.Context, a *gormModels.AssignedEquipment) error {
	return wrap(r.db.WithContext(ctx).Create(a).Error, "create equipment assignment")
}

func (r *EquipmentRepository) GetAssignment(ctx context.Context, id uint) (*gormModels.AssignedEquipment, error) {
	var a gormModels.AssignedEquipment

	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("User").
		First(&a, id).Error
	if err != nil {
		return nil, wrap(err, "fetch equipment assignment")
	}

	return &a, nil
}

func (r *EquipmentRepository) UpdateAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.AssignedEquipment{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update equipment assignment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAssignmentsForUser returns every checkout held now or in the past by
// the user, with the item preloaded
func (r *EquipmentRepository) ListAssignmentsForUser(ctx context.Context, userID uint) ([]gormModels.AssignedEquipment, error) {
	var list []gormModels.AssignedEquipment

	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch equipment assignments")
	}

	return list, nil
}

func (r *EquipmentRepository) ListActiveAssignments(ctx context.Context) ([]gormModels.AssignedEquipment, error) {
	var list []gormModels.AssignedEquipment

	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("User").
		Where("checked_in_at IS NULL").
		Order("checked_out_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch active assignments")
	}

	return list, nil
}

// ListReturnsDue returns open checkouts whose expected return falls in
// [from, to) and that have not been reminded since remindedBefore
func (r *EquipmentRepository) ListReturnsDue(ctx context.Context, from, to, remindedBefore time.Time) ([]gormModels.AssignedEquipment, error) {
	var list []gormModels.AssignedEquipment

	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("checked_in_at IS NULL").
		Where("expected_return_date >= ? AND expected_return_date < ?", from, to).
		Where("(last_reminder_sent IS NULL OR last_reminder_sent < ?)", remindedBefore).
		Order("expected_return_date ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch equipment returns due")
	}

	return list, nil
}

func (r *EquipmentRepository) MarkAssignmentReminded(ctx context.Context, id uint, at time.Time) error {
	return r.UpdateAssignment(ctx, id, map[string]interface{}{"last_reminder_sent": at})
}
