package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/dtos"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/datatypes"
)

type EquipmentService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewEquipmentService(store *repositories.Store) *EquipmentService {
	return &EquipmentService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *EquipmentService) Create(ctx context.Context, req dtos.EquipmentReq) (*gormModels.Equipment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}

	item := &gormModels.Equipment{
		Name:         name,
		Description:  req.Description,
		SerialNumber: trimmedOrNil(req.SerialNumber),
	}
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		d, err := parseDate("purchase_date", *req.PurchaseDate)
		if err != nil {
			return nil, err
		}
		item.PurchaseDate = d
	}

	if err := s.store.Equipment.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *EquipmentService) Update(ctx context.Context, id uint, req dtos.EquipmentUpdateReq) (*gormModels.Equipment, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = trimmedOrNil(req.SerialNumber)
	}
	if req.PurchaseDate != nil {
		if *req.PurchaseDate == "" {
			updates["purchase_date"] = nil
		} else {
			d, err := parseDate("purchase_date", *req.PurchaseDate)
			if err != nil {
				return nil, err
			}
			updates["purchase_date"] = d
		}
	}

	if len(updates) > 0 {
		if err := s.store.Equipment.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.Equipment.GetByID(ctx, id)
}

func (s *EquipmentService) Get(ctx context.Context, id uint) (*gormModels.Equipment, error) {
	return s.store.Equipment.GetByID(ctx, id)
}

func (s *EquipmentService) List(ctx context.Context) ([]gormModels.Equipment, error) {
	return s.store.Equipment.List(ctx)
}

// ListAvailable returns items that can be checked out right now
func (s *EquipmentService) ListAvailable(ctx context.Context) ([]gormModels.Equipment, error) {
	return s.store.Equipment.ListAvailable(ctx)
}

// Assign checks an item out to a user
func (s *EquipmentService) Assign(ctx context.Context, req dtos.AssignEquipmentReq) (*gormModels.AssignedEquipment, error) {
	log := logging.FromContext(ctx).With("module", "equipment", "op", "Assign")

	condition := constants.EquipmentCondition(req.Condition)
	if !condition.IsValid() {
		return nil, invalid("unknown condition %q", req.Condition)
	}
	if req.UserID == 0 || req.EquipmentID == 0 {
		return nil, invalid("user_id and equipment_id are required")
	}

	checkedOutAt := s.now()
	if req.CheckedOutAt != nil {
		checkedOutAt = req.CheckedOutAt.UTC()
	}

	var expected *time.Time
	if req.ExpectedReturnDate != nil {
		e := req.ExpectedReturnDate.UTC()
		if e.Before(checkedOutAt) {
			return nil, invalid("expected return date is before checkout")
		}
		expected = &e
	}

	a := &gormModels.AssignedEquipment{
		UserID:             req.UserID,
		EquipmentID:        req.EquipmentID,
		CheckedOutAt:       checkedOutAt,
		ExpectedReturnDate: expected,
		Condition:          condition,
		Notes:              trimmedOrNil(req.Notes),
	}

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		item, err := tx.Equipment.GetByID(ctx, req.EquipmentID)
		if err != nil {
			return err
		}
		if item.IsObsolete {
			return ErrEquipmentObsolete
		}
		if _, err := tx.Users.GetByID(ctx, req.UserID); err != nil {
			return err
		}

		if err := tx.Equipment.CreateAssignment(ctx, a); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				return ErrEquipmentUnavailable
			}
			return err
		}
		return tx.Equipment.Update(ctx, item.ID, map[string]interface{}{"is_assigned": true})
	})
	if err != nil {
		log.Warnw("assignment failed", "equipment_id", req.EquipmentID, "user_id", req.UserID, "error", err)
		return nil, err
	}

	log.Infow("equipment checked out", "assignment_id", a.ID, "equipment_id", a.EquipmentID, "user_id", a.UserID)
	return s.store.Equipment.GetAssignment(ctx, a.ID)
}

// Return checks an assignment back in. checked_out_at is left as it was.
func (s *EquipmentService) Return(ctx context.Context, assignmentID uint, req dtos.ReturnEquipmentReq) (*gormModels.AssignedEquipment, error) {
	condition := constants.EquipmentCondition(req.Condition)
	if !condition.IsValid() {
		return nil, invalid("unknown condition %q", req.Condition)
	}

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		a, err := tx.Equipment.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !a.IsActive() {
			return ErrAlreadyReturned
		}

		updates := map[string]interface{}{
			"checked_in_at": s.now(),
			"condition":     condition,
		}
		if req.Notes != nil {
			updates["notes"] = trimmedOrNil(req.Notes)
		}
		if err := tx.Equipment.UpdateAssignment(ctx, assignmentID, updates); err != nil {
			return err
		}
		return tx.Equipment.Update(ctx, a.EquipmentID, map[string]interface{}{"is_assigned": false})
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("equipment returned",
		"module", "equipment", "op", "Return", "assignment_id", assignmentID, "condition", condition)
	return s.store.Equipment.GetAssignment(ctx, assignmentID)
}

// MarkObsolete retires an item. It stops appearing as available; any open
// checkout is left alone.
func (s *EquipmentService) MarkObsolete(ctx context.Context, id uint) (*gormModels.Equipment, error) {
	if err := s.store.Equipment.Update(ctx, id, map[string]interface{}{"is_obsolete": true}); err != nil {
		return nil, err
	}
	return s.store.Equipment.GetByID(ctx, id)
}

func (s *EquipmentService) Delete(ctx context.Context, id uint) error {
	err := s.store.Equipment.Delete(ctx, id)
	if errors.Is(err, repositories.ErrInUse) {
		return ErrEquipmentInUse
	}
	return err
}

// ListForUser returns the user's checkouts, upcoming returns first
func (s *EquipmentService) ListForUser(ctx context.Context, userID uint) ([]gormModels.AssignedEquipment, error) {
	list, err := s.store.Equipment.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	common.SortByTimeRelativeToNow(list, s.now(), func(a gormModels.AssignedEquipment) time.Time {
		if a.ExpectedReturnDate != nil {
			return *a.ExpectedReturnDate
		}
		return a.CheckedOutAt
	})
	return list, nil
}

func (s *EquipmentService) ListActiveAssignments(ctx context.Context) ([]gormModels.AssignedEquipment, error) {
	return s.store.Equipment.ListActiveAssignments(ctx)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func parseDate(field, v string) (*datatypes.Date, error) {
	t, err := common.ParseDate(v)
	if err != nil {
		return nil, invalid("%s must be YYYY-MM-DD", field)
	}
	d := datatypes.Date(t)
	return &d, nil
}
