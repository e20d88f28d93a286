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

type TrainingService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewTrainingService(store *repositories.Store) *TrainingService {
	return &TrainingService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TrainingService) Create(ctx context.Context, req dtos.SessionReq) (*gormModels.Training, error) {
	if err := validateSession(req.Name, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	trainingType := constants.TrainingType(req.Type)
	if !trainingType.IsValid() {
		return nil, invalid("unknown training type %q", req.Type)
	}

	start := req.StartTime.UTC()
	training := &gormModels.Training{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    req.Location,
		Instructor:  trimmedOrNil(req.Instructor),
		Type:        trainingType,
		Date:        datatypes.Date(start),
		StartTime:   start,
		EndTime:     req.EndTime.UTC(),
	}

	if err := s.store.Trainings.Create(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

func (s *TrainingService) Update(ctx context.Context, id uint, req dtos.SessionUpdateReq) (*gormModels.Training, error) {
	training, err := s.store.Trainings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, name, start, end := sessionUpdates(req, training.Name, training.StartTime, training.EndTime)
	if err := validateSession(name, start, end); err != nil {
		return nil, err
	}
	if req.Type != nil {
		t := constants.TrainingType(*req.Type)
		if !t.IsValid() {
			return nil, invalid("unknown training type %q", *req.Type)
		}
		updates["type"] = t
	}
	if req.Instructor != nil {
		updates["instructor"] = trimmedOrNil(req.Instructor)
	}
	if _, ok := updates["start_time"]; ok {
		updates["date"] = datatypes.Date(start)
	}

	if len(updates) > 0 {
		if err := s.store.Trainings.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.Trainings.GetByID(ctx, id)
}

func (s *TrainingService) Delete(ctx context.Context, id uint) error {
	return s.store.Trainings.Delete(ctx, id)
}

func (s *TrainingService) Get(ctx context.Context, id uint) (*gormModels.Training, error) {
	return s.store.Trainings.GetByID(ctx, id)
}

// List returns all trainings, or only those that have not ended
func (s *TrainingService) List(ctx context.Context, upcomingOnly bool) ([]gormModels.Training, error) {
	if upcomingOnly {
		now := s.now()
		return s.store.Trainings.List(ctx, &now)
	}
	return s.store.Trainings.List(ctx, nil)
}

// SignUp enrolls the caller. Trainings that have already ended cannot be
// joined.
func (s *TrainingService) SignUp(ctx context.Context, trainingID, userID uint) (*gormModels.TrainingAssignment, error) {
	training, err := s.store.Trainings.GetByID(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if training.EndTime.Before(s.now()) {
		return nil, invalid("training has already ended")
	}

	return s.enroll(ctx, trainingID, userID, "SignUp")
}

// Assign enrolls a user on an admin's behalf
func (s *TrainingService) Assign(ctx context.Context, trainingID, userID uint) (*gormModels.TrainingAssignment, error) {
	if _, err := s.store.Trainings.GetByID(ctx, trainingID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.enroll(ctx, trainingID, userID, "Assign")
}

func (s *TrainingService) enroll(ctx context.Context, trainingID, userID uint, op string) (*gormModels.TrainingAssignment, error) {
	a := &gormModels.TrainingAssignment{TrainingID: trainingID, UserID: userID}

	if err := s.store.Trainings.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrAlreadySignedUp
		}
		return nil, err
	}

	logging.FromContext(ctx).Infow("user enrolled in training",
		"module", "trainings", "op", op, "training_id", trainingID, "user_id", userID)
	return a, nil
}

// UpdateCompletionStatus records attendance. An empty status resets it to
// pending.
func (s *TrainingService) UpdateCompletionStatus(ctx context.Context, trainingID, userID uint, status, notes string) (*gormModels.TrainingAssignment, error) {
	st, err := parseCompletion(status)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Trainings.GetByID(ctx, trainingID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.Trainings.UpsertCompletion(ctx, trainingID, userID, st, notes); err != nil {
		return nil, err
	}
	return s.store.Trainings.GetAssignment(ctx, trainingID, userID)
}

// ListForUser returns the user's trainings, upcoming first
func (s *TrainingService) ListForUser(ctx context.Context, userID uint) ([]gormModels.TrainingAssignment, error) {
	list, err := s.store.Trainings.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	common.SortByTimeRelativeToNow(list, s.now(), func(a gormModels.TrainingAssignment) time.Time {
		if a.Training == nil {
			return time.Time{}
		}
		return a.Training.StartTime
	})
	return list, nil
}

func (s *TrainingService) ListAttendees(ctx context.Context, trainingID uint) ([]gormModels.TrainingAssignment, error) {
	if _, err := s.store.Trainings.GetByID(ctx, trainingID); err != nil {
		return nil, err
	}
	return s.store.Trainings.ListAttendees(ctx, trainingID)
}
