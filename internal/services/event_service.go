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

type EventService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewEventService(store *repositories.Store) *EventService {
	return &EventService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *EventService) Create(ctx context.Context, req dtos.SessionReq) (*gormModels.Event, error) {
	if err := validateSession(req.Name, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	eventType := constants.EventType(req.Type)
	if !eventType.IsValid() {
		return nil, invalid("unknown event type %q", req.Type)
	}

	start := req.StartTime.UTC()
	event := &gormModels.Event{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    req.Location,
		Type:        eventType,
		Date:        datatypes.Date(start),
		StartTime:   start,
		EndTime:     req.EndTime.UTC(),
	}

	if err := s.store.Events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id uint, req dtos.SessionUpdateReq) (*gormModels.Event, error) {
	event, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, name, start, end := sessionUpdates(req, event.Name, event.StartTime, event.EndTime)
	if err := validateSession(name, start, end); err != nil {
		return nil, err
	}
	if req.Type != nil {
		t := constants.EventType(*req.Type)
		if !t.IsValid() {
			return nil, invalid("unknown event type %q", *req.Type)
		}
		updates["type"] = t
	}
	if _, ok := updates["start_time"]; ok {
		updates["date"] = datatypes.Date(start)
	}

	if len(updates) > 0 {
		if err := s.store.Events.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.Events.GetByID(ctx, id)
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	return s.store.Events.Delete(ctx, id)
}

func (s *EventService) Get(ctx context.Context, id uint) (*gormModels.Event, error) {
	return s.store.Events.GetByID(ctx, id)
}

// List returns all events, or only those that have not ended
func (s *EventService) List(ctx context.Context, upcomingOnly bool) ([]gormModels.Event, error) {
	if upcomingOnly {
		now := s.now()
		return s.store.Events.List(ctx, &now)
	}
	return s.store.Events.List(ctx, nil)
}

// SignUp enrolls the caller. Events that have already ended cannot be
// joined.
func (s *EventService) SignUp(ctx context.Context, eventID, userID uint) (*gormModels.EventAssignment, error) {
	event, err := s.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.EndTime.Before(s.now()) {
		return nil, invalid("event has already ended")
	}

	return s.enroll(ctx, eventID, userID, "SignUp")
}

// Assign enrolls a user on an admin's behalf
func (s *EventService) Assign(ctx context.Context, eventID, userID uint) (*gormModels.EventAssignment, error) {
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.enroll(ctx, eventID, userID, "Assign")
}

func (s *EventService) enroll(ctx context.Context, eventID, userID uint, op string) (*gormModels.EventAssignment, error) {
	a := &gormModels.EventAssignment{EventID: eventID, UserID: userID}

	if err := s.store.Events.CreateAssignment(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrAlreadySignedUp
		}
		return nil, err
	}

	logging.FromContext(ctx).Infow("user enrolled in event",
		"module", "events", "op", op, "event_id", eventID, "user_id", userID)
	return a, nil
}

// Leave withdraws the user from an event
func (s *EventService) Leave(ctx context.Context, eventID, userID uint) error {
	err := s.store.Events.DeleteAssignment(ctx, eventID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotSignedUp
	}
	return err
}

// UpdateCompletionStatus records attendance. An empty status resets it to
// pending.
func (s *EventService) UpdateCompletionStatus(ctx context.Context, eventID, userID uint, status, notes string) (*gormModels.EventAssignment, error) {
	st, err := parseCompletion(status)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.store.Events.UpsertCompletion(ctx, eventID, userID, st, notes); err != nil {
		return nil, err
	}
	return s.store.Events.GetAssignment(ctx, eventID, userID)
}

// ListForUser returns the user's events, upcoming first
func (s *EventService) ListForUser(ctx context.Context, userID uint) ([]gormModels.EventAssignment, error) {
	list, err := s.store.Events.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	common.SortByTimeRelativeToNow(list, s.now(), func(a gormModels.EventAssignment) time.Time {
		if a.Event == nil {
			return time.Time{}
		}
		return a.Event.StartTime
	})
	return list, nil
}

func (s *EventService) ListAttendees(ctx context.Context, eventID uint) ([]gormModels.EventAssignment, error) {
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.Events.ListAttendees(ctx, eventID)
}
