package repositories

import (
	"context"
	"time"

	"policereserves/roster/internal/constants"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *gormModels.Event) error {
	return wrap(r.db.WithContext(ctx).Create(event).Error, "create event")
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*gormModels.Event, error) {
	var event gormModels.Event

	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, wrap(err, "fetch event")
	}

	return &event, nil
}

// List returns events by start time. A non-nil endsAfter keeps only events
// that have not finished by then.
func (r *EventRepository) List(ctx context.Context, endsAfter *time.Time) ([]gormModels.Event, error) {
	var events []gormModels.Event

	query := r.db.WithContext(ctx).Order("start_time ASC, id ASC")
	if endsAfter != nil {
		query = query.Where("end_time >= ?", *endsAfter)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, wrap(err, "fetch events")
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return wrap(result.Error, "update event")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the event; its assignments go with it (ON DELETE CASCADE)
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.Event{}, id)

	if result.Error != nil {
		return wrap(result.Error, "delete event")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateAssignment signs a user up. A second sign-up for the same event
// returns ErrConflict.
func (r *EventRepository) CreateAssignment(ctx context.Context, a *gormModels.EventAssignment) error {
	return wrap(r.db.WithContext(ctx).Create(a).Error, "create event assignment")
}

func (r *EventRepository) DeleteAssignment(ctx context.Context, eventID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&gormModels.EventAssignment{})

	if result.Error != nil {
		return wrap(result.Error, "delete event assignment")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *EventRepository) GetAssignment(ctx context.Context, eventID, userID uint) (*gormModels.EventAssignment, error) {
	var a gormModels.EventAssignment

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&a).Error
	if err != nil {
		return nil, wrap(err, "fetch event assignment")
	}

	return &a, nil
}

// UpsertCompletion records the outcome for (event, user), creating the
// assignment if the user was never signed up. A nil status resets the
// outcome to pending.
func (r *EventRepository) UpsertCompletion(ctx context.Context, eventID, userID uint, status *constants.CompletionStatus, notes string) error {
	a := gormModels.EventAssignment{
		EventID:          eventID,
		UserID:           userID,
		CompletionStatus: status,
		CompletionNotes:  notes,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completion_status", "completion_notes", "updated_at"}),
		}).
		Create(&a).Error

	return wrap(err, "save event completion")
}

func (r *EventRepository) ListAssignmentsForUser(ctx context.Context, userID uint) ([]gormModels.EventAssignment, error) {
	var list []gormModels.EventAssignment

	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch event assignments")
	}

	return list, nil
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID uint) ([]gormModels.EventAssignment, error) {
	var list []gormModels.EventAssignment

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, wrap(err, "fetch event attendees")
	}

	return list, nil
}

// ListDueForReminder returns events starting in [from, to) that have not
// been reminded since remindedBefore
func (r *EventRepository) ListDueForReminder(ctx context.Context, from, to, remindedBefore time.Time) ([]gormModels.Event, error) {
	var events []gormModels.Event

	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Where("(last_reminder_sent IS NULL OR last_reminder_sent < ?)", remindedBefore).
		Order("start_time ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, wrap(err, "fetch events due for reminder")
	}

	return events, nil
}

func (r *EventRepository) MarkReminded(ctx context.Context, id uint, at time.Time) error {
	return r.Update(ctx, id, map[string]interface{}{"last_reminder_sent": at})
}
