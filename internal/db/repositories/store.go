package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the gorm repositories over one connection or transaction
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Applications  *ApplicationRepository
	Equipment     *EquipmentRepository
	Events        *EventRepository
	Trainings     *TrainingRepository
	Policies      *PolicyRepository
	Notifications *NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Applications:  NewApplicationRepository(db),
		Equipment:     NewEquipmentRepository(db),
		Events:        NewEventRepository(db),
		Trainings:     NewTrainingRepository(db),
		Policies:      NewPolicyRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// InTx runs fn as one unit of work. Every repository on the Store passed to
// fn is bound to the transaction; returning an error rolls all of it back.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks and tests
func (s *Store) DB() *gorm.DB {
	return s.db
}
