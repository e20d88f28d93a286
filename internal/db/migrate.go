package db

import (
	"context"
	"fmt"
	"strings"

	"policereserves/roster/internal/logging"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

// enumTypes are created as native enum types on postgres. Other dialects
// store the value as text and rely on the Go-side IsValid checks.
var enumTypes = []struct {
	name   string
	values []string
}{
	{"user_role", []string{"admin", "member", "guest"}},
	{"user_position", []string{"officer", "reserve", "admin", "staff", "candidate", "dispatcher"}},
	{"user_status", []string{"active", "inactive", "denied"}},
	{"application_status", []string{"pending", "approved", "rejected"}},
	{"equipment_condition", []string{"new", "good", "fair", "poor", "damaged"}},
	{"completion_status", []string{"completed", "incomplete", "excused", "unexcused"}},
	{"event_type", []string{"patrol", "meeting", "community", "ceremony", "other"}},
	{"training_type", []string{"firearms", "defensive_tactics", "first_aid", "legal", "driving", "other"}},
}

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&gormModels.User{},
		&gormModels.Application{},
		&gormModels.Equipment{},
		&gormModels.AssignedEquipment{},
		&gormModels.Event{},
		&gormModels.EventAssignment{},
		&gormModels.Training{},
		&gormModels.TrainingAssignment{},
		&gormModels.Policy{},
		&gormModels.PolicyCompletion{},
		&gormModels.PolicyView{},
		&gormModels.Notification{},
		&gormModels.APIKey{},
	}
}

// Migrate brings the schema up to date
func Migrate(ctx context.Context, db *gorm.DB) error {
	log := logging.FromContext(ctx).With("module", "db", "op", "Migrate")
	tx := db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		for _, e := range enumTypes {
			if err := tx.Exec(createEnumSQL(e.name, e.values)).Error; err != nil {
				return fmt.Errorf("failed to create enum %s: %w", e.name, err)
			}
		}
	}

	if err := tx.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	// at most one open checkout per equipment item
	if err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_assigned_equipment_active
		ON assigned_equipment (equipment_id) WHERE checked_in_at IS NULL`).Error; err != nil {
		return fmt.Errorf("failed to create active assignment index: %w", err)
	}

	log.Infow("schema migrated", "dialect", db.Dialector.Name())
	return nil
}

func createEnumSQL(name string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf(`DO $$ BEGIN
	CREATE TYPE %s AS ENUM (%s);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;`, name, strings.Join(quoted, ", "))
}
