package services

import (
	"context"
	"testing"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db"
	"policereserves/roster/internal/db/repositories"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, externalID string, role constants.Role) *gormModels.User {
	t.Helper()

	u := &gormModels.User{
		ExternalID: externalID,
		Email:      externalID + "@example.org",
		FirstName:  "Test",
		LastName:   externalID,
		Role:       role,
		Status:     constants.UserStatusActive,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

func newTestSigner() *common.URLSignerService {
	return common.NewURLSignerService([]byte("test-signing-key"), time.Hour, "http://roster.test")
}

func newTestUserService(store *repositories.Store) *UserService {
	return NewUserService(store, common.NewCacheService(time.Minute, time.Minute), time.Minute)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
