package services

import (
	"context"
	"errors"
	"testing"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/models/dtos"
	gormModels "policereserves/roster/internal/models/gorm"
)

func TestUserService_ResolveCreatesGuestOnce(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestUserService(repositories.NewStore(gdb))

	id := &auth.Identity{Subject: "idp|42", Email: "casey@example.org", FirstName: "Casey", LastName: "Nguyen"}

	claims, err := svc.Resolve(ctx, id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if claims.Role() != constants.RoleGuest.String() {
		t.Errorf("Expected guest role, got %s", claims.Role())
	}
	if claims.MFAVerified() {
		t.Error("Expected MFA false")
	}

	id.MFA = true
	again, err := svc.Resolve(ctx, id)
	if err != nil {
		t.Fatalf("Second Resolve failed: %v", err)
	}
	if again.UserID() != claims.UserID() {
		t.Errorf("Expected same user, got %d and %d", claims.UserID(), again.UserID())
	}
	if !again.MFAVerified() {
		t.Error("Expected MFA to follow the current token")
	}

	var count int64
	gdb.Model(&gormModels.User{}).Where("external_id = ?", "idp|42").Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 user row, got %d", count)
	}
}

func TestUserService_RoleChangeInvalidatesCachedClaims(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestUserService(repositories.NewStore(gdb))

	id := &auth.Identity{Subject: "idp|7", Email: "sam@example.org"}
	claims, err := svc.Resolve(ctx, id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	position := "reserve"
	user, err := svc.UpdateRole(ctx, claims.UserID(), "member", &position)
	if err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	if user.Position == nil || *user.Position != constants.PositionReserve {
		t.Errorf("Expected reserve position, got %v", user.Position)
	}

	claims, err = svc.Resolve(ctx, id)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if claims.Role() != constants.RoleMember.String() {
		t.Errorf("Expected fresh member role, got %s", claims.Role())
	}
}

func TestUserService_Validation(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestUserService(repositories.NewStore(gdb))
	user := createUser(t, gdb, "u1", constants.RoleMember)

	var verr *ValidationError
	if _, err := svc.UpdateRole(ctx, user.ID, "chief", nil); !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError for role, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, user.ID, "retired"); !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError for status, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 999, "inactive"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	callsign := "R-12"
	updated, err := svc.UpdateProfile(ctx, user.ID, dtos.UpdateProfileReq{Callsign: &callsign})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Callsign == nil || *updated.Callsign != callsign {
		t.Errorf("Expected callsign %s, got %v", callsign, updated.Callsign)
	}
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := NewNotificationService(repositories.NewStore(gdb))
	alice := createUser(t, gdb, "alice", constants.RoleMember)
	bob := createUser(t, gdb, "bob", constants.RoleMember)

	own := &gormModels.Notification{Kind: constants.NotificationEquipmentReturn, SubjectID: 1, UserID: &alice.ID, Message: "Return your radio", CreatedAt: svc.now()}
	broadcast := &gormModels.Notification{Kind: constants.NotificationPolicy, SubjectID: 2, Message: "Review policy 2.01", CreatedAt: svc.now()}
	other := &gormModels.Notification{Kind: constants.NotificationEquipmentReturn, SubjectID: 3, UserID: &bob.ID, Message: "Return your vest", CreatedAt: svc.now()}
	for _, n := range []*gormModels.Notification{own, broadcast, other} {
		if err := gdb.Create(n).Error; err != nil {
			t.Fatalf("Failed to create notification: %v", err)
		}
	}

	list, err := svc.ListForUser(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected own and broadcast notifications, got %d", len(list))
	}

	if err := svc.MarkRead(ctx, own.ID, alice.ID); err != nil {
		t.Errorf("MarkRead failed: %v", err)
	}
	if err := svc.MarkRead(ctx, other.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for someone else's notification, got %v", err)
	}
}
