package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db"
	"policereserves/roster/internal/db/repositories"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

func newTestPolicyService(t *testing.T, gdb *gorm.DB) *PolicyService {
	t.Helper()

	files, err := common.NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	sqlxDB, err := db.WrapORM(gdb)
	if err != nil {
		t.Fatalf("Failed to wrap db: %v", err)
	}
	return NewPolicyService(repositories.NewStore(gdb), repositories.NewReportRepository(sqlxDB), files, newTestSigner())
}

func uploadPolicy(t *testing.T, svc *PolicyService, number string) *gormModels.Policy {
	t.Helper()

	p, err := svc.Upload(context.Background(), PolicyUpload{
		Number: number,
		Name:   "Use of Force",
		Type:   "general order",
		File:   Upload{FileName: "force.pdf", Body: strings.NewReader("%PDF")},
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	return p
}

func TestPolicyService_Upload(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestPolicyService(t, gdb)
	svc.now = fixedClock(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC))

	p := uploadPolicy(t, svc, "1.05")
	if p.StoragePath != "policies/1.05/use-of-force-2024-07-04.pdf" {
		t.Errorf("Unexpected storage path %s", p.StoragePath)
	}
	if !p.IsActive {
		t.Error("Expected new policy to be active")
	}

	_, err := svc.Upload(ctx, PolicyUpload{
		Number: "1.05",
		Name:   "Use of Force (rev)",
		File:   Upload{FileName: "force.pdf", Body: strings.NewReader("%PDF")},
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	var verr *ValidationError
	if _, err := svc.Upload(ctx, PolicyUpload{Number: "1.06", Name: "No File"}); !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError for missing document, got %v", err)
	}
}

func TestPolicyService_AcknowledgeRequiresView(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestPolicyService(t, gdb)
	user := createUser(t, gdb, "u1", constants.RoleMember)
	p := uploadPolicy(t, svc, "2.01")

	if err := svc.Acknowledge(ctx, p.ID, user.ID); !errors.Is(err, ErrPolicyNotViewed) {
		t.Fatalf("Expected ErrPolicyNotViewed, got %v", err)
	}

	link, err := svc.URL(ctx, p.ID, user.ID)
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if !strings.HasPrefix(link.URL, "http://roster.test/files/") {
		t.Errorf("Unexpected link %s", link.URL)
	}

	if err := svc.Acknowledge(ctx, p.ID, user.ID); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	if err := svc.Acknowledge(ctx, p.ID, user.ID); err != nil {
		t.Fatalf("Expected repeated Acknowledge to be a no-op, got %v", err)
	}

	var count int64
	gdb.Model(&gormModels.PolicyCompletion{}).Where("policy_id = ? AND user_id = ?", p.ID, user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 completion, got %d", count)
	}

	list, err := svc.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 1 || !list[0].Viewed || list[0].CompletedAt == nil {
		t.Errorf("Expected viewed and completed policy, got %+v", list)
	}
}

func TestPolicyService_ResetCompletion(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestPolicyService(t, gdb)
	alice := createUser(t, gdb, "alice", constants.RoleMember)
	bob := createUser(t, gdb, "bob", constants.RoleMember)
	p := uploadPolicy(t, svc, "3.10")

	for _, u := range []*gormModels.User{alice, bob} {
		if _, err := svc.URL(ctx, p.ID, u.ID); err != nil {
			t.Fatalf("URL failed: %v", err)
		}
		if err := svc.Acknowledge(ctx, p.ID, u.ID); err != nil {
			t.Fatalf("Acknowledge failed: %v", err)
		}
	}

	removed, err := svc.ResetCompletion(ctx, p.ID, &alice.ID)
	if err != nil {
		t.Fatalf("ResetCompletion failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 completion removed, got %d", removed)
	}
	if err := svc.Acknowledge(ctx, p.ID, alice.ID); !errors.Is(err, ErrPolicyNotViewed) {
		t.Errorf("Expected alice to need a fresh view, got %v", err)
	}

	rows, err := svc.Completions(ctx, p.ID)
	if err != nil {
		t.Fatalf("Completions failed: %v", err)
	}
	completed := map[uint]bool{}
	for _, r := range rows {
		completed[r.UserID] = r.CompletedAt != nil
	}
	if completed[alice.ID] || !completed[bob.ID] {
		t.Errorf("Expected only bob completed, got %v", completed)
	}

	removed, err = svc.ResetCompletion(ctx, p.ID, nil)
	if err != nil {
		t.Fatalf("ResetCompletion for everyone failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected bob's completion removed, got %d", removed)
	}
}

func TestPolicyService_InactivePoliciesHiddenFromMembers(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc := newTestPolicyService(t, gdb)
	user := createUser(t, gdb, "u1", constants.RoleMember)
	p := uploadPolicy(t, svc, "4.00")

	// viewed while active, so only the deactivation can block acknowledgment
	if _, err := svc.URL(ctx, p.ID, user.ID); err != nil {
		t.Fatalf("URL failed: %v", err)
	}

	if _, err := svc.SetActive(ctx, p.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	list, err := svc.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected inactive policy to be hidden, got %d", len(list))
	}

	if _, err := svc.URL(ctx, p.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected no link for an inactive policy, got %v", err)
	}
	if err := svc.Acknowledge(ctx, p.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected inactive policy to refuse acknowledgment, got %v", err)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected admin list to include inactive policy, got %d", len(all))
	}
}
