package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	gormModels "policereserves/roster/internal/models/gorm"

	"gorm.io/gorm"
)

const validApplication = `{
	"first_name": "Dana",
	"last_name": "Reyes",
	"email": "Dana.Reyes@example.org",
	"phone": "555-123-4567",
	"street": "12 Main St",
	"city": "Springfield",
	"state": "IL",
	"postal_code": "62701",
	"date_of_birth": "1990-04-12",
	"preferred_position": "reserve",
	"experience": "Five years volunteer EMT"
}`

func newTestApplicationService(t *testing.T, gdb *gorm.DB) (*ApplicationService, *common.LocalFileStore) {
	t.Helper()

	files, err := common.NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	store := repositories.NewStore(gdb)
	svc, err := NewApplicationService(store, files, newTestSigner(), newTestUserService(store))
	if err != nil {
		t.Fatalf("Failed to create application service: %v", err)
	}
	return svc, files
}

func createPendingApplication(t *testing.T, gdb *gorm.DB, user *gormModels.User) *gormModels.Application {
	t.Helper()

	app := &gormModels.Application{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Status:    constants.ApplicationPending,
	}
	if err := gdb.Create(app).Error; err != nil {
		t.Fatalf("Failed to create application: %v", err)
	}
	return app
}

func TestApplicationService_ApprovalPromotesApplicant(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, _ := newTestApplicationService(t, gdb)

	applicant := createUser(t, gdb, "u9", constants.RoleGuest)
	app := createPendingApplication(t, gdb, applicant)

	updated, err := svc.UpdateStatus(ctx, app.ID, "approved")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != constants.ApplicationApproved {
		t.Errorf("Expected approved, got %s", updated.Status)
	}

	var user gormModels.User
	if err := gdb.First(&user, applicant.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if user.Role != constants.RoleMember {
		t.Errorf("Expected role member, got %s", user.Role)
	}
	if user.Position == nil || *user.Position != constants.PositionCandidate {
		t.Errorf("Expected position candidate, got %v", user.Position)
	}
	if user.Status != constants.UserStatusActive {
		t.Errorf("Expected status active, got %s", user.Status)
	}
}

func TestApplicationService_RejectionDeniesApplicant(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, _ := newTestApplicationService(t, gdb)

	applicant := createUser(t, gdb, "u10", constants.RoleGuest)
	app := createPendingApplication(t, gdb, applicant)

	if _, err := svc.UpdateStatus(ctx, app.ID, "rejected"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	var user gormModels.User
	if err := gdb.First(&user, applicant.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if user.Role != constants.RoleGuest || user.Status != constants.UserStatusDenied {
		t.Errorf("Expected denied guest, got role %s status %s", user.Role, user.Status)
	}
}

func TestApplicationService_ApprovalIsAtomic(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, _ := newTestApplicationService(t, gdb)

	applicant := createUser(t, gdb, "u11", constants.RoleGuest)
	app := createPendingApplication(t, gdb, applicant)

	failure := errors.New("user update failed")
	err := gdb.Callback().Update().Before("gorm:update").Register("test:fail_user_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			tx.AddError(failure)
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, app.ID, "approved"); !errors.Is(err, failure) {
		t.Fatalf("Expected injected failure, got %v", err)
	}

	var reloaded gormModels.Application
	if err := gdb.First(&reloaded, app.ID).Error; err != nil {
		t.Fatalf("Failed to reload application: %v", err)
	}
	if reloaded.Status != constants.ApplicationPending {
		t.Errorf("Expected application to stay pending, got %s", reloaded.Status)
	}
}

func TestApplicationService_UpdateStatusErrors(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, _ := newTestApplicationService(t, gdb)

	if _, err := svc.UpdateStatus(ctx, 999, "approved"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	var verr *ValidationError
	if _, err := svc.UpdateStatus(ctx, 1, "maybe"); !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestApplicationService_ValidatePayload(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, _ := newTestApplicationService(t, gdb)

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", validApplication, false},
		{"not json", `first_name=Dana`, true},
		{"missing fields", `{"first_name": "Dana"}`, true},
		{"bad email", strings.Replace(validApplication, "Dana.Reyes@example.org", "not-an-email", 1), true},
		{"unknown position", strings.Replace(validApplication, `"reserve"`, `"sheriff"`, 1), true},
		{"unexpected field", strings.Replace(validApplication, `"city"`, `"ssn": "123", "city"`, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidatePayload(ctx, []byte(tt.payload))
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestApplicationService_SubmitWithResume(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	svc, files := newTestApplicationService(t, gdb)
	svc.now = fixedClock(time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC))

	applicant := createUser(t, gdb, "u12", constants.RoleGuest)

	app, err := svc.Submit(ctx, applicant.ID, []byte(validApplication), &Upload{
		FileName: "My Resume.pdf",
		Body:     strings.NewReader("%PDF-1.4"),
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if app.Status != constants.ApplicationPending {
		t.Errorf("Expected pending, got %s", app.Status)
	}
	if app.Email != "dana.reyes@example.org" {
		t.Errorf("Expected normalized email, got %s", app.Email)
	}
	if app.ResumePath == nil || *app.ResumePath != "resumes/reyes-dana/my-resume-2024-02-03.pdf" {
		t.Fatalf("Unexpected resume path %v", app.ResumePath)
	}

	rc, err := files.Open(ctx, *app.ResumePath)
	if err != nil {
		t.Fatalf("Expected stored resume, got %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.4" {
		t.Errorf("Unexpected resume content %q", body)
	}

	link, err := svc.ResumeURL(ctx, app.ID, applicant.ID)
	if err != nil {
		t.Fatalf("ResumeURL failed: %v", err)
	}
	if !strings.HasPrefix(link.URL, "http://roster.test/files/") {
		t.Errorf("Unexpected link %s", link.URL)
	}
}
