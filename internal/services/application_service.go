package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/dtos"
	gormModels "policereserves/roster/internal/models/gorm"

	"github.com/qri-io/jsonschema"
	"gorm.io/datatypes"
)

//go:embed schemas/application.json
var applicationSchemaJSON []byte

// Upload is a file received with a form
type Upload struct {
	FileName string
	Body     io.Reader
}

type ApplicationService struct {
	store  *repositories.Store
	files  common.FileStore
	signer *common.URLSignerService
	users  *UserService
	schema *jsonschema.Schema
	now    func() time.Time
}

func NewApplicationService(store *repositories.Store, files common.FileStore, signer *common.URLSignerService, users *UserService) (*ApplicationService, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(applicationSchemaJSON, rs); err != nil {
		return nil, fmt.Errorf("failed to load application schema: %w", err)
	}

	return &ApplicationService{
		store:  store,
		files:  files,
		signer: signer,
		users:  users,
		schema: rs,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// ValidatePayload checks raw JSON against the application schema and
// decodes it
func (s *ApplicationService) ValidatePayload(ctx context.Context, raw []byte) (*dtos.ApplicationReq, error) {
	if !json.Valid(raw) {
		return nil, invalid("application must be a JSON object")
	}

	verrs, err := s.schema.ValidateBytes(ctx, raw)
	if err != nil {
		return nil, invalid("application could not be validated: %v", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			if field := strings.TrimPrefix(v.PropertyPath, "/"); field != "" {
				msgs = append(msgs, field+": "+v.Message)
			} else {
				msgs = append(msgs, v.Message)
			}
		}
		return nil, invalid("%s", strings.Join(msgs, "; "))
	}

	var req dtos.ApplicationReq
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, invalid("application could not be decoded")
	}
	return &req, nil
}

// Submit validates and stores an application for userID. The resume, when
// given, is stored under resumes/<last-first>/.
func (s *ApplicationService) Submit(ctx context.Context, userID uint, raw []byte, resume *Upload) (*gormModels.Application, error) {
	log := logging.FromContext(ctx).With("module", "applications", "op", "Submit")

	req, err := s.ValidatePayload(ctx, raw)
	if err != nil {
		return nil, err
	}

	app := &gormModels.Application{
		UserID:     userID,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Experience: req.Experience,
		Status:     constants.ApplicationPending,
	}

	if req.DateOfBirth != nil {
		dob, err := common.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, invalid("date_of_birth must be YYYY-MM-DD")
		}
		d := datatypes.Date(dob)
		app.DateOfBirth = &d
	}
	if req.PreferredPosition != nil {
		p := constants.Position(*req.PreferredPosition)
		app.PreferredPosition = &p
	}

	if resume != nil {
		ext := path.Ext(resume.FileName)
		name := strings.TrimSuffix(path.Base(resume.FileName), ext)
		storagePath := common.BuildStoragePath(constants.StorageCategoryResumes,
			app.LastName+"-"+app.FirstName, name, s.now(), ext)

		if err := s.files.Put(ctx, storagePath, resume.Body); err != nil {
			log.Errorw("resume upload failed", "error", err)
			return nil, fmt.Errorf("failed to store resume: %w", err)
		}
		app.ResumePath = &storagePath
	}

	if err := s.store.Applications.Create(ctx, app); err != nil {
		return nil, err
	}

	log.Infow("application submitted", "application_id", app.ID, "user_id", userID)
	return app, nil
}

func (s *ApplicationService) List(ctx context.Context, status string) ([]gormModels.Application, error) {
	if status == "" {
		return s.store.Applications.List(ctx, nil)
	}

	st := constants.ApplicationStatus(status)
	if !st.IsValid() {
		return nil, invalid("unknown status %q", status)
	}
	return s.store.Applications.List(ctx, &st)
}

func (s *ApplicationService) Get(ctx context.Context, id uint) (*gormModels.Application, error) {
	return s.store.Applications.GetByID(ctx, id)
}

// UpdateStatus moves an application to status and applies the matching
// change to the applicant's account in the same transaction: approval makes
// the user an active member candidate, rejection a denied guest.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, status string) (*gormModels.Application, error) {
	st := constants.ApplicationStatus(status)
	if !st.IsValid() {
		return nil, invalid("unknown status %q", status)
	}

	var userID uint
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		app, err := tx.Applications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		userID = app.UserID

		if err := tx.Applications.UpdateStatus(ctx, id, st); err != nil {
			return err
		}

		switch st {
		case constants.ApplicationApproved:
			return tx.Users.Update(ctx, app.UserID, map[string]interface{}{
				"role":     constants.RoleMember,
				"position": constants.PositionCandidate,
				"status":   constants.UserStatusActive,
			})
		case constants.ApplicationRejected:
			return tx.Users.Update(ctx, app.UserID, map[string]interface{}{
				"role":   constants.RoleGuest,
				"status": constants.UserStatusDenied,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.User != nil {
		s.users.Invalidate(app.User.ExternalID)
	}

	logging.FromContext(ctx).Infow("application status changed",
		"module", "applications", "op", "UpdateStatus",
		"application_id", id, "user_id", userID, "status", st)
	return app, nil
}

// ResumeURL mints a download link for the application's resume
func (s *ApplicationService) ResumeURL(ctx context.Context, id, requestedBy uint) (*dtos.SignedURLResponse, error) {
	app, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ResumePath == nil {
		return nil, ErrNotFound
	}

	link, expiresAt, err := s.signer.GeneratePresignedURL(*app.ResumePath, requestedBy)
	if err != nil {
		return nil, err
	}
	return &dtos.SignedURLResponse{URL: link, ExpiresAt: expiresAt}, nil
}
