package services

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/dtos"
	"policereserves/roster/internal/models/entities"
	gormModels "policereserves/roster/internal/models/gorm"
)

// PolicyUpload describes a new policy document
type PolicyUpload struct {
	Number        string
	Name          string
	Type          string
	Description   string
	EffectiveDate string
	File          Upload
}

type PolicyService struct {
	store   *repositories.Store
	reports *repositories.ReportRepository
	files   common.FileStore
	signer  *common.URLSignerService
	now     func() time.Time
}

func NewPolicyService(store *repositories.Store, reports *repositories.ReportRepository, files common.FileStore, signer *common.URLSignerService) *PolicyService {
	return &PolicyService{
		store:   store,
		reports: reports,
		files:   files,
		signer:  signer,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upload stores the document under policies/<number>/ and creates the
// policy. The row and the file are written in one transaction so a failed
// upload leaves no policy behind.
func (s *PolicyService) Upload(ctx context.Context, in PolicyUpload) (*gormModels.Policy, error) {
	log := logging.FromContext(ctx).With("module", "policies", "op", "Upload")

	number := strings.TrimSpace(in.Number)
	name := strings.TrimSpace(in.Name)
	if number == "" || name == "" {
		return nil, invalid("policy number and name are required")
	}
	if in.File.Body == nil || in.File.FileName == "" {
		return nil, invalid("policy document is required")
	}

	policy := &gormModels.Policy{
		Number:      number,
		Type:        strings.TrimSpace(in.Type),
		Name:        name,
		Description: in.Description,
		StoragePath: common.BuildStoragePath(constants.StorageCategoryPolicies, number, name, s.now(), path.Ext(in.File.FileName)),
		IsActive:    true,
	}
	if in.EffectiveDate != "" {
		d, err := parseDate("effective_date", in.EffectiveDate)
		if err != nil {
			return nil, err
		}
		policy.EffectiveDate = d
	}

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Policies.Create(ctx, policy); err != nil {
			return err
		}
		return s.files.Put(ctx, policy.StoragePath, in.File.Body)
	})
	if errors.Is(err, repositories.ErrConflict) {
		return nil, ErrDuplicate
	}
	if err != nil {
		log.Errorw("policy upload failed", "number", number, "error", err)
		return nil, err
	}

	log.Infow("policy uploaded", "policy_id", policy.ID, "path", policy.StoragePath)
	return policy, nil
}

func (s *PolicyService) Get(ctx context.Context, id uint) (*gormModels.Policy, error) {
	return s.store.Policies.GetByID(ctx, id)
}

func (s *PolicyService) List(ctx context.Context, activeOnly bool) ([]gormModels.Policy, error) {
	return s.store.Policies.List(ctx, activeOnly)
}

func (s *PolicyService) SetActive(ctx context.Context, id uint, active bool) (*gormModels.Policy, error) {
	if err := s.store.Policies.Update(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		return nil, err
	}
	return s.store.Policies.GetByID(ctx, id)
}

// URL mints a one-hour download link for the policy document and records
// that userID was given it. The link itself is not stored.
func (s *PolicyService) URL(ctx context.Context, policyID, userID uint) (*dtos.SignedURLResponse, error) {
	policy, err := s.getActive(ctx, policyID)
	if err != nil {
		return nil, err
	}

	link, expiresAt, err := s.signer.GeneratePresignedURL(policy.StoragePath, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Policies.RecordView(ctx, policyID, userID, s.now()); err != nil {
		return nil, err
	}

	return &dtos.SignedURLResponse{URL: link, ExpiresAt: expiresAt}, nil
}

// Acknowledge marks the policy as read by userID. The user must have been
// issued the document first. Acknowledging again is a no-op.
func (s *PolicyService) Acknowledge(ctx context.Context, policyID, userID uint) error {
	if _, err := s.getActive(ctx, policyID); err != nil {
		return err
	}

	viewed, err := s.store.Policies.HasViewed(ctx, policyID, userID)
	if err != nil {
		return err
	}
	if !viewed {
		return ErrPolicyNotViewed
	}

	if err := s.store.Policies.CreateCompletion(ctx, policyID, userID, s.now()); err != nil {
		return err
	}

	logging.FromContext(ctx).Infow("policy acknowledged",
		"module", "policies", "op", "Acknowledge", "policy_id", policyID, "user_id", userID)
	return nil
}

// getActive loads a policy for the member paths; deactivated policies do
// not exist as far as members are concerned
func (s *PolicyService) getActive(ctx context.Context, id uint) (*gormModels.Policy, error) {
	policy, err := s.store.Policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsActive {
		return nil, ErrNotFound
	}
	return policy, nil
}

// ResetCompletion clears acknowledgments for one user, or for everyone when
// userID is nil. Their view records go too, so the document has to be
// opened again before the next acknowledgment.
func (s *PolicyService) ResetCompletion(ctx context.Context, policyID uint, userID *uint) (int64, error) {
	if _, err := s.store.Policies.GetByID(ctx, policyID); err != nil {
		return 0, err
	}

	var removed int64
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		n, err := tx.Policies.DeleteCompletions(ctx, policyID, userID)
		if err != nil {
			return err
		}
		removed = n
		return tx.Policies.DeleteViews(ctx, policyID, userID)
	})
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Infow("policy completions reset",
		"module", "policies", "op", "ResetCompletion", "policy_id", policyID, "removed", removed)
	return removed, nil
}

// ListForUser returns the active policies with the user's view and
// acknowledgment state
func (s *PolicyService) ListForUser(ctx context.Context, userID uint) ([]dtos.UserPolicy, error) {
	policies, err := s.store.Policies.List(ctx, true)
	if err != nil {
		return nil, err
	}
	completions, err := s.store.Policies.ListCompletionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	viewed, err := s.store.Policies.ViewedPolicyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedAt := make(map[uint]time.Time, len(completions))
	for _, c := range completions {
		completedAt[c.PolicyID] = c.CompletedAt
	}

	out := make([]dtos.UserPolicy, 0, len(policies))
	for _, p := range policies {
		up := dtos.UserPolicy{Policy: p, Viewed: viewed[p.ID]}
		if at, ok := completedAt[p.ID]; ok {
			up.CompletedAt = &at
		}
		out = append(out, up)
	}
	return out, nil
}

// Completions is the admin report of who has acknowledged the policy
func (s *PolicyService) Completions(ctx context.Context, policyID uint) ([]entities.PolicyCompletionRow, error) {
	if _, err := s.store.Policies.GetByID(ctx, policyID); err != nil {
		return nil, err
	}
	return s.reports.PolicyCompletions(ctx, policyID)
}

