package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/dtos"
	gormModels "policereserves/roster/internal/models/gorm"
)

type UserService struct {
	store       *repositories.Store
	cache       common.CacheInterface
	identityTTL time.Duration
}

func NewUserService(store *repositories.Store, cache common.CacheInterface, identityTTL time.Duration) *UserService {
	return &UserService{
		store:       store,
		cache:       cache,
		identityTTL: identityTTL,
	}
}

// Resolve maps an identity-provider subject onto the local user, creating a
// guest account on first sign-in. Results are cached per subject.
func (s *UserService) Resolve(ctx context.Context, id *auth.Identity) (*auth.IdentityClaims, error) {
	key := string(constants.CachePrefixIdentity) + id.Subject

	claims, err := common.GetOrSet(s.cache, key, s.identityTTL, func() (auth.IdentityClaims, error) {
		user, err := s.findOrCreate(ctx, id)
		if err != nil {
			return auth.IdentityClaims{}, err
		}
		return *auth.NewIdentityClaims(user, false), nil
	})
	if err != nil {
		return nil, err
	}

	claims.MFA = id.MFA
	return &claims, nil
}

func (s *UserService) findOrCreate(ctx context.Context, id *auth.Identity) (*gormModels.User, error) {
	user, err := s.store.Users.GetByExternalID(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user = &gormModels.User{
		ExternalID: id.Subject,
		Email:      strings.ToLower(id.Email),
		FirstName:  id.FirstName,
		LastName:   id.LastName,
		Role:       constants.RoleGuest,
		Status:     constants.UserStatusActive,
	}
	err = s.store.Users.Create(ctx, user)
	if errors.Is(err, repositories.ErrConflict) {
		// another request created it first
		return s.store.Users.GetByExternalID(ctx, id.Subject)
	}
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infow("created user on first sign-in",
		"module", "users", "op", "Resolve", "user_id", user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]gormModels.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*gormModels.User, error) {
	return s.store.Users.GetByID(ctx, id)
}

// UpdateRole sets the user's role and, when given, position. An empty
// position string clears it.
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string, position *string) (*gormModels.User, error) {
	r := constants.Role(role)
	if !r.IsValid() {
		return nil, invalid("unknown role %q", role)
	}

	updates := map[string]interface{}{"role": r}
	if position != nil {
		if *position == "" {
			updates["position"] = nil
		} else {
			p := constants.Position(*position)
			if !p.IsValid() {
				return nil, invalid("unknown position %q", *position)
			}
			updates["position"] = p
		}
	}

	return s.update(ctx, id, updates, "UpdateRole")
}

func (s *UserService) UpdateStatus(ctx context.Context, id uint, status string) (*gormModels.User, error) {
	st := constants.UserStatus(status)
	if !st.IsValid() {
		return nil, invalid("unknown status %q", status)
	}

	return s.update(ctx, id, map[string]interface{}{"status": st}, "UpdateStatus")
}

// UpdateProfile applies the self-service contact fields that are set in req
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req dtos.UpdateProfileReq) (*gormModels.User, error) {
	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("phone", req.Phone)
	set("street", req.Street)
	set("city", req.City)
	set("state", req.State)
	set("postal_code", req.PostalCode)

	// police identifiers are nullable; empty clears them
	for col, v := range map[string]*string{"callsign": req.Callsign, "radio_number": req.RadioNumber} {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			updates[col] = trimmed
		} else {
			updates[col] = nil
		}
	}

	if len(updates) == 0 {
		return s.store.Users.GetByID(ctx, id)
	}
	if name, ok := updates["first_name"]; ok && name == "" {
		return nil, invalid("first name cannot be empty")
	}
	if name, ok := updates["last_name"]; ok && name == "" {
		return nil, invalid("last name cannot be empty")
	}

	return s.update(ctx, id, updates, "UpdateProfile")
}

func (s *UserService) update(ctx context.Context, id uint, updates map[string]interface{}, op string) (*gormModels.User, error) {
	if err := s.store.Users.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Invalidate(user.ExternalID)

	logging.FromContext(ctx).Infow("user updated", "module", "users", "op", op, "target_user_id", id)
	return user, nil
}

// Invalidate drops the cached identity so the next request sees the new
// role and status
func (s *UserService) Invalidate(externalID string) {
	s.cache.Delete(string(constants.CachePrefixIdentity) + externalID)
}
