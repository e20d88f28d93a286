package api

import (
	"net/http"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
)

// GetMe handles GET /api/v1/user/me
//
// @Summary      Current user
// @Description  Returns the signed-in user's profile
// @Tags         Users
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer token"
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/v1/user/me [get]
func (h *Handlers) GetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		user, err := h.deps.Services.Users.Get(r.Context(), userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "User fetched", user)
	}
}

// UpdateMe handles PUT /api/v1/user/me
//
// @Summary      Update own profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.UpdateProfileReq  true  "Profile fields"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/v1/user/me [put]
func (h *Handlers) UpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		var req dtos.UpdateProfileReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		user, err := h.deps.Services.Users.UpdateProfile(r.Context(), userID, req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Profile updated", user)
	}
}

// GetMyEquipment handles GET /api/v1/user/equipment
func (h *Handlers) GetMyEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		list, err := h.deps.Services.Equipment.ListForUser(r.Context(), userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment fetched", list)
	}
}

// GetMyEvents handles GET /api/v1/user/events
func (h *Handlers) GetMyEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		list, err := h.deps.Services.Events.ListForUser(r.Context(), userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Events fetched", list)
	}
}

// GetMyTrainings handles GET /api/v1/user/trainings
func (h *Handlers) GetMyTrainings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		list, err := h.deps.Services.Trainings.ListForUser(r.Context(), userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Trainings fetched", list)
	}
}

// GetMyPolicies handles GET /api/v1/user/policies
func (h *Handlers) GetMyPolicies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		list, err := h.deps.Services.Policies.ListForUser(r.Context(), userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Policies fetched", list)
	}
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		users, err := h.deps.Services.Users.List(r.Context())
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Users fetched", users)
	}
}

// GetUser handles GET /api/v1/admin/users/{id}
func (h *Handlers) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		user, err := h.deps.Services.Users.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "User fetched", user)
	}
}

// UpdateUserRole handles PUT /api/v1/admin/users/{id}/role
//
// @Summary      Set a user's role and position
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.UpdateRoleReq  true  "Role payload"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/admin/users/{id}/role [put]
func (h *Handlers) UpdateUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.UpdateRoleReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		user, err := h.deps.Services.Users.UpdateRole(r.Context(), id, req.Role, req.Position)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToUpdateRole)
			return
		}

		common.RespondSuccess(w, initTime, "Role updated", user)
	}
}

// UpdateUserStatus handles PUT /api/v1/admin/users/{id}/status
func (h *Handlers) UpdateUserStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.UpdateStatusReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		user, err := h.deps.Services.Users.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToUpdateRole)
			return
		}

		common.RespondSuccess(w, initTime, "Status updated", user)
	}
}
