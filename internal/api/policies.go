package api

import (
	"net/http"
	"strconv"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
	"policereserves/roster/internal/services"
)

// ListPolicies handles GET /api/v1/policies. Members only see active
// policies.
func (h *Handlers) ListPolicies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		policies, err := h.deps.Services.Policies.List(r.Context(), true)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Policies fetched", policies)
	}
}

// GetPolicyURL handles GET /api/v1/policies/{id}/url
//
// @Summary      Signed link to a policy document
// @Description  Issuing the link records that the caller has viewed the policy, which unlocks acknowledgement
// @Tags         Policies
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/policies/{id}/url [get]
func (h *Handlers) GetPolicyURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		link, err := h.deps.Services.Policies.URL(r.Context(), id, userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSignURL)
			return
		}

		common.RespondSuccess(w, initTime, "Policy link generated", link)
	}
}

// AcknowledgePolicy handles POST /api/v1/policies/{id}/acknowledge
func (h *Handlers) AcknowledgePolicy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		if err := h.deps.Services.Policies.Acknowledge(r.Context(), id, userID); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Policy acknowledged", nil)
	}
}

// ListAllPolicies handles GET /api/v1/admin/policies, inactive included
func (h *Handlers) ListAllPolicies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		policies, err := h.deps.Services.Policies.List(r.Context(), false)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Policies fetched", policies)
	}
}

// UploadPolicy handles POST /api/v1/admin/policies
//
// @Summary      Upload a policy document
// @Tags         Policies
// @Accept       mpfd
// @Produce      json
// @Param        number          formData  string  true   "Policy number"
// @Param        name            formData  string  true   "Policy name"
// @Param        type            formData  string  false  "Policy type"
// @Param        description     formData  string  false  "Description"
// @Param        effective_date  formData  string  false  "YYYY-MM-DD"
// @Param        document        formData  file    true   "Policy document"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse  "Duplicate policy number"
// @Router       /api/v1/admin/policies [post]
func (h *Handlers) UploadPolicy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("document")
		if err != nil {
			common.RespondError(w, initTime, "Policy document is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		policy, err := h.deps.Services.Policies.Upload(r.Context(), services.PolicyUpload{
			Number:        r.FormValue("number"),
			Name:          r.FormValue("name"),
			Type:          r.FormValue("type"),
			Description:   r.FormValue("description"),
			EffectiveDate: r.FormValue("effective_date"),
			File:          services.Upload{FileName: header.Filename, Body: file},
		})
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToUpload)
			return
		}

		common.RespondSuccess(w, initTime, "Policy uploaded", policy, http.StatusCreated)
	}
}

// SetPolicyActive handles PUT /api/v1/admin/policies/{id}/active
func (h *Handlers) SetPolicyActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.PolicyActiveReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		policy, err := h.deps.Services.Policies.SetActive(r.Context(), id, req.IsActive)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Policy updated", policy)
	}
}

// PolicyCompletions handles GET /api/v1/admin/policies/{id}/completions
func (h *Handlers) PolicyCompletions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		rows, err := h.deps.Services.Policies.Completions(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Policy completions fetched", rows)
	}
}

// ResetPolicyCompletion handles POST /api/v1/admin/policies/{id}/reset. An
// empty user_id resets the policy for everyone.
func (h *Handlers) ResetPolicyCompletion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.ResetCompletionReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		removed, err := h.deps.Services.Policies.ResetCompletion(r.Context(), id, req.UserID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToDelete)
			return
		}

		common.RespondSuccess(w, initTime, "Reset "+strconv.FormatInt(removed, 10)+" completions", map[string]int64{"removed": removed})
	}
}
