package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
	"policereserves/roster/internal/services"
)

// maxUploadSize bounds multipart bodies (application with resume, policy
// documents)
const maxUploadSize = 10 << 20

// SubmitApplication handles POST /api/v1/applications
//
// @Summary      Submit a membership application
// @Description  Accepts either a JSON body or multipart/form-data with an "application" JSON field and an optional "resume" file
// @Tags         Applications
// @Accept       json,mpfd
// @Produce      json
// @Param        application  formData  string  false  "Application JSON"
// @Param        resume       formData  file    false  "Resume"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      429  {object}  dtos.APIResponse
// @Router       /api/v1/applications [post]
func (h *Handlers) SubmitApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		var (
			raw    []byte
			resume *services.Upload
		)

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
			if err := r.ParseMultipartForm(maxUploadSize); err != nil {
				common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
				return
			}
			defer r.MultipartForm.RemoveAll()

			raw = []byte(r.FormValue("application"))

			file, header, err := r.FormFile("resume")
			switch {
			case err == nil:
				defer file.Close()
				resume = &services.Upload{FileName: header.Filename, Body: file}
			case !errors.Is(err, http.ErrMissingFile):
				common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
				return
			}
		} else {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
			if err != nil {
				common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
				return
			}
			raw = body
		}

		app, err := h.deps.Services.Applications.Submit(r.Context(), userID, raw, resume)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Application submitted", app, http.StatusCreated)
	}
}

// ListApplications handles GET /api/v1/admin/applications?status=
func (h *Handlers) ListApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		list, err := h.deps.Services.Applications.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Applications fetched", list)
	}
}

// GetApplication handles GET /api/v1/admin/applications/{id}
func (h *Handlers) GetApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		app, err := h.deps.Services.Applications.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Application fetched", app)
	}
}

// UpdateApplicationStatus handles PUT /api/v1/admin/applications/{id}/status
//
// @Summary      Approve or reject an application
// @Description  Approval makes the applicant a member candidate in the same transaction
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.UpdateStatusReq  true  "pending, approved or rejected"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/v1/admin/applications/{id}/status [put]
func (h *Handlers) UpdateApplicationStatus() http.HandlerFunc {
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

		app, err := h.deps.Services.Applications.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Application updated", app)
	}
}

// GetResumeURL handles GET /api/v1/admin/applications/{id}/resume
func (h *Handlers) GetResumeURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}
		adminID, _ := callerID(r)

		link, err := h.deps.Services.Applications.ResumeURL(r.Context(), id, adminID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSignURL)
			return
		}

		common.RespondSuccess(w, initTime, "Resume link generated", link)
	}
}
