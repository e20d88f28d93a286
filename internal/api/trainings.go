package api

import (
	"net/http"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
)

// ListTrainings handles GET /api/v1/trainings?upcoming=true
func (h *Handlers) ListTrainings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		trainings, err := h.deps.Services.Trainings.List(r.Context(), r.URL.Query().Get("upcoming") == "true")
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Trainings fetched", trainings)
	}
}

func (h *Handlers) GetTraining() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		training, err := h.deps.Services.Trainings.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Training fetched", training)
	}
}

// SignUpTraining handles POST /api/v1/trainings/{id}/signup
func (h *Handlers) SignUpTraining() http.HandlerFunc {
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

		assignment, err := h.deps.Services.Trainings.SignUp(r.Context(), id, userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Signed up", assignment, http.StatusCreated)
	}
}

func (h *Handlers) CreateTraining() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SessionReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		training, err := h.deps.Services.Trainings.Create(r.Context(), req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Training created", training, http.StatusCreated)
	}
}

func (h *Handlers) UpdateTraining() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.SessionUpdateReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		training, err := h.deps.Services.Trainings.Update(r.Context(), id, req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Training updated", training)
	}
}

func (h *Handlers) DeleteTraining() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		if err := h.deps.Services.Trainings.Delete(r.Context(), id); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToDelete)
			return
		}

		common.RespondSuccess(w, initTime, "Training deleted", nil)
	}
}

func (h *Handlers) AssignTraining() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.AssignUserReq
		if err := decodeJSON(w, r, &req); err != nil || req.UserID == 0 {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		assignment, err := h.deps.Services.Trainings.Assign(r.Context(), id, req.UserID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "User assigned", assignment, http.StatusCreated)
	}
}

// UpdateTrainingCompletion handles PUT /api/v1/admin/trainings/{id}/completion
func (h *Handlers) UpdateTrainingCompletion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.CompletionStatusReq
		if err := decodeJSON(w, r, &req); err != nil || req.UserID == 0 {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		assignment, err := h.deps.Services.Trainings.UpdateCompletionStatus(r.Context(), id, req.UserID, req.Status, req.Notes)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Completion status updated", assignment)
	}
}

func (h *Handlers) ListTrainingAttendees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		list, err := h.deps.Services.Trainings.ListAttendees(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Attendees fetched", list)
	}
}
