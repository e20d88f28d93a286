package api

import (
	"net/http"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
)

// ListEvents handles GET /api/v1/events?upcoming=true
//
// @Summary      List events
// @Tags         Events
// @Produce      json
// @Param        upcoming  query  bool  false  "Only events that have not ended"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/events [get]
func (h *Handlers) ListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		events, err := h.deps.Services.Events.List(r.Context(), r.URL.Query().Get("upcoming") == "true")
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Events fetched", events)
	}
}

func (h *Handlers) GetEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		event, err := h.deps.Services.Events.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Event fetched", event)
	}
}

// SignUpEvent handles POST /api/v1/events/{id}/signup
//
// @Summary      Sign up for an event
// @Tags         Events
// @Produce      json
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse  "Event has ended"
// @Failure      409  {object}  dtos.APIResponse  "Already signed up"
// @Router       /api/v1/events/{id}/signup [post]
func (h *Handlers) SignUpEvent() http.HandlerFunc {
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

		assignment, err := h.deps.Services.Events.SignUp(r.Context(), id, userID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Signed up", assignment, http.StatusCreated)
	}
}

// LeaveEvent handles DELETE /api/v1/events/{id}/signup
func (h *Handlers) LeaveEvent() http.HandlerFunc {
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

		if err := h.deps.Services.Events.Leave(r.Context(), id, userID); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToDelete)
			return
		}

		common.RespondSuccess(w, initTime, "Left event", nil)
	}
}

// CreateEvent handles POST /api/v1/admin/events
func (h *Handlers) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SessionReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		event, err := h.deps.Services.Events.Create(r.Context(), req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Event created", event, http.StatusCreated)
	}
}

func (h *Handlers) UpdateEvent() http.HandlerFunc {
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

		event, err := h.deps.Services.Events.Update(r.Context(), id, req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Event updated", event)
	}
}

func (h *Handlers) DeleteEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		if err := h.deps.Services.Events.Delete(r.Context(), id); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToDelete)
			return
		}

		common.RespondSuccess(w, initTime, "Event deleted", nil)
	}
}

// AssignEvent handles POST /api/v1/admin/events/{id}/assign. Unlike a
// self sign-up, an admin may record attendance after the event ended.
func (h *Handlers) AssignEvent() http.HandlerFunc {
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

		assignment, err := h.deps.Services.Events.Assign(r.Context(), id, req.UserID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "User assigned", assignment, http.StatusCreated)
	}
}

// UpdateEventCompletion handles PUT /api/v1/admin/events/{id}/completion
func (h *Handlers) UpdateEventCompletion() http.HandlerFunc {
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

		assignment, err := h.deps.Services.Events.UpdateCompletionStatus(r.Context(), id, req.UserID, req.Status, req.Notes)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Completion status updated", assignment)
	}
}

func (h *Handlers) ListEventAttendees() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		list, err := h.deps.Services.Events.ListAttendees(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Attendees fetched", list)
	}
}
