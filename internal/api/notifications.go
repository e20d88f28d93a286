package api

import (
	"net/http"
	"strconv"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
)

// ListNotifications handles GET /api/v1/notifications?limit=
func (h *Handlers) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		userID, ok := callerID(r)
		if !ok {
			respondUnauthorized(w, initTime)
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
				return
			}
			limit = n
		}

		list, err := h.deps.Services.Notifications.ListForUser(r.Context(), userID, limit)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Notifications fetched", list)
	}
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (h *Handlers) MarkNotificationRead() http.HandlerFunc {
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

		if err := h.deps.Services.Notifications.MarkRead(r.Context(), id, userID); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Notification marked read", nil)
	}
}
