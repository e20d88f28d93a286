package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/services"

	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 1 << 20

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// respondServiceError maps a service error onto a status code and a fixed
// message. fallback is used for anything unexpected; the original error is
// only logged.
func (h *Handlers) respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, fallback string) {
	log := logging.FromContext(r.Context())

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		common.RespondError(w, initTime, verr.Message, http.StatusBadRequest)
		return
	}

	status, msg := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, msg = http.StatusNotFound, constants.MsgNotFound
	case errors.Is(err, services.ErrAlreadySignedUp):
		status, msg = http.StatusConflict, constants.MsgAlreadySignedUp
	case errors.Is(err, services.ErrNotSignedUp):
		status, msg = http.StatusConflict, constants.MsgNotSignedUp
	case errors.Is(err, services.ErrEquipmentUnavailable):
		status, msg = http.StatusConflict, constants.MsgEquipmentUnavailable
	case errors.Is(err, services.ErrEquipmentObsolete):
		status, msg = http.StatusConflict, constants.MsgEquipmentObsolete
	case errors.Is(err, services.ErrAlreadyReturned):
		status, msg = http.StatusConflict, constants.MsgAlreadyReturned
	case errors.Is(err, services.ErrEquipmentInUse):
		status, msg = http.StatusConflict, constants.MsgEquipmentInUse
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, repositories.ErrConflict):
		status, msg = http.StatusConflict, constants.MsgDuplicate
	case errors.Is(err, services.ErrPolicyNotViewed):
		status, msg = http.StatusForbidden, constants.MsgPolicyNotViewed
	}

	if status == http.StatusConflict && h.deps.Metrics != nil {
		h.deps.Metrics.DBConflictsTotal.WithLabelValues(routePattern(r)).Inc()
	}
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "error", err)
	} else {
		log.Infow("request rejected", "status_code", status, "error", err)
	}

	common.RespondError(w, initTime, msg, status)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// pathID parses a positive integer URL parameter
func pathID(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// callerID returns the local user id of the signed-in caller
func callerID(r *http.Request) (uint, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil || claims.UserID() == 0 {
		return 0, false
	}
	return claims.UserID(), true
}

// writeRawJSON writes body without the response envelope
func writeRawJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func respondBadID(w http.ResponseWriter, initTime time.Time) {
	common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
}

func respondUnauthorized(w http.ResponseWriter, initTime time.Time) {
	common.RespondError(w, initTime, constants.MsgUnauthorized, http.StatusUnauthorized)
}
