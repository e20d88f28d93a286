package api

import (
	"net/http"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/models/dtos"
)

// ListEquipment handles GET /api/v1/admin/equipment
func (h *Handlers) ListEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := h.deps.Services.Equipment.List(r.Context())
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment fetched", items)
	}
}

// ListAvailableEquipment handles GET /api/v1/admin/equipment/available
func (h *Handlers) ListAvailableEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		items, err := h.deps.Services.Equipment.ListAvailable(r.Context())
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Available equipment fetched", items)
	}
}

// CreateEquipment handles POST /api/v1/admin/equipment
//
// @Summary      Add an equipment item
// @Tags         Equipment
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.EquipmentReq  true  "Equipment"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/v1/admin/equipment [post]
func (h *Handlers) CreateEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.EquipmentReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		item, err := h.deps.Services.Equipment.Create(r.Context(), req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment created", item, http.StatusCreated)
	}
}

// GetEquipment handles GET /api/v1/admin/equipment/{id}
func (h *Handlers) GetEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		item, err := h.deps.Services.Equipment.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment fetched", item)
	}
}

// UpdateEquipment handles PUT /api/v1/admin/equipment/{id}
func (h *Handlers) UpdateEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.EquipmentUpdateReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		item, err := h.deps.Services.Equipment.Update(r.Context(), id, req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment updated", item)
	}
}

// DeleteEquipment handles DELETE /api/v1/admin/equipment/{id}. Items with
// assignment history cannot be deleted; mark them obsolete instead.
func (h *Handlers) DeleteEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		if err := h.deps.Services.Equipment.Delete(r.Context(), id); err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToDelete)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment deleted", nil)
	}
}

// MarkEquipmentObsolete handles POST /api/v1/admin/equipment/{id}/obsolete
func (h *Handlers) MarkEquipmentObsolete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		item, err := h.deps.Services.Equipment.MarkObsolete(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment marked obsolete", item)
	}
}

// AssignEquipment handles POST /api/v1/admin/equipment/assignments
//
// @Summary      Check out equipment to a user
// @Tags         Equipment
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.AssignEquipmentReq  true  "Assignment"
// @Success      201  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse  "Already checked out or obsolete"
// @Router       /api/v1/admin/equipment/assignments [post]
func (h *Handlers) AssignEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.AssignEquipmentReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		assignment, err := h.deps.Services.Equipment.Assign(r.Context(), req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment checked out", assignment, http.StatusCreated)
	}
}

// ReturnEquipment handles POST /api/v1/admin/equipment/assignments/{id}/return
func (h *Handlers) ReturnEquipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(r, "id")
		if !ok {
			respondBadID(w, initTime)
			return
		}

		var req dtos.ReturnEquipmentReq
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, constants.MsgInvalidRequest, http.StatusBadRequest)
			return
		}

		assignment, err := h.deps.Services.Equipment.Return(r.Context(), id, req)
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToSave)
			return
		}

		common.RespondSuccess(w, initTime, "Equipment returned", assignment)
	}
}

// ListActiveAssignments handles GET /api/v1/admin/equipment/assignments
func (h *Handlers) ListActiveAssignments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		list, err := h.deps.Services.Equipment.ListActiveAssignments(r.Context())
		if err != nil {
			h.respondServiceError(w, r, initTime, err, constants.MsgFailedToFetch)
			return
		}

		common.RespondSuccess(w, initTime, "Active assignments fetched", list)
	}
}
