package api

import (
	"net/http"
	"time"

	"policereserves/roster/internal/auth"
	"policereserves/roster/internal/common"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/dtos"
)

// TriggerReminders runs every reminder sweep once and reports per-sweep
// counts. It serves both the admin trigger and the API-key cron endpoint.
// A failed sweep is reported in its result and does not fail the request.
//
// @Summary      Run reminder sweeps
// @Description  Runs the event, training, equipment return and policy sweeps concurrently
// @Tags         Jobs
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/v1/cron/reminders [post]
// @Router       /api/v1/admin/jobs/reminders [post]
func (h *Handlers) TriggerReminders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		triggeredBy := "api_key"
		if claims := auth.GetIdentityClaims(r.Context()); claims != nil {
			triggeredBy = claims.ExternalID
		}
		logging.FromContext(r.Context()).Infow("reminder sweeps triggered", "module", "reminders", "triggered_by", triggeredBy)

		results := h.deps.Services.Reminders.RunAll(r.Context())

		msg := "Reminder sweeps completed"
		for _, res := range results {
			if res.Error != "" {
				msg = "Reminder sweeps completed with errors"
				break
			}
		}

		common.RespondSuccess(w, initTime, msg, dtos.ReminderRunResponse{
			TriggeredAt: initTime.UTC(),
			Results:     results,
		})
	}
}
