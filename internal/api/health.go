package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/entities"
)

// HealthCheck handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the database and, when configured, Redis and the notification stream are reachable.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Failure 503 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func (h *Handlers) HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		log := logging.FromContext(r.Context())
		svcs := make(map[string]entities.ServiceStatus)

		dbStatus := entities.ServiceStatus{Status: "ok", Details: "Database connected"}
		if err := h.deps.Repo.Reports.Ping(ctx); err != nil {
			log.Errorw("health check: database ping failed", "error", err)
			dbStatus = entities.ServiceStatus{Status: "down", Details: "Database unreachable"}
		}
		svcs["database"] = dbStatus

		if h.deps.Redis != nil {
			redisStatus := entities.ServiceStatus{Status: "ok", Details: "Redis connected"}
			if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
				log.Errorw("health check: redis ping failed", "error", err)
				redisStatus = entities.ServiceStatus{Status: "down", Details: "Redis unreachable"}
			}
			svcs["redis"] = redisStatus
		}

		if backlog := h.deps.Services.Backlog; backlog != nil {
			streamStatus := entities.ServiceStatus{Status: "ok"}
			if n, err := backlog.Length(ctx); err != nil {
				log.Errorw("health check: notification stream length failed", "error", err)
				streamStatus = entities.ServiceStatus{Status: "down", Details: "Notification stream unreachable"}
			} else {
				streamStatus.Details = fmt.Sprintf("%d notifications queued", n)
			}
			svcs["notification_stream"] = streamStatus
		}

		overallStatus := "ok"
		for _, svc := range svcs {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: svcs,
			Status:   overallStatus,
			UpSince:  h.deps.UpSince,
			Uptime:   time.Since(h.deps.UpSince).Round(time.Second).String(),
		}
		if h.deps.Config != nil {
			resp.Environment = h.deps.Config.AppEnv
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		writeRawJSON(w, code, resp)
	}
}
