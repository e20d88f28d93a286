package routes

import (
	"policereserves/roster/internal/api"
	"policereserves/roster/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {
	cfg := deps.Config
	applyLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r.Route("/api/v1", func(v1 chi.Router) {
		// machine callers
		v1.Group(func(cron chi.Router) {
			cron.Use(middleware.APIKeyMiddleware(deps.Repo.Keys))
			cron.Post("/cron/reminders", handlers.TriggerReminders())
		})

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(deps.Services.Tokens, deps.Services.Users))

			// any signed-in user, applicants included
			authed.Get("/user/me", handlers.GetMe())
			authed.Put("/user/me", handlers.UpdateMe())
			authed.Get("/user/equipment", handlers.GetMyEquipment())
			authed.Get("/notifications", handlers.ListNotifications())
			authed.Post("/notifications/{id}/read", handlers.MarkNotificationRead())
			authed.With(applyLimiter.Middleware).Post("/applications", handlers.SubmitApplication())

			authed.Group(func(member chi.Router) {
				member.Use(middleware.IsMemberMiddleware())

				member.Get("/user/events", handlers.GetMyEvents())
				member.Get("/user/trainings", handlers.GetMyTrainings())
				member.Get("/user/policies", handlers.GetMyPolicies())

				member.Route("/events", func(events chi.Router) {
					events.Get("/", handlers.ListEvents())
					events.Get("/{id}", handlers.GetEvent())
					events.Post("/{id}/signup", handlers.SignUpEvent())
					events.Delete("/{id}/signup", handlers.LeaveEvent())
				})

				member.Route("/trainings", func(trainings chi.Router) {
					trainings.Get("/", handlers.ListTrainings())
					trainings.Get("/{id}", handlers.GetTraining())
					trainings.Post("/{id}/signup", handlers.SignUpTraining())
				})

				member.Route("/policies", func(policies chi.Router) {
					policies.Get("/", handlers.ListPolicies())
					policies.Get("/{id}/url", handlers.GetPolicyURL())
					policies.Post("/{id}/acknowledge", handlers.AcknowledgePolicy())
				})
			})

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware(cfg.Auth.RequireAdminMFA))

				admin.Route("/users", func(users chi.Router) {
					users.Get("/", handlers.ListUsers())
					users.Get("/{id}", handlers.GetUser())
					users.Put("/{id}/role", handlers.UpdateUserRole())
					users.Put("/{id}/status", handlers.UpdateUserStatus())
				})

				admin.Route("/applications", func(apps chi.Router) {
					apps.Get("/", handlers.ListApplications())
					apps.Get("/{id}", handlers.GetApplication())
					apps.Put("/{id}/status", handlers.UpdateApplicationStatus())
					apps.Get("/{id}/resume", handlers.GetResumeURL())
				})

				admin.Route("/equipment", func(eq chi.Router) {
					eq.Get("/", handlers.ListEquipment())
					eq.Post("/", handlers.CreateEquipment())
					eq.Get("/available", handlers.ListAvailableEquipment())
					eq.Get("/assignments", handlers.ListActiveAssignments())
					eq.Post("/assignments", handlers.AssignEquipment())
					eq.Post("/assignments/{id}/return", handlers.ReturnEquipment())
					eq.Get("/{id}", handlers.GetEquipment())
					eq.Put("/{id}", handlers.UpdateEquipment())
					eq.Delete("/{id}", handlers.DeleteEquipment())
					eq.Post("/{id}/obsolete", handlers.MarkEquipmentObsolete())
				})

				admin.Route("/events", func(events chi.Router) {
					events.Post("/", handlers.CreateEvent())
					events.Put("/{id}", handlers.UpdateEvent())
					events.Delete("/{id}", handlers.DeleteEvent())
					events.Post("/{id}/assign", handlers.AssignEvent())
					events.Put("/{id}/completion", handlers.UpdateEventCompletion())
					events.Get("/{id}/attendees", handlers.ListEventAttendees())
				})

				admin.Route("/trainings", func(trainings chi.Router) {
					trainings.Post("/", handlers.CreateTraining())
					trainings.Put("/{id}", handlers.UpdateTraining())
					trainings.Delete("/{id}", handlers.DeleteTraining())
					trainings.Post("/{id}/assign", handlers.AssignTraining())
					trainings.Put("/{id}/completion", handlers.UpdateTrainingCompletion())
					trainings.Get("/{id}/attendees", handlers.ListTrainingAttendees())
				})

				admin.Route("/policies", func(policies chi.Router) {
					policies.Get("/", handlers.ListAllPolicies())
					policies.Post("/", handlers.UploadPolicy())
					policies.Put("/{id}/active", handlers.SetPolicyActive())
					policies.Get("/{id}/completions", handlers.PolicyCompletions())
					policies.Post("/{id}/reset", handlers.ResetPolicyCompletion())
				})

				admin.Post("/jobs/reminders", handlers.TriggerReminders())
			})
		})
	})
}
