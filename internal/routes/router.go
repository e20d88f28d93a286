package routes

import (
	"net/http"

	"policereserves/roster/internal/api"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	// public
	r.Get("/healthCheck", handlers.HealthCheck())
	r.Get("/files/{token}", handlers.DownloadFile())

	RegisterAPIRoutes(r, handlers, deps)

	logging.Info("Router initialized with metrics and request id middleware")
	return r
}
