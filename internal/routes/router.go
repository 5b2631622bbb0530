package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"guard-collective/gatekeeper/internal/api"
	"guard-collective/gatekeeper/internal/config"
	"guard-collective/gatekeeper/internal/db"
	"guard-collective/gatekeeper/internal/logging"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/middleware"
	"guard-collective/gatekeeper/internal/workers"
)

// RegisterRoutes builds the chi router, wires dependencies, and starts the
// background workers.
func RegisterRoutes(cfg *config.Config, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Server-Id", "X-Discord-Id", "X-Role-Ids"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}
	handlers := api.NewHandlers(deps)

	workers.InitWorkers(deps.Services.Roster, deps.Config)

	RegisterAPIRoutes(r, deps, handlers)

	return r
}
