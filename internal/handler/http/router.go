package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novametrics/reviewpulse/pkg/health"
	"github.com/novametrics/reviewpulse/pkg/middleware"
)

const serviceName = "reviewpulse"

// RouterDeps bundles the handlers and infrastructure the router mounts.
type RouterDeps struct {
	Reviews     *ReviewHandler
	Dashboard   *DashboardHandler
	Reports     *ReportHandler
	Simulations *SimulationHandler
	Health      *health.Handler
	Logger      *slog.Logger
}

// NewRouter builds the HTTP router with the full middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", deps.Reviews.Submit)
			r.Get("/", deps.Reviews.List)
		})

		r.Get("/dashboard/overview", deps.Dashboard.Overview)

		r.Post("/reports", deps.Reports.Synthesize)
		r.Post("/assistant", deps.Reports.Answer)

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/", deps.Simulations.Start)
			r.Post("/batch", deps.Simulations.Batch)
			r.Get("/current", deps.Simulations.Status)
			r.Delete("/current", deps.Simulations.Stop)
		})
	})

	return r
}
