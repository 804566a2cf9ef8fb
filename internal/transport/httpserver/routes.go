package httpserver

import (
	"net/http"
	"time"

	"contribution-tracker-go/internal/config"
	"contribution-tracker-go/internal/transport/httpserver/handler"
	"contribution-tracker-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API. reg may be nil when metrics are disabled.
func NewRouter(cfg config.Config, handlers *handler.Handlers, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins))

	if cfg.MetricsEnabled && reg != nil {
		r.Use(middleware.NewMetrics(reg).Middleware)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Get("/currencies", handlers.Common.ListCurrencies)

		r.Get("/groups", handlers.Tracker.ListGroups)
		r.Post("/groups", handlers.Tracker.CreateGroup)
		r.Get("/groups/{id}", handlers.Tracker.GetGroup)
		r.Put("/groups/{id}", handlers.Tracker.UpdateGroup)
		r.Patch("/groups/{id}", handlers.Tracker.UpdateGroup)
		r.Delete("/groups/{id}", handlers.Tracker.DeleteGroup)

		r.Get("/groups/{id}/stats", handlers.Stats.GroupStats)
		r.Get("/groups/{id}/pending", handlers.Stats.GroupPending)
		r.Get("/groups/{id}/trend", handlers.Stats.GroupTrend)
		r.Get("/groups/{id}/history", handlers.Stats.GroupHistory)
		r.Get("/groups/{id}/months", handlers.Stats.MonthOptions)
		r.Get("/groups/{id}/breakdown", handlers.Stats.MonthBreakdown)

		r.Get("/participants", handlers.Tracker.ListParticipants)
		r.Post("/participants", handlers.Tracker.CreateParticipant)
		r.Get("/participants/{id}", handlers.Tracker.GetParticipant)
		r.Put("/participants/{id}", handlers.Tracker.UpdateParticipant)
		r.Patch("/participants/{id}", handlers.Tracker.UpdateParticipant)
		r.Delete("/participants/{id}", handlers.Tracker.DeleteParticipant)

		r.Get("/contributions", handlers.Tracker.ListContributions)
		r.Post("/contributions", handlers.Tracker.CreateContribution)
		r.Get("/contributions/{id}", handlers.Tracker.GetContribution)
		r.Put("/contributions/{id}", handlers.Tracker.UpdateContribution)
		r.Patch("/contributions/{id}", handlers.Tracker.UpdateContribution)
		r.Delete("/contributions/{id}", handlers.Tracker.DeleteContribution)

		r.Get("/stats", handlers.Stats.AllGroupStats)
		r.Get("/dashboard", handlers.Stats.Dashboard)
		r.Get("/pending", handlers.Stats.Pending)
		r.Get("/trend", handlers.Stats.Trend)

		r.Get("/export", handlers.Transfer.Export)
		r.Post("/import", handlers.Transfer.Import)
		r.Post("/reset", handlers.Transfer.Reset)
	})

	return r
}
