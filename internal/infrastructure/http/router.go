package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/infrastructure/http/handlers"
	"github.com/leaguebase/leaguebase/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	OrganizationsHandler *handlers.OrganizationsHandler
	MembershipsHandler   *handlers.MembershipsHandler
	TasksHandler         *handlers.TasksHandler
	HealthHandler        *handlers.HealthHandler
	RequireAdmin         func(http.Handler) http.Handler // X-Leaguebase-Admin-Secret for /admin/*
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if cfg.OrganizationsHandler != nil {
		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", cfg.OrganizationsHandler.Create)
			r.Get("/", cfg.OrganizationsHandler.List)
			r.Route("/{orgID}", func(r chi.Router) {
				r.Get("/", cfg.OrganizationsHandler.Get)
				r.Post("/seasons", cfg.OrganizationsHandler.CreateSeason)
				r.Get("/seasons/active", cfg.OrganizationsHandler.GetActiveSeason)
				r.Post("/seasons/{seasonID}/activate", cfg.OrganizationsHandler.ActivateSeason)
				if cfg.MembershipsHandler != nil {
					r.Route("/memberships", func(r chi.Router) {
						r.Post("/", cfg.MembershipsHandler.Join)
						r.Route("/{membershipID}", func(r chi.Router) {
							r.Post("/approve", cfg.MembershipsHandler.Approve)
							r.Delete("/", cfg.MembershipsHandler.Remove)
							r.Post("/registrations", cfg.MembershipsHandler.RegisterForSeason)
						})
					})
				}
			})
		})
	}

	if cfg.TasksHandler != nil && cfg.RequireAdmin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.RequireAdmin)
			r.Post("/tasks/membership-sync", cfg.TasksHandler.TriggerMembershipSync)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
