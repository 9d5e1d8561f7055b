// Package api is the HTTP interface of the capital match service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"capital-match/internal/common/logger"
	"capital-match/internal/dashboard"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
	"capital-match/internal/zoning"
)

// HealthChecker reports per-backend readiness; "ok" means healthy.
type HealthChecker interface {
	Check(ctx context.Context) map[string]string
}

type Deps struct {
	Dashboard      *dashboard.Dashboard
	Searcher       fixtures.DealSearcher
	Engine         matching.Engine
	Sessions       *SessionStore
	Health         HealthChecker
	Logger         logger.Logger
	AllowedOrigins []string
}

type handlers struct {
	Deps
	log logger.Logger
}

// NewRouter builds the route tree.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}
	if d.Searcher == nil {
		d.Searcher = fixtures.NewMemorySearcher(d.Dashboard.Catalog())
	}
	h := &handlers{Deps: d, log: logger.Component(d.Logger, "api")}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(Metrics)
	r.Use(RequestLogging(d.Logger, "/health", "/ready", "/metrics"))

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Handle("/metrics", promhttp.Handler())

	// the descriptor sets its own CORS headers
	r.Method(http.MethodGet, "/api/openapi/zoning", zoning.Handler())
	r.Method(http.MethodHead, "/api/openapi/zoning", zoning.Handler())
	r.Method(http.MethodOptions, "/api/openapi/zoning", zoning.Handler())
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/api/openapi/zoning" {
			zoning.Handler().ServeHTTP(w, req)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	r.Group(func(api chi.Router) {
		api.Use(CORS(DefaultCORSConfig(d.AllowedOrigins)))
		api.Options("/api/*", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		api.Get("/api/dashboard", h.getDashboard)

		api.Get("/api/lps", h.listLPs)
		api.Get("/api/lps/{id}", h.getLP)
		api.Get("/api/deals", h.listDeals)
		api.Get("/api/deals/search", h.searchDeals)
		api.Get("/api/deals/{id}", h.getDeal)
		api.Get("/api/matches", h.listMatches)

		api.Route("/api/sessions", func(sr chi.Router) {
			sr.Post("/", h.createSession)
			sr.Route("/{id}", func(s chi.Router) {
				s.Get("/", h.getSession)
				s.Delete("/", h.deleteSession)
				s.Get("/diagram.svg", h.getDiagramSVG)
				s.Put("/selection", h.putSelection)
				s.Post("/refresh", h.refresh)
				s.Post("/factors/{factor}/click", h.clickFactor)
				s.Post("/simulation/toggle", h.toggleSimulation)
				s.Patch("/simulation/params", h.patchSimulationParams)
				s.Post("/simulation/run", h.runSimulation)
			})
		})
	})

	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	}
	status := http.StatusOK
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := h.Health.Check(ctx)
		for _, v := range checks {
			if v != "ok" {
				status = http.StatusServiceUnavailable
				body["status"] = "not ready"
			}
		}
		body["checks"] = checks
	}
	writeJSON(w, status, body)
}
