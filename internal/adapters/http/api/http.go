// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	service "github.com/okian/iplstats/internal/app"
	"github.com/okian/iplstats/internal/domain/filter"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Options(ctx context.Context) (filter.Options, error)
	View(ctx context.Context, name string, sel filter.Selection) (*service.ViewResult, error)
	Dashboard(ctx context.Context, sel filter.Selection) (*service.Dashboard, error)
	Player(ctx context.Context, sel filter.Selection, name string) (*service.ViewResult, error)
	Compare(ctx context.Context, sel filter.Selection, team1, team2 string) (*service.ViewResult, error)
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *dashboardHandler
	viewsHandler     *ViewsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: newDashboardHandler(deps),
		viewsHandler:     NewViewsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/dashboard", s.dashboardHandler.HandlePage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", MetricsMiddleware(s.viewsHandler.HandleOptions, "options"))
		r.Get("/views", MetricsMiddleware(s.viewsHandler.HandleListViews, "views"))
		r.Get("/views/{view}", MetricsMiddleware(s.viewsHandler.HandleGetView, "view"))
		r.Get("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleGetDashboard, "dashboard"))
		r.Get("/players/{name}", MetricsMiddleware(s.viewsHandler.HandleGetPlayer, "player"))
		r.Get("/compare", MetricsMiddleware(s.viewsHandler.HandleCompare, "compare"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service error kinds to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownView), errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
