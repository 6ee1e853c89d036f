package api

import (
	"net/http"
)

// dashboardHandler serves the dashboard page and its data.
type dashboardHandler struct {
	deps Dependencies
}

func newDashboardHandler(deps Dependencies) *dashboardHandler {
	return &dashboardHandler{deps: deps}
}

// HandlePage handles GET /dashboard with the embedded page, which renders
// /api/v1/dashboard as tables.
func (h *dashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, dashboardFS, "dashboard.html")
}

// HandleGetDashboard handles GET /api/v1/dashboard.
func (h *dashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}
	d, err := h.deps.Dashboard(r.Context(), sel)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
