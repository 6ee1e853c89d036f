package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/iplstats/internal/app"
)

// ViewsHandler serves individual views and selector options.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleOptions handles GET /api/v1/options.
func (h *ViewsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleListViews handles GET /api/v1/views.
func (h *ViewsHandler) HandleListViews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"views":         service.Views(),
		"parameterised": {service.ViewPlayer, service.ViewCompare},
	})
}

// HandleGetView handles GET /api/v1/views/{view}.
func (h *ViewsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	name := strings.TrimSpace(chi.URLParam(r, "view"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}
	res, err := h.deps.View(r.Context(), name, sel)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetPlayer handles GET /api/v1/players/{name}.
func (h *ViewsHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}
	res, err := h.deps.Player(r.Context(), sel, chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCompare handles GET /api/v1/compare?team1=&team2=.
func (h *ViewsHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	q, err := parseCompare(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
		return
	}
	res, err := h.deps.Compare(r.Context(), sel, q.Team1, q.Team2)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
