package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/filterexpr"
	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/server"
	"github.com/HerbHall/roster/internal/table"
)

// ListResponse is the response for GET /api/v1/characters.
type ListResponse struct {
	table.View
	// Query is the canonical query string for the (clamped) state.
	Query  string `json:"query"`
	Filter string `json:"filter,omitempty"`
}

// SuggestResponse is the response for GET /api/v1/characters/suggest.
type SuggestResponse struct {
	Query       string       `json:"q"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Handler serves the character JSON API.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a new character API handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/characters", h.handleList)
	mux.HandleFunc("GET /api/v1/characters/suggest", h.handleSuggest)
	mux.HandleFunc("GET /api/v1/characters/{id}", h.handleGet)
}

// handleList returns one page of the filtered, sorted table.
//
//	@Summary		Query characters
//	@Description	Filters, sorts and paginates the character table. Parameters mirror the HTML view's URL state; invalid values fall back to defaults.
//	@Tags			characters
//	@Produce		json
//	@Param			searchField query string false "name, fullname, powerstats, race, gender, height, weight, placeofbirth, alignment" default(name)
//	@Param			searchOperator query string false "include, exclude, equal, notEqual, greaterThan, lessThan" default(include)
//	@Param			searchValue query string false "Search text"
//	@Param			sortColumn query string false "Column to sort by"
//	@Param			sortOrder query string false "asc or desc" default(asc)
//	@Param			pageSize query string false "10, 20, 50, 100 or all" default(20)
//	@Param			page query int false "1-based page, clamped to the last page" default(1)
//	@Param			filter query string false "AIP-160 expression, e.g. strength >= 80"
//	@Success		200 {object} ListResponse
//	@Failure		400 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/characters [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := query.Decode(q)
	filter := q.Get("filter")

	view, err := h.svc.Query(r.Context(), st, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		View:   view,
		Query:  view.State.Encode(),
		Filter: filter,
	})
}

// handleGet returns a single character.
//
//	@Summary		Get character
//	@Tags			characters
//	@Produce		json
//	@Param			id path int true "Character ID"
//	@Success		200 {object} models.Character
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/characters/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		server.BadRequest(w, "id must be an integer", r.URL.Path)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleSuggest returns fuzzy name matches for type-ahead search.
//
//	@Summary		Suggest character names
//	@Tags			characters
//	@Produce		json
//	@Param			q query string true "Partial name"
//	@Param			limit query int false "Maximum suggestions (1-50)" default(10)
//	@Success		200 {object} SuggestResponse
//	@Failure		400 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/characters/suggest [get]
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := DefaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > MaxSuggestLimit {
			server.BadRequest(w, "limit must be an integer between 1 and 50", r.URL.Path)
			return
		}
		limit = parsed
	}

	suggestions, err := h.svc.Suggest(r.Context(), q, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Query: q, Suggestions: suggestions})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, filterexpr.ErrInvalid):
		server.BadRequest(w, err.Error(), r.URL.Path)
	case errors.Is(err, ErrNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	case errors.Is(err, ErrNotLoaded):
		server.ServiceUnavailable(w, "character data is unavailable", r.URL.Path)
	default:
		h.logger.Error("character query failed", zap.Error(err), zap.String("path", r.URL.Path))
		server.InternalError(w, "failed to query characters", r.URL.Path)
	}
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
