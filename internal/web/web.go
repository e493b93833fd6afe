// Package web renders the character table as server-side HTML. Every
// interactive element is a plain link or GET form whose URL is a serialized
// query.State, so the browser's address bar always holds the full view.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/roster"
	"github.com/HerbHall/roster/internal/table"
	"github.com/HerbHall/roster/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTitle is the page heading when none is configured.
const DefaultTitle = "Superhero Roster"

// Notices shown above the table.
const (
	noticeUnavailable  = "Character data is unavailable. The data source could not be loaded."
	noticeNotFound     = "Character not found."
	noticeLookupFailed = "The character could not be loaded."
	noticeTableFailed  = "The table could not be rendered."
)

// Querier is the subset of roster.Service the view needs.
type Querier interface {
	Query(ctx context.Context, st query.State, filter string) (table.View, error)
	Get(ctx context.Context, id int) (models.Character, error)
}

// Handler serves the HTML table view.
type Handler struct {
	svc       Querier
	title     string
	columns   []ColumnDef
	operators []OperatorDef
	tmpl      *template.Template
	logger    *zap.Logger
}

// NewHandler parses the embedded templates and layout.
func NewHandler(svc Querier, title string, logger *zap.Logger) (*Handler, error) {
	layout := NewLayout()
	columns, err := layout.Columns()
	if err != nil {
		return nil, err
	}
	operators, err := layout.Operators()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if title == "" {
		title = DefaultTitle
	}
	return &Handler{
		svc:       svc,
		title:     title,
		columns:   columns,
		operators: operators,
		tmpl:      tmpl,
		logger:    logger,
	}, nil
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleTable)
	mux.HandleFunc("GET /characters/{id}", h.handleDetail)
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	page, status := h.tablePage(r)
	h.render(w, status, page)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	page, status := h.tablePage(r)
	if status != http.StatusOK {
		h.render(w, status, page)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		page.Notice = noticeNotFound
		h.render(w, http.StatusNotFound, page)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, roster.ErrNotFound):
		page.Notice = noticeNotFound
		h.render(w, http.StatusNotFound, page)
		return
	case err != nil:
		h.logger.Error("character lookup failed", zap.Int("id", id), zap.Error(err))
		page.Notice = noticeLookupFailed
		h.render(w, http.StatusInternalServerError, page)
		return
	}
	page.Detail = buildDetail(&c)
	h.render(w, http.StatusOK, page)
}

// tablePage runs the query for the request's state. A store that failed to
// load yields an empty table with a notice and 503.
func (h *Handler) tablePage(r *http.Request) (Page, int) {
	st := query.Decode(r.URL.Query())
	view, err := h.svc.Query(r.Context(), st, "")
	if err == nil {
		return buildPage(h.title, h.columns, h.operators, view), http.StatusOK
	}

	status := http.StatusInternalServerError
	notice := noticeTableFailed
	if errors.Is(err, roster.ErrNotLoaded) {
		status = http.StatusServiceUnavailable
		notice = noticeUnavailable
	} else {
		h.logger.Error("table query failed", zap.Error(err))
	}
	empty := table.View{
		Page:  table.Page{Items: []models.Character{}, Page: 1, PageSize: st.PageSize, TotalPages: 1},
		State: st.WithPage(1),
	}
	page := buildPage(h.title, h.columns, h.operators, empty)
	page.Notice = notice
	return page, status
}

func (h *Handler) render(w http.ResponseWriter, status int, page Page) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
