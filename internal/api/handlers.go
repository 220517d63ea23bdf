package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/query"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *portfolio.Service
	onReload portfolio.EventCallback
}

// NewHandler creates a new Handler. onReload, if non-nil, receives the
// changes of a manual reload.
func NewHandler(svc *portfolio.Service, onReload portfolio.EventCallback) *Handler {
	return &Handler{svc: svc, onReload: onReload}
}

func selectionFrom(r *http.Request) query.Selection {
	q := r.URL.Query()
	return query.Selection{
		Module:     q.Get("module"),
		Tag:        q.Get("tag"),
		Query:      q.Get("q"),
		SelectedID: q.Get("selected"),
	}.Normalize()
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List projects filtered by module, tag and text
//	@Tags			projects
//	@Produce		json
//	@Param			module	query		string	false	"Module, or All"
//	@Param			tag		query		string	false	"Exact tag, or All"
//	@Param			q		query		string	false	"Case-insensitive substring of title, subtitle and tags"
//	@Success		200		{object}	ProjectListResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.svc.Projects(r.Context(), selectionFrom(r))
	writeJSON(w, http.StatusOK, ProjectListResponse{
		Projects: newCards(projects),
		Total:    len(projects),
	})
}

// GetProject handles GET /api/projects/{id}.
//
//	@Summary		Get a single project by id
//	@Tags			projects
//	@Produce		json
//	@Param			id				path		string	true	"Project id"
//	@Param			If-None-Match	header		string	false	"ETag from a previous response"
//	@Success		200				{object}	ProjectDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, sum, err := h.svc.ProjectVersion(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get project failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	w.Header().Set("ETag", `"`+sum+`"`)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == sum {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, newDetail(p))
}

// Featured handles GET /api/featured.
//
//	@Summary		Featured projects by ascending rank
//	@Tags			projects
//	@Produce		json
//	@Param			limit	query		int	false	"Max projects (default from config, capped at 50)"
//	@Success		200		{object}	FeaturedResponse
//	@Security		BearerAuth
//	@Router			/featured [get]
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	requested, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	limit := h.svc.FeaturedCount(requested)
	projects := h.svc.Featured(r.Context(), limit)
	resp := FeaturedResponse{Projects: newCards(projects)}
	if len(projects) == 0 {
		resp.Placeholders = limit
	}
	writeJSON(w, http.StatusOK, resp)
}

// Modules handles GET /api/modules.
//
//	@Summary		Module universe
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ModulesResponse
//	@Security		BearerAuth
//	@Router			/modules [get]
func (h *Handler) Modules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModulesResponse{
		Modules: h.svc.Modules(r.Context()),
		Counts:  h.svc.ModuleCounts(r.Context()),
	})
}

// Tags handles GET /api/tags.
//
//	@Summary		Tag universe, sorted
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TagsResponse{Tags: h.svc.Tags(r.Context())})
}

// Catalog handles GET /api/catalog.
//
//	@Summary		Catalog summary
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Security		BearerAuth
//	@Router			/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat := h.svc.Catalog()
	featured := 0
	cat.Each(func(_ int, p models.Project) {
		if p.Featured() {
			featured++
		}
	})
	indexed, err := h.svc.IndexedCount(r.Context())
	if err != nil {
		slog.Error("count indexed projects failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CatalogResponse{
		Revision: cat.Revision(),
		Indexed:  indexed,
		Projects: cat.Len(),
		Modules:  len(cat.ModuleUniverse()),
		Tags:     len(cat.TagUniverse()),
		Featured: featured,
	})
}

// GetView handles GET /api/view.
//
//	@Summary		Compute the view for a selection
//	@Tags			view
//	@Produce		json
//	@Param			module		query		string	false	"Module, or All"
//	@Param			tag			query		string	false	"Tag, or All"
//	@Param			q			query		string	false	"Search text"
//	@Param			selected	query		string	false	"Open project id"
//	@Success		200			{object}	query.View
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.View(r.Context(), selectionFrom(r)))
}

// Dispatch handles POST /api/view.
//
//	@Summary		Apply an action to a selection
//	@Tags			view
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ViewRequest	true	"Current state and action"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view [post]
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	state, view := h.svc.Dispatch(r.Context(), req.State, req.Action)
	writeJSON(w, http.StatusOK, ViewResponse{State: state, View: view})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across project write-ups
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Reload handles POST /api/reload.
//
//	@Summary		Re-read the catalog source
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	ReloadResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	changes, err := h.svc.Reload(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCatalog) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		} else {
			slog.Error("reload failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	revision := h.svc.Revision()
	portfolio.Notify(changes, revision, h.onReload)
	writeJSON(w, http.StatusOK, ReloadResponse{
		Revision: revision,
		Added:    nonNil(changes.Added),
		Updated:  nonNil(changes.Updated),
		Removed:  nonNil(changes.Removed),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
