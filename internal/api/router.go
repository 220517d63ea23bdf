package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/portfolio"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// onReload receives the changes of POST /reload.
func NewRouter(svc *portfolio.Service, authEnabled bool, token string, sseHandler http.Handler, onReload portfolio.EventCallback) chi.Router {
	h := NewHandler(svc, onReload)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{id}", h.GetProject)
	r.Get("/featured", h.Featured)

	r.Get("/modules", h.Modules)
	r.Get("/tags", h.Tags)
	r.Get("/catalog", h.Catalog)
	r.Post("/reload", h.Reload)

	r.Get("/view", h.GetView)
	r.Post("/view", h.Dispatch)

	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
