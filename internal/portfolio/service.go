// Package portfolio serves the current catalog to transports and keeps the
// search index in step with it.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/query"
)

// Service holds the live catalog. The catalog itself is immutable; Reload
// swaps in a whole new value, so readers always see one consistent catalog.
type Service struct {
	src           catalog.Source
	db            index.ProjectIndex
	logger        *slog.Logger
	featuredLimit int

	current  atomic.Pointer[catalog.Catalog]
	reloadMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithFeaturedLimit sets the default number of featured projects.
func WithFeaturedLimit(n int) ServiceOption {
	return func(s *Service) { s.featuredLimit = n }
}

// NewService loads src and syncs db. A catalog that fails to load or validate
// is returned as an error; callers abort startup on it.
func NewService(src catalog.Source, db index.ProjectIndex, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		src:           src,
		db:            db,
		logger:        slog.Default(),
		featuredLimit: query.DefaultFeaturedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	cat, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("portfolio: load catalog: %w", err)
	}
	s.current.Store(cat)

	if _, err := index.Sync(db, cat, s.logger); err != nil {
		return nil, fmt.Errorf("portfolio: sync index: %w", err)
	}
	return s, nil
}

// Catalog returns the current catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.current.Load()
}

// Revision returns the current catalog revision.
func (s *Service) Revision() string {
	return s.Catalog().Revision()
}

// Modules returns the module universe.
func (s *Service) Modules(_ context.Context) []string {
	return s.Catalog().ModuleUniverse()
}

// ModuleCounts returns the number of projects in each module.
func (s *Service) ModuleCounts(_ context.Context) map[string]int {
	cat := s.Catalog()
	out := make(map[string]int, len(cat.ModuleUniverse()))
	for _, m := range cat.ModuleUniverse() {
		out[m] = query.CountProjects(cat, m, query.All, "")
	}
	return out
}

// Tags returns the tag universe.
func (s *Service) Tags(_ context.Context) []string {
	return s.Catalog().TagUniverse()
}

// Projects returns the projects matching sel's module, tag and query.
func (s *Service) Projects(_ context.Context, sel query.Selection) []models.Project {
	sel = sel.Normalize()
	return query.FilterProjects(s.Catalog(), sel.Module, sel.Tag, sel.Query)
}

// Featured returns up to limit featured projects; limit <= 0 uses the
// configured default and anything above query.MaxFeaturedLimit is capped.
func (s *Service) Featured(_ context.Context, limit int) []models.Project {
	return query.SelectFeatured(s.Catalog(), s.FeaturedCount(limit))
}

// FeaturedCount resolves a requested featured limit to the one Featured uses.
func (s *Service) FeaturedCount(limit int) int {
	if limit <= 0 {
		return s.featuredLimit
	}
	return min(limit, query.MaxFeaturedLimit)
}

// Project returns the project with id, or apperr.ErrNotFound.
func (s *Service) Project(_ context.Context, id string) (models.Project, error) {
	p, ok := query.FindProjectByID(s.Catalog(), id)
	if !ok {
		return models.Project{}, apperr.ErrNotFound
	}
	return p, nil
}

// ProjectVersion returns the project with id and its content digest, both
// read from the same catalog snapshot.
func (s *Service) ProjectVersion(_ context.Context, id string) (models.Project, string, error) {
	cat := s.Catalog()
	p, ok := cat.Lookup(id)
	if !ok {
		return models.Project{}, "", apperr.ErrNotFound
	}
	sum, err := index.ProjectChecksum(cat.Position(id), p)
	if err != nil {
		return models.Project{}, "", fmt.Errorf("portfolio: checksum %s: %w", id, err)
	}
	return p, sum, nil
}

// IndexedCount returns the number of projects in the search index.
func (s *Service) IndexedCount(_ context.Context) (int, error) {
	return s.db.Count()
}

// View computes the full derived view for sel.
func (s *Service) View(_ context.Context, sel query.Selection) query.View {
	return query.Compute(s.Catalog(), sel, s.featuredLimit)
}

// Dispatch applies action to sel and returns the new selection and its view.
// Both are computed against the same catalog snapshot.
func (s *Service) Dispatch(_ context.Context, sel query.Selection, action query.Action) (query.Selection, query.View) {
	cat := s.Catalog()
	next := query.Reduce(cat, sel, action)
	return next, query.Compute(cat, next, s.featuredLimit)
}

// Search runs a long-form text search through the index.
func (s *Service) Search(_ context.Context, q string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(q, limit)
}

// Reload re-reads the source. On failure the previous catalog keeps serving
// and the error is returned; only startup treats an invalid catalog as fatal.
func (s *Service) Reload(_ context.Context) (index.Changes, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cat, err := s.src.Load()
	if err != nil {
		s.logger.Warn("reload: keeping previous catalog",
			slog.String("revision", s.Revision()),
			slog.String("error", err.Error()))
		return index.Changes{}, fmt.Errorf("portfolio: reload: %w", err)
	}

	// Sync before swapping so a failed sync leaves the previous catalog live.
	changes, err := index.Sync(s.db, cat, s.logger)
	if err != nil {
		s.logger.Warn("reload: index sync failed, keeping previous catalog",
			slog.String("revision", s.Revision()),
			slog.String("error", err.Error()))
		return index.Changes{}, fmt.Errorf("portfolio: sync index: %w", err)
	}
	prev := s.current.Swap(cat)

	if prev.Revision() != cat.Revision() || !changes.Empty() {
		s.logger.Info("catalog reloaded",
			slog.String("revision", cat.Revision()),
			slog.Int("projects", cat.Len()),
			slog.Int("added", len(changes.Added)),
			slog.Int("updated", len(changes.Updated)),
			slog.Int("removed", len(changes.Removed)))
	}
	return changes, nil
}
