// Package catalog holds the immutable, validated list of projects and the
// module and tag universes derived from it.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
)

// Catalog is a validated, read-only project list. A Catalog is never mutated
// after New returns; a changed catalog is a new value. Callers must treat the
// returned records and their slices as read-only.
type Catalog struct {
	projects []models.Project
	byID     map[string]int
	modules  []string
	tags     []string
	revision string
}

// New validates projects against modules and freezes them into a Catalog.
//
// When modules is empty the module universe is derived from the projects in
// first-seen order. Any violation returns an error wrapping
// apperr.ErrInvalidCatalog; callers at startup should abort on it.
func New(modules []string, projects []models.Project) (*Catalog, error) {
	universe, err := moduleUniverse(modules, projects)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		projects: make([]models.Project, len(projects)),
		byID:     make(map[string]int, len(projects)),
		modules:  universe,
	}

	allowed := make([]any, len(universe))
	for i, m := range universe {
		allowed[i] = m
	}

	for i, p := range projects {
		if err := validateProject(p, allowed); err != nil {
			return nil, invalid("project #%d (id %q): %v", i, p.ID, err)
		}
		if prev, dup := c.byID[p.ID]; dup {
			return nil, invalid("duplicate project id %q at #%d and #%d", p.ID, prev, i)
		}
		c.byID[p.ID] = i
		c.projects[i] = normalize(p)
	}

	c.tags = tagUniverse(c.projects)

	rev, err := checksum.JSON(struct {
		Modules  []string         `json:"modules"`
		Projects []models.Project `json:"projects"`
	}{c.modules, c.projects})
	if err != nil {
		return nil, fmt.Errorf("catalog: revision: %w", err)
	}
	c.revision = rev

	return c, nil
}

// MustNew is New for statically known catalogs; it panics on violation.
func MustNew(modules []string, projects []models.Project) *Catalog {
	c, err := New(modules, projects)
	if err != nil {
		panic(err)
	}
	return c
}

// ListProjects returns every project in insertion order.
func (c *Catalog) ListProjects() []models.Project {
	return slices.Clone(c.projects)
}

// ModuleUniverse returns the distinct module values in declaration order.
func (c *Catalog) ModuleUniverse() []string {
	return slices.Clone(c.modules)
}

// TagUniverse returns the sorted, deduplicated union of every project's tags.
func (c *Catalog) TagUniverse() []string {
	return slices.Clone(c.tags)
}

// Lookup returns the project with the given id. The empty id never matches.
func (c *Catalog) Lookup(id string) (models.Project, bool) {
	if id == "" {
		return models.Project{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return models.Project{}, false
	}
	return c.projects[i], true
}

// Position returns the insertion index of id, or -1.
func (c *Catalog) Position(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Revision is a content digest of modules and projects.
func (c *Catalog) Revision() string {
	return c.revision
}

// Each calls fn for every project in insertion order without copying the list.
func (c *Catalog) Each(fn func(i int, p models.Project)) {
	for i, p := range c.projects {
		fn(i, p)
	}
}

func moduleUniverse(declared []string, projects []models.Project) ([]string, error) {
	out := make([]string, 0, len(declared))
	seen := make(map[string]struct{}, len(declared))

	if len(declared) > 0 {
		for _, m := range declared {
			if m == "" {
				return nil, invalid("empty module name in module universe")
			}
			if _, dup := seen[m]; dup {
				return nil, invalid("duplicate module %q in module universe", m)
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
		return out, nil
	}

	for _, p := range projects {
		if p.Module == "" {
			continue
		}
		if _, ok := seen[p.Module]; ok {
			continue
		}
		seen[p.Module] = struct{}{}
		out = append(out, p.Module)
	}
	return out, nil
}

func tagUniverse(projects []models.Project) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range projects {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	slices.Sort(out)
	if out == nil {
		out = []string{}
	}
	return out
}

func validateProject(p models.Project, modules []any) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Module, validation.Required, validation.In(modules...).Error("is not a declared module")),
		validation.Field(&p.Status, validation.By(validStatus)),
		validation.Field(&p.FeaturedRank, validation.By(positiveRank)),
		validation.Field(&p.Evidence),
		validation.Field(&p.Sections),
	)
}

func validStatus(value any) error {
	s, _ := value.(*models.Status)
	if s == nil {
		return nil
	}
	switch *s {
	case models.StatusReady, models.StatusWIP:
		return nil
	}
	return fmt.Errorf("must be %q or %q", models.StatusReady, models.StatusWIP)
}

func positiveRank(value any) error {
	r, _ := value.(*int)
	if r != nil && *r < 1 {
		return errors.New("must be a positive integer")
	}
	return nil
}

// normalize replaces nil required sequences with empty ones so every record
// serializes them as [] rather than null.
func normalize(p models.Project) models.Project {
	p.CoreSkills = nonNil(p.CoreSkills)
	p.SuggestedMetrics = nonNil(p.SuggestedMetrics)
	p.Deliverables = nonNil(p.Deliverables)
	p.Tags = nonNil(p.Tags)
	if p.Evidence == nil {
		p.Evidence = []models.LinkItem{}
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidCatalog, fmt.Sprintf(format, args...))
}
