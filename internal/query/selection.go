package query

import (
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
)

// Selection is the user-chosen filter, search, and detail state. It is a plain
// value: every transition produces a new Selection.
type Selection struct {
	Module     string `json:"activeModule"`
	Tag        string `json:"activeTag"`
	Query      string `json:"searchQuery"`
	SelectedID string `json:"selectedProjectId,omitempty"`
}

// DefaultSelection is the "no filter, nothing open" state a view starts in.
func DefaultSelection() Selection {
	return Selection{Module: All, Tag: All}
}

// Normalize fills blank module and tag with All.
func (s Selection) Normalize() Selection {
	if s.Module == "" {
		s.Module = All
	}
	if s.Tag == "" {
		s.Tag = All
	}
	return s
}

// ActionKind names a discrete user action.
type ActionKind string

const (
	ActionSetModule    ActionKind = "set_module"
	ActionSetTag       ActionKind = "set_tag"
	ActionSetQuery     ActionKind = "set_query"
	ActionOpenProject  ActionKind = "open_project"
	ActionCloseProject ActionKind = "close_project"
	ActionResetFilters ActionKind = "reset_filters"
)

// Action is one user input. Value carries the module, tag, query, or project
// id, depending on Kind.
type Action struct {
	Kind  ActionKind `json:"type"`
	Value string     `json:"value,omitempty"`
}

// Reduce applies a to s. It never fails: unknown kinds return s unchanged.
//
// Opening a project whose id does not resolve in c leaves the detail closed;
// there is no "open with empty content" state.
func Reduce(c *catalog.Catalog, s Selection, a Action) Selection {
	s = s.Normalize()
	switch a.Kind {
	case ActionSetModule:
		s.Module = orAll(a.Value)
	case ActionSetTag:
		s.Tag = orAll(a.Value)
	case ActionSetQuery:
		s.Query = a.Value
	case ActionOpenProject:
		if _, ok := c.Lookup(a.Value); ok {
			s.SelectedID = a.Value
		} else {
			s.SelectedID = ""
		}
	case ActionCloseProject:
		s.SelectedID = ""
	case ActionResetFilters:
		s.Module, s.Tag, s.Query = All, All, ""
	}
	return s
}

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}

// DetailState is the state of the detail drawer.
type DetailState string

const (
	DetailClosed DetailState = "closed"
	DetailOpen   DetailState = "open"
)

// Detail is the detail drawer: Closed, or Open with exactly one project.
type Detail struct {
	State   DetailState     `json:"state"`
	Project *models.Project `json:"project,omitempty"`
}

// DetailFor resolves the selection's open project. A selected id that no
// longer resolves (for example after a catalog reload) reads as Closed.
func DetailFor(c *catalog.Catalog, s Selection) Detail {
	p, ok := FindProjectByID(c, s.SelectedID)
	if !ok {
		return Detail{State: DetailClosed}
	}
	return Detail{State: DetailOpen, Project: &p}
}

// View is everything the presentation layer renders for one selection.
type View struct {
	Selection Selection        `json:"selection"`
	Modules   []string         `json:"modules"`
	Tags      []string         `json:"tags"`
	Projects  []models.Project `json:"projects"`
	Count     int              `json:"count"`
	Featured  []models.Project `json:"featured"`
	Detail    Detail           `json:"detail"`
}

// Compute derives the full view for s.
func Compute(c *catalog.Catalog, s Selection, featuredLimit int) View {
	s = s.Normalize()
	projects := FilterProjects(c, s.Module, s.Tag, s.Query)
	return View{
		Selection: s,
		Modules:   c.ModuleUniverse(),
		Tags:      c.TagUniverse(),
		Projects:  projects,
		Count:     len(projects),
		Featured:  SelectFeatured(c, featuredLimit),
		Detail:    DetailFor(c, s),
	}
}
