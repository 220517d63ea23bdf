package api

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/query"
)

// Card display caps. The full arrays are only returned by the detail route.
const (
	cardTags         = 6
	cardCoreSkills   = 4
	cardMetrics      = 3
	cardDeliverables = 3
)

// ProjectCard is the compact listing form of a project.
type ProjectCard struct {
	ID               string         `json:"id" example:"P1" validate:"required"`
	Module           string         `json:"module" example:"Vibe Coding" validate:"required"`
	Category         string         `json:"category" example:"Category A"`
	Title            string         `json:"title" example:"Speech pipeline"`
	Subtitle         string         `json:"subtitle" example:"Batch transcription"`
	Description      string         `json:"description"`
	CoreSkills       []string       `json:"coreSkills" validate:"required"`
	SuggestedMetrics []string       `json:"suggestedMetrics" validate:"required"`
	Deliverables     []string       `json:"deliverables" validate:"required"`
	Tags             []string       `json:"tags" validate:"required"`
	Status           *models.Status `json:"status,omitempty" example:"Ready"`
	FeaturedRank     *int           `json:"featuredRank,omitempty" example:"1"`
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func newCard(p models.Project) ProjectCard {
	return ProjectCard{
		ID:               p.ID,
		Module:           p.Module,
		Category:         p.Category,
		Title:            p.Title,
		Subtitle:         p.Subtitle,
		Description:      p.Description,
		CoreSkills:       head(p.CoreSkills, cardCoreSkills),
		SuggestedMetrics: head(p.SuggestedMetrics, cardMetrics),
		Deliverables:     head(p.Deliverables, cardDeliverables),
		Tags:             head(p.Tags, cardTags),
		Status:           p.Status,
		FeaturedRank:     p.FeaturedRank,
	}
}

func newCards(ps []models.Project) []ProjectCard {
	out := make([]ProjectCard, 0, len(ps))
	for _, p := range ps {
		out = append(out, newCard(p))
	}
	return out
}

var externalHref = regexp.MustCompile(`(?i)^https?://`)

// EvidenceLink is a LinkItem annotated for rendering: External links open in
// a new tab.
type EvidenceLink struct {
	Label    string `json:"label" example:"Repo" validate:"required"`
	Href     string `json:"href" example:"https://github.com/example/speech" validate:"required"`
	External bool   `json:"external" example:"true"`
}

func newEvidence(items []models.LinkItem) []EvidenceLink {
	out := make([]EvidenceLink, 0, len(items))
	for _, it := range items {
		out = append(out, EvidenceLink{Label: it.Label, Href: it.Href, External: externalHref.MatchString(it.Href)})
	}
	return out
}

// ProjectDetail is the full project as shown in the detail drawer.
type ProjectDetail struct {
	models.Project
	Evidence []EvidenceLink `json:"evidence" validate:"required"`
}

func newDetail(p models.Project) ProjectDetail {
	return ProjectDetail{Project: p, Evidence: newEvidence(p.Evidence)}
}

// ProjectListResponse wraps a filtered listing.
type ProjectListResponse struct {
	Projects []ProjectCard `json:"projects" validate:"required"`
	Total    int           `json:"total" example:"6" validate:"required"`
}

// FeaturedResponse wraps the featured selection. Placeholders is a display
// hint: the number of skeleton cards to render when nothing is ranked.
type FeaturedResponse struct {
	Projects     []ProjectCard `json:"projects" validate:"required"`
	Placeholders int           `json:"placeholders" example:"0"`
}

// ModulesResponse lists the module universe in declaration order.
type ModulesResponse struct {
	Modules []string       `json:"modules" example:"Vibe Coding,AI Workflow" validate:"required"`
	Counts  map[string]int `json:"counts" validate:"required"`
}

// TagsResponse lists the tag universe, sorted.
type TagsResponse struct {
	Tags []string `json:"tags" example:"API,ML" validate:"required"`
}

// CatalogResponse summarizes the loaded catalog.
type CatalogResponse struct {
	Revision string `json:"revision" example:"3f2a..." validate:"required"`
	Projects int    `json:"projects" example:"6"`
	Modules  int    `json:"modules" example:"2"`
	Tags     int    `json:"tags" example:"24"`
	Featured int    `json:"featured" example:"2"`
	Indexed  int    `json:"indexed" example:"6"`
}

// SearchResponse wraps deep-search hits.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// ViewRequest applies one action to a client-held selection.
type ViewRequest struct {
	State  query.Selection `json:"state"`
	Action query.Action    `json:"action" validate:"required"`
}

var actionKinds = []any{
	query.ActionSetModule,
	query.ActionSetTag,
	query.ActionSetQuery,
	query.ActionOpenProject,
	query.ActionCloseProject,
	query.ActionResetFilters,
}

// Validate checks the action kind, and that open_project names an id.
func (r ViewRequest) Validate() error {
	return validation.ValidateStruct(&r.Action,
		validation.Field(&r.Action.Kind, validation.Required, validation.In(actionKinds...)),
		validation.Field(&r.Action.Value, validation.When(r.Action.Kind == query.ActionOpenProject, validation.Required)),
	)
}

// ViewResponse carries the next selection and its computed view.
type ViewResponse struct {
	State query.Selection `json:"state"`
	View  query.View      `json:"view"`
}

// ReloadResponse reports what a manual reload changed.
type ReloadResponse struct {
	Revision string   `json:"revision" validate:"required"`
	Added    []string `json:"added"`
	Updated  []string `json:"updated"`
	Removed  []string `json:"removed"`
}
