// Package models defines the domain types for folio.
package models

// Status is the optional readiness badge of a project.
type Status string

const (
	StatusReady Status = "Ready"
	StatusWIP   Status = "WIP"
)

// LinkItem is an external reference attached to a project. Href is either an
// absolute URL or a root-relative path; the model does not distinguish them.
type LinkItem struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

// Sections is the expanded write-up shown in the detail view.
type Sections struct {
	Goal         string     `json:"goal,omitempty" yaml:"goal,omitempty"`
	Pipeline     []string   `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	HardProblems []string   `json:"hardProblems,omitempty" yaml:"hardProblems,omitempty"`
	Outcomes     []string   `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Repro        []string   `json:"repro,omitempty" yaml:"repro,omitempty"`
	Evidence     []LinkItem `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Project is one portfolio entry.
//
// Empty text fields mean the content has not been written yet. Status and
// FeaturedRank are optional: nil means unspecified, not a default value.
type Project struct {
	ID               string     `json:"id" yaml:"id"`
	Module           string     `json:"module" yaml:"module"`
	Category         string     `json:"category" yaml:"category"`
	Title            string     `json:"title" yaml:"title"`
	Subtitle         string     `json:"subtitle" yaml:"subtitle"`
	Description      string     `json:"description" yaml:"description"`
	CoreSkills       []string   `json:"coreSkills" yaml:"coreSkills"`
	Evidence         []LinkItem `json:"evidence" yaml:"evidence"`
	SuggestedMetrics []string   `json:"suggestedMetrics" yaml:"suggestedMetrics"`
	Deliverables     []string   `json:"deliverables" yaml:"deliverables"`
	Tags             []string   `json:"tags" yaml:"tags"`
	Status           *Status    `json:"status,omitempty" yaml:"status,omitempty"`
	FeaturedRank     *int       `json:"featuredRank,omitempty" yaml:"featuredRank,omitempty"`
	ProofPoints      []string   `json:"proofPoints,omitempty" yaml:"proofPoints,omitempty"`
	Sections         *Sections  `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Featured reports whether the project carries a featured rank.
func (p Project) Featured() bool {
	return p.FeaturedRank != nil
}

// HasTag reports exact, case-sensitive membership of tag in p.Tags.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
