package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

func rank(n int) *int { return &n }

func status(s models.Status) *models.Status { return &s }

func TestNew_ListPreservesOrder(t *testing.T) {
	c, err := New([]string{"A", "B"}, []models.Project{
		{ID: "x", Module: "B"},
		{ID: "a", Module: "A"},
		{ID: "m", Module: "A"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var ids []string
	for _, p := range c.ListProjects() {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"x", "a", "m"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestNew_TagUniverseSortedDistinct(t *testing.T) {
	c := MustNew(nil, []models.Project{
		{ID: "1", Module: "A", Tags: []string{"b", "a", "Z"}},
		{ID: "2", Module: "A", Tags: []string{"a", "c"}},
		{ID: "3", Module: "A"},
	})
	want := []string{"Z", "a", "b", "c"}
	if diff := cmp.Diff(want, c.TagUniverse()); diff != "" {
		t.Errorf("tag universe (-want +got):\n%s", diff)
	}
}

func TestNew_TagUniverseEmpty(t *testing.T) {
	c := MustNew(nil, nil)
	if got := c.TagUniverse(); got == nil || len(got) != 0 {
		t.Errorf("TagUniverse = %#v, want empty non-nil", got)
	}
}

func TestNew_ModuleUniverseDerivedWhenUndeclared(t *testing.T) {
	c := MustNew(nil, []models.Project{
		{ID: "1", Module: "AI Workflow"},
		{ID: "2", Module: "Vibe Coding"},
		{ID: "3", Module: "AI Workflow"},
	})
	want := []string{"AI Workflow", "Vibe Coding"}
	if diff := cmp.Diff(want, c.ModuleUniverse()); diff != "" {
		t.Errorf("module universe (-want +got):\n%s", diff)
	}
}

func TestNew_DeclaredModuleWithoutProjects(t *testing.T) {
	c := MustNew([]string{"A", "Unused"}, []models.Project{{ID: "1", Module: "A"}})
	if diff := cmp.Diff([]string{"A", "Unused"}, c.ModuleUniverse()); diff != "" {
		t.Errorf("module universe (-want +got):\n%s", diff)
	}
}

func TestNew_Violations(t *testing.T) {
	tests := []struct {
		name     string
		modules  []string
		projects []models.Project
		want     string
	}{
		{"missing id", []string{"A"}, []models.Project{{Module: "A"}}, "id"},
		{"missing module", []string{"A"}, []models.Project{{ID: "1"}}, "module"},
		{"undeclared module", []string{"A"}, []models.Project{{ID: "1", Module: "B"}}, "not a declared module"},
		{"duplicate id", []string{"A"}, []models.Project{{ID: "1", Module: "A"}, {ID: "1", Module: "A"}}, "duplicate project id"},
		{"bad status", []string{"A"}, []models.Project{{ID: "1", Module: "A", Status: status("Done")}}, "status"},
		{"zero rank", []string{"A"}, []models.Project{{ID: "1", Module: "A", FeaturedRank: rank(0)}}, "featuredRank"},
		{"evidence without href", []string{"A"}, []models.Project{{ID: "1", Module: "A", Evidence: []models.LinkItem{{Label: "Repo"}}}}, "href"},
		{"section evidence without label", []string{"A"}, []models.Project{{ID: "1", Module: "A", Sections: &models.Sections{Evidence: []models.LinkItem{{Href: "/x"}}}}}, "label"},
		{"duplicate declared module", []string{"A", "A"}, nil, "duplicate module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.modules, tt.projects)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, apperr.ErrInvalidCatalog) {
				t.Errorf("error should wrap ErrInvalidCatalog: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestNew_OptionalFieldsAccepted(t *testing.T) {
	_, err := New([]string{"A"}, []models.Project{
		{ID: "1", Module: "A", Status: status(models.StatusWIP), FeaturedRank: rank(3)},
		{ID: "2", Module: "A", Evidence: []models.LinkItem{{Label: "Demo", Href: "/demo"}}},
	})
	if err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}
}

func TestNew_NormalizesNilSequences(t *testing.T) {
	c := MustNew(nil, []models.Project{{ID: "1", Module: "A"}})
	p, _ := c.Lookup("1")
	if p.Tags == nil || p.CoreSkills == nil || p.Evidence == nil || p.Deliverables == nil || p.SuggestedMetrics == nil {
		t.Errorf("required sequences should be non-nil: %+v", p)
	}
	if p.ProofPoints != nil || p.Sections != nil || p.Status != nil {
		t.Errorf("optional fields should stay absent: %+v", p)
	}
}

func TestLookup(t *testing.T) {
	c := MustNew(nil, []models.Project{{ID: "P1", Module: "A"}})
	if _, ok := c.Lookup("P1"); !ok {
		t.Error("P1 should resolve")
	}
	if _, ok := c.Lookup("does-not-exist"); ok {
		t.Error("unknown id should be absent")
	}
	if _, ok := c.Lookup(""); ok {
		t.Error("empty id should be absent")
	}
	if c.Position("P1") != 0 || c.Position("nope") != -1 {
		t.Error("Position mismatch")
	}
}

func TestListProjectsReturnsCopy(t *testing.T) {
	c := MustNew(nil, []models.Project{{ID: "1", Module: "A"}, {ID: "2", Module: "A"}})
	list := c.ListProjects()
	list[0] = models.Project{ID: "hijacked"}
	if got := c.ListProjects()[0].ID; got != "1" {
		t.Errorf("catalog mutated through ListProjects: %q", got)
	}
}

func TestRevisionTracksContent(t *testing.T) {
	a := MustNew(nil, []models.Project{{ID: "1", Module: "A"}})
	b := MustNew(nil, []models.Project{{ID: "1", Module: "A"}})
	c := MustNew(nil, []models.Project{{ID: "1", Module: "A", Title: "changed"}})
	if a.Revision() != b.Revision() {
		t.Error("equal catalogs should share a revision")
	}
	if a.Revision() == c.Revision() {
		t.Error("changed catalog should change revision")
	}
}

func TestEmbedded(t *testing.T) {
	c, err := Embedded().Load()
	if err != nil {
		t.Fatalf("embedded catalog invalid: %v", err)
	}
	if c.Len() != 6 {
		t.Errorf("Len = %d, want 6", c.Len())
	}
	if diff := cmp.Diff([]string{"Vibe Coding", "AI Workflow"}, c.ModuleUniverse()); diff != "" {
		t.Errorf("modules (-want +got):\n%s", diff)
	}
	tags := c.TagUniverse()
	if !slices.IsSorted(tags) {
		t.Errorf("tags not sorted: %v", tags)
	}
	if !slices.Contains(tags, "Prompt") || !slices.Contains(tags, "ML") {
		t.Errorf("tags missing entries: %v", tags)
	}
}

func TestDirSource_MergesInPathOrder(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("00-modules.yaml", "modules: [Vibe Coding, AI Workflow]\n")
	write("10-vibe.yaml", "projects:\n  - id: P1\n    module: Vibe Coding\n    tags: [ML]\n")
	write("20-workflow/p5.md", "---\nid: P5\nmodule: AI Workflow\ntags: [Prompt]\n---\nRetrieval notes.\n")
	write("README.txt", "ignored")

	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewDirSource(store).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, p := range c.ListProjects() {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"P1", "P5"}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	p5, _ := c.Lookup("P5")
	if p5.Description != "Retrieval notes." {
		t.Errorf("P5 description = %q", p5.Description)
	}
}

func TestDirSource_InvalidDocumentFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "catalog.yaml"), []byte("modules: [A]\nprojects:\n  - id: P1\n    module: B\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDirSource(store).Load(); !errors.Is(err, apperr.ErrInvalidCatalog) {
		t.Errorf("err = %v, want ErrInvalidCatalog", err)
	}
}

func TestDirSource_UnparsableDocumentIsInvalid(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "catalog.yaml"), []byte("projects:\n  - id: P1\n    modul: A\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewDirSource(store).Load()
	if !errors.Is(err, apperr.ErrInvalidCatalog) {
		t.Errorf("err = %v, want ErrInvalidCatalog", err)
	}
	if err != nil && !strings.Contains(err.Error(), "catalog.yaml") {
		t.Errorf("error should name the file: %v", err)
	}
}
