package parser

import (
	"strings"
	"testing"
)

func TestParseYAML_ModulesAndProjects(t *testing.T) {
	input := []byte(`
modules:
  - Vibe Coding
  - AI Workflow
projects:
  - id: P1
    module: Vibe Coding
    category: Category A
    tags: [ML, Pipeline]
    status: Ready
  - id: P6
    module: AI Workflow
    featuredRank: 1
    evidence:
      - label: Repo
        href: https://example.com/p6
`)
	doc, err := ParseYAML(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Modules) != 2 || doc.Modules[1] != "AI Workflow" {
		t.Errorf("modules = %v", doc.Modules)
	}
	if len(doc.Projects) != 2 {
		t.Fatalf("len(projects) = %d, want 2", len(doc.Projects))
	}
	p1 := doc.Projects[0]
	if p1.Status == nil || *p1.Status != "Ready" {
		t.Errorf("P1 status = %v", p1.Status)
	}
	if p1.FeaturedRank != nil {
		t.Errorf("P1 featuredRank should be absent, got %d", *p1.FeaturedRank)
	}
	p6 := doc.Projects[1]
	if p6.FeaturedRank == nil || *p6.FeaturedRank != 1 {
		t.Errorf("P6 featuredRank = %v", p6.FeaturedRank)
	}
	if p6.Status != nil {
		t.Errorf("P6 status should be absent, got %q", *p6.Status)
	}
	if len(p6.Evidence) != 1 || p6.Evidence[0].Href != "https://example.com/p6" {
		t.Errorf("P6 evidence = %+v", p6.Evidence)
	}
}

func TestParseYAML_Empty(t *testing.T) {
	doc, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("empty document should parse: %v", err)
	}
	if len(doc.Projects) != 0 || len(doc.Modules) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestParseYAML_UnknownFieldRejected(t *testing.T) {
	_, err := ParseYAML([]byte("projects:\n  - id: P1\n    modul: Vibe Coding\n"))
	if err == nil {
		t.Fatal("misspelled field should fail")
	}
	if !strings.Contains(err.Error(), "modul") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestParseMarkdown_BodyBecomesDescription(t *testing.T) {
	input := []byte("---\nid: P7\nmodule: AI Workflow\ntitle: Notes pipeline\ntags: [Notes]\n---\n\nLong form description.\n")
	doc, err := ParseMarkdown(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Projects) != 1 {
		t.Fatalf("len(projects) = %d", len(doc.Projects))
	}
	p := doc.Projects[0]
	if p.ID != "P7" || p.Title != "Notes pipeline" {
		t.Errorf("project = %+v", p)
	}
	if p.Description != "Long form description." {
		t.Errorf("description = %q", p.Description)
	}
}

func TestParseMarkdown_FrontmatterDescriptionWins(t *testing.T) {
	input := []byte("---\nid: P8\nmodule: AI Workflow\ndescription: Short.\n---\nIgnored body.\n")
	doc, err := ParseMarkdown(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Projects[0].Description; got != "Short." {
		t.Errorf("description = %q, want %q", got, "Short.")
	}
}

func TestParseMarkdown_NoFrontmatter(t *testing.T) {
	if _, err := ParseMarkdown([]byte("# Just a heading\n")); err == nil {
		t.Fatal("markdown without frontmatter should fail")
	}
}

func TestParse_DispatchByExtension(t *testing.T) {
	if _, err := Parse("catalog.yml", []byte("modules: [A]\n")); err != nil {
		t.Errorf("yml: %v", err)
	}
	if _, err := Parse("notes.txt", []byte("x")); err == nil {
		t.Error("unsupported extension should fail")
	}
	if !Supported("a/B.MD") || Supported("a/b.json") {
		t.Error("Supported mismatch")
	}
}
