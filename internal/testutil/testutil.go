// Package testutil provides shared test helpers for setting up content
// directories, catalogs, and index databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Rank returns a pointer to n for FeaturedRank literals.
func Rank(n int) *int { return &n }

// Status returns a pointer to s for Status literals.
func Status(s models.Status) *models.Status { return &s }

// SampleProjects is a small catalog covering both modules, ranked and
// unranked projects, evidence links, and sections.
func SampleProjects() []models.Project {
	return []models.Project{
		{
			ID: "P1", Module: "Vibe Coding", Category: "Category A",
			Title: "Speech pipeline", Subtitle: "Batch transcription",
			Description: "Whisper inference at scale.",
			CoreSkills:  []string{"Python", "CUDA", "Batching", "Profiling", "Docker"},
			Tags:        []string{"ML", "Whisper", "Inference", "Pipeline", "Audio", "GPU", "Batch"},
			Evidence: []models.LinkItem{
				{Label: "Repo", Href: "https://github.com/example/speech"},
				{Label: "Write-up", Href: "/notes/speech"},
			},
			Status: Status(models.StatusReady),
		},
		{
			ID: "P4", Module: "Vibe Coding", Category: "Category D",
			Title: "Order service", Subtitle: "State machine API",
			Tags:         []string{"Fullstack", "API", "Testing", "StateMachine"},
			Status:       Status(models.StatusWIP),
			FeaturedRank: Rank(2),
			Sections: &models.Sections{
				Goal:         "Model the order lifecycle explicitly.",
				HardProblems: []string{"Idempotent retries across the payment boundary"},
			},
		},
		{
			ID: "P5", Module: "AI Workflow", Category: "Category E",
			Title: "Retrieval eval", Subtitle: "Prompt regression suite",
			Tags:   []string{"Prompt", "Retrieval", "Workflow", "Evaluation"},
			Status: Status(models.StatusReady),
		},
		{
			ID: "P6", Module: "AI Workflow", Category: "Category F",
			Title: "Schema extraction", Subtitle: "Structured notes",
			Tags:         []string{"Schema", "Extraction", "QC", "Notes"},
			FeaturedRank: Rank(1),
		},
	}
}

// SampleModules is the module universe of SampleProjects.
func SampleModules() []string {
	return []string{"Vibe Coding", "AI Workflow"}
}

// SampleCatalog builds a catalog from SampleModules and SampleProjects.
func SampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(SampleModules(), SampleProjects())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// StaticSource is a catalog.Source that always returns the same catalog, or
// Err when set.
type StaticSource struct {
	Catalog *catalog.Catalog
	Err     error
}

// Load implements catalog.Source.
func (s *StaticSource) Load() (*catalog.Catalog, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Catalog, nil
}
