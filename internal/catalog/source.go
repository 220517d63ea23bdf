package catalog

import (
	"embed"
	"fmt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

// Source produces a freshly validated Catalog on every call.
type Source interface {
	Load() (*Catalog, error)
}

//go:embed defaults/catalog.yaml
var defaultsFS embed.FS

type embeddedSource struct{}

// Embedded returns the catalog compiled into the binary.
func Embedded() Source {
	return embeddedSource{}
}

func (embeddedSource) Load() (*Catalog, error) {
	data, err := defaultsFS.ReadFile("defaults/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("catalog: read embedded: %w", err)
	}
	doc, err := parser.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: embedded: %w", apperr.ErrInvalidCatalog, err)
	}
	return New(doc.Modules, doc.Projects)
}

// DirSource loads every catalog document in a content directory. Documents
// are read in lexical path order and their projects concatenated, which fixes
// the catalog's insertion order. Module declarations are merged the same way.
type DirSource struct {
	store storage.Provider
}

// NewDirSource creates a Source over store.
func NewDirSource(store storage.Provider) *DirSource {
	return &DirSource{store: store}
}

// Load reads, parses, merges, and validates the content directory.
func (s *DirSource) Load() (*Catalog, error) {
	files, err := s.store.List("")
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	var (
		modules  []string
		declared = make(map[string]struct{})
		projects []models.Project
	)
	for _, f := range files {
		if !parser.Supported(f.Path) {
			continue
		}
		data, err := s.store.Read(f.Path)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		doc, err := parser.Parse(f.Path, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperr.ErrInvalidCatalog, f.Path, err)
		}
		for _, m := range doc.Modules {
			if _, ok := declared[m]; ok {
				continue
			}
			declared[m] = struct{}{}
			modules = append(modules, m)
		}
		projects = append(projects, doc.Projects...)
	}

	return New(modules, projects)
}
