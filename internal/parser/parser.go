// Package parser decodes catalog documents: YAML files holding a module list
// and projects, and Markdown files whose frontmatter describes one project.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/models"
)

// Document is the decoded content of one catalog file.
type Document struct {
	Modules  []string         `yaml:"modules"`
	Projects []models.Project `yaml:"projects"`
}

// Supported reports whether name has an extension Parse understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".md":
		return true
	}
	return false
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".md":
		return ParseMarkdown(data)
	default:
		return nil, fmt.Errorf("parser: unsupported document %s", name)
	}
}

// ParseYAML decodes a catalog document. Unknown keys are rejected so that a
// misspelled field fails loudly instead of silently dropping content.
// An empty document is valid and yields no modules and no projects.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := decodeStrict(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseMarkdown decodes a single-project document. The frontmatter holds the
// project fields; the body becomes the description unless the frontmatter
// already sets one.
func ParseMarkdown(data []byte) (*Document, error) {
	block, body, ok := splitFrontmatter(data)
	if !ok {
		return nil, errors.New("parser: markdown document has no frontmatter")
	}

	var p models.Project
	if err := decodeStrict(block, &p); err != nil {
		return nil, err
	}
	if p.Description == "" {
		p.Description = strings.TrimSpace(body)
	}
	return &Document{Projects: []models.Project{p}}, nil
}

func decodeStrict(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parser: decode yaml: %w", err)
	}
	return nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body.
func splitFrontmatter(data []byte) ([]byte, string, bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", false
	}

	block := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")
	return block, body, true
}
