// Package query derives views from a catalog and the current selection.
//
// Every function here is pure: it reads an immutable catalog plus small value
// inputs, never fails, and returns the same output for the same input.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/models"
)

// All is the sentinel for "no module filter" and "no tag filter".
const All = "All"

// DefaultFeaturedLimit is the number of featured projects the site surfaces.
const DefaultFeaturedLimit = 2

// MaxFeaturedLimit caps any requested featured limit.
const MaxFeaturedLimit = 50

// FilterProjects returns the projects matching all three clauses, in catalog
// order. The result is never nil.
//
//   - module: All, or exact equality with the project's module.
//   - tag: All, or exact case-sensitive membership in the project's tags.
//   - q: blank after trimming, or a case-insensitive substring of
//     title + " " + subtitle + " " + tags joined by " ".
func FilterProjects(c *catalog.Catalog, module, tag, q string) []models.Project {
	needle := normalizeQuery(q)
	out := []models.Project{}
	c.Each(func(_ int, p models.Project) {
		if matches(p, module, tag, needle) {
			out = append(out, p)
		}
	})
	return out
}

// CountProjects is len(FilterProjects(...)) without building the slice.
func CountProjects(c *catalog.Catalog, module, tag, q string) int {
	needle := normalizeQuery(q)
	n := 0
	c.Each(func(_ int, p models.Project) {
		if matches(p, module, tag, needle) {
			n++
		}
	})
	return n
}

// SelectFeatured returns at most limit ranked projects ordered by ascending
// featuredRank. Equal ranks keep catalog order. A non-positive limit, or a
// catalog without ranked projects, yields an empty slice.
func SelectFeatured(c *catalog.Catalog, limit int) []models.Project {
	out := []models.Project{}
	if limit <= 0 {
		return out
	}
	c.Each(func(_ int, p models.Project) {
		if p.Featured() {
			out = append(out, p)
		}
	})
	slices.SortStableFunc(out, func(a, b models.Project) int {
		return cmp.Compare(*a.FeaturedRank, *b.FeaturedRank)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FindProjectByID resolves id to its project. Unknown ids, including the empty
// id and placeholder ids, report false rather than failing.
func FindProjectByID(c *catalog.Catalog, id string) (models.Project, bool) {
	return c.Lookup(id)
}

func matches(p models.Project, module, tag, needle string) bool {
	if module != All && p.Module != module {
		return false
	}
	if tag != All && !p.HasTag(tag) {
		return false
	}
	if needle == "" {
		return true
	}
	return strings.Contains(haystack(p), needle)
}

func haystack(p models.Project) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteByte(' ')
	b.WriteString(p.Subtitle)
	b.WriteByte(' ')
	b.WriteString(strings.Join(p.Tags, " "))
	return lower(b.String())
}

func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	return lower(q)
}

// lower builds a fresh Caser per call; a Caser carries state and is not safe
// for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
