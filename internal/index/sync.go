package index

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/models"
)

// Changes lists the project ids a Sync touched.
type Changes struct {
	Added   []string
	Updated []string
	Removed []string
}

// Empty reports whether the sync changed nothing.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// Sync brings the index up to date with cat:
//   - new/changed projects (content or position) are upserted
//   - projects no longer in the catalog are deleted from the index
//
// Per-project failures are logged and skipped; the error return is reserved
// for failures that make the whole pass meaningless.
func Sync(db ProjectIndex, cat *catalog.Catalog, logger *slog.Logger) (Changes, error) {
	var changes Changes

	checksums, err := db.AllChecksums()
	if err != nil {
		return changes, err
	}

	now := time.Now()
	seen := make(map[string]struct{}, cat.Len())
	cat.Each(func(i int, p models.Project) {
		seen[p.ID] = struct{}{}

		cs, err := ProjectChecksum(i, p)
		if err != nil {
			logger.Warn("sync: checksum failed", slog.String("id", p.ID), slog.String("error", err.Error()))
			return
		}
		prev, indexed := checksums[p.ID]
		if indexed && prev == cs {
			return
		}

		row := ProjectRow{
			ID:        p.ID,
			Position:  i,
			Module:    p.Module,
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Checksum:  cs,
			Tags:      p.Tags,
			UpdatedAt: now,
		}
		if err := db.UpsertProject(row, Body(p)); err != nil {
			logger.Warn("sync: index failed", slog.String("id", p.ID), slog.String("error", err.Error()))
			return
		}
		if indexed {
			changes.Updated = append(changes.Updated, p.ID)
		} else {
			changes.Added = append(changes.Added, p.ID)
		}
		logger.Debug("sync: indexed", slog.String("id", p.ID))
	})

	for id := range checksums {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := db.DeleteProject(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}
		changes.Removed = append(changes.Removed, id)
		logger.Debug("sync: removed stale", slog.String("id", id))
	}
	slices.Sort(changes.Removed)

	return changes, nil
}

// ProjectChecksum is the digest the index stores for p at catalog position i.
func ProjectChecksum(i int, p models.Project) (string, error) {
	return checksum.JSON(struct {
		Position int            `json:"position"`
		Project  models.Project `json:"project"`
	}{i, p})
}

// Body is the searchable long-form text of a project: everything the in-memory
// filter does not look at.
func Body(p models.Project) string {
	parts := []string{p.Description, p.Category}
	parts = append(parts, p.CoreSkills...)
	parts = append(parts, p.SuggestedMetrics...)
	parts = append(parts, p.Deliverables...)
	parts = append(parts, p.ProofPoints...)
	if s := p.Sections; s != nil {
		parts = append(parts, s.Goal)
		parts = append(parts, s.Pipeline...)
		parts = append(parts, s.HardProblems...)
		parts = append(parts, s.Outcomes...)
		parts = append(parts, s.Repro...)
	}

	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(part)
	}
	return b.String()
}
