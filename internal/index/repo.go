package index

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProjectRow represents a row in the projects table.
type ProjectRow struct {
	ID        string
	Position  int
	Module    string
	Title     string
	Subtitle  string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Module  string `json:"module"`
	Snippet string `json:"snippet"`
}

// UpsertProject inserts or replaces a project and its FTS entry within a transaction.
func (db *DB) UpsertProject(r ProjectRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	_, err = tx.Exec(`
		INSERT INTO projects (id, position, module, title, subtitle, checksum, tags, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position   = excluded.position,
			module     = excluded.module,
			title      = excluded.title,
			subtitle   = excluded.subtitle,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, r.ID, r.Position, r.Module, r.Title, r.Subtitle, r.Checksum, string(tagsJSON), body, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert project: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, r.ID, r.Title+" "+r.Subtitle, body, r.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteProject removes a project and its FTS entry.
func (db *DB) DeleteProject(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete project: %w", err)
	}

	return tx.Commit()
}

// AllChecksums returns id -> checksum for every indexed project.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed projects.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
