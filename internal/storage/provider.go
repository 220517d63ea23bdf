// Package storage defines the read-only content directory abstraction.
package storage

// FileInfo describes one file in the content directory.
type FileInfo struct {
	Path string `json:"path"`
}

// Provider is the interface for content directory reads.
type Provider interface {
	// List returns every non-hidden file under dir (relative to the root),
	// sorted by path.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Root returns the absolute root directory; the watcher observes it.
	Root() string
}
