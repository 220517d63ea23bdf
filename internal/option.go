package internal

import (
	"io"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/storage"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	source    catalog.Source
	logOutput io.Writer

	// store is the content directory behind the source, nil for the
	// embedded catalog or an injected source.
	store storage.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSource overrides the catalog source derived from the config.
func WithSource(src catalog.Source) Option {
	return func(a *application) {
		a.source = src
	}
}

// WithLogOutput redirects the JSON log stream. Defaults to stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
