// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// catalogSource returns the configured source: an explicit WithSource, the
// content directory, or the embedded catalog.
func (a *application) catalogSource() (catalog.Source, error) {
	if a.source != nil {
		return a.source, nil
	}
	if a.config.Catalog.Embedded() {
		return catalog.Embedded(), nil
	}
	store, err := storage.NewFS(a.config.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	a.store = store
	return catalog.NewDirSource(store), nil
}

// openService loads the catalog and syncs the index. The returned close
// function releases the index.
func (a *application) openService(logger *slog.Logger) (*portfolio.Service, func(), error) {
	src, err := a.catalogSource()
	if err != nil {
		return nil, nil, err
	}

	db, err := index.Open(a.config.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}

	svc, err := portfolio.NewService(src, db,
		portfolio.WithLogger(logger),
		portfolio.WithFeaturedLimit(a.config.Catalog.FeaturedLimit),
	)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, func() { db.Close() }, nil
}

// ValidateCatalog loads and validates the configured catalog without
// starting anything.
func ValidateCatalog(opts ...Option) (*catalog.Catalog, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	src, err := app.catalogSource()
	if err != nil {
		return nil, err
	}
	return src.Load()
}

// RunMCP serves the catalog over MCP on stdio until the client disconnects.
// Logs go to stderr unless WithLogOutput says otherwise, since stdout carries
// the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := app.logger()

	svc, closeFn, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("MCP server starting", slog.String("revision", svc.Revision()))
	return mcpserver.New(svc).ServeStdio()
}

// Handler builds the root HTTP handler: middleware, health checks, and the
// API mounted under /api.
func Handler(svc *portfolio.Service, cfg *Config, broker *sse.Broker) http.Handler {
	var sseHandler http.Handler
	var onReload portfolio.EventCallback
	if broker != nil {
		sseHandler = broker
		onReload = broker.PublishProjectEvent
	}
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, sseHandler, onReload)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if svc.Catalog() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","revision":%q}`, svc.Revision())
	})

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.Bool("catalog_watch", cfg.Catalog.Watch),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, closeFn, err := app.openService(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("Catalog loaded",
		slog.String("revision", svc.Revision()),
		slog.Int("projects", svc.Catalog().Len()))

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           Handler(svc, cfg, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	// Reload on content changes and fan the changes out over SSE.
	if cfg.Catalog.Watch && app.store != nil {
		g.Go(func() error {
			if err := portfolio.Watch(gCtx, svc, app.store, logger, broker.PublishProjectEvent); err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		stop()
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
