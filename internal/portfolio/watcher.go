package portfolio

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

const reloadDebounce = 200 * time.Millisecond

// EventCallback is called once per project a reload touched.
// kind is one of "added", "updated", "removed".
type EventCallback func(kind, id, revision string)

// Notify reports changes through cb. A nil cb is a no-op.
func Notify(changes index.Changes, revision string, cb EventCallback) {
	if cb == nil {
		return
	}
	for _, id := range changes.Added {
		cb("added", id, revision)
	}
	for _, id := range changes.Updated {
		cb("updated", id, revision)
	}
	for _, id := range changes.Removed {
		cb("removed", id, revision)
	}
}

// Watch starts an fsnotify watcher on store's root and reloads svc when
// catalog documents change, until ctx is cancelled. Bursts of events (editors
// write temp files then rename) are coalesced into one reload.
//
// New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, svc *Service, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	root := store.Root()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDebounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			changes, err := svc.Reload(ctx)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if changes.Empty() {
				logger.Debug("watcher: reload changed no projects")
				continue
			}
			Notify(changes, svc.Revision(), cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					scheduleReload()
					continue
				}
			}

			if !relevant(ev.Name) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a change to path can affect the catalog.
func relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return parser.Supported(path)
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
