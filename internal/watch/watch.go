// Package watch rebuilds on filesystem changes below a directory tree.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc is invoked after changes settle. A returned error is logged and
// watching continues.
type RebuildFunc func(ctx context.Context) error

// Watcher triggers debounced rebuilds for changes below Root.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Rebuild  RebuildFunc
	Logger   *slog.Logger
}

// Run watches until ctx is canceled. Rebuilds never overlap; changes that
// arrive during a rebuild cause exactly one follow-up rebuild.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absRoot, err := filepath.Abs(w.Root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}
	if st, statErr := os.Stat(absRoot); statErr != nil || !st.IsDir() {
		return fmt.Errorf("watch root not found or not a directory: %s", absRoot)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	addDirsRecursive(watcher, absRoot, logger)

	rebuildReq, trigger, stop := newDebouncer(debounce)
	defer stop()
	done := startRebuildWorker(ctx, w.Rebuild, rebuildReq, logger)

	logger.Info("Watching for changes", logfields.Path(absRoot))
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns a request channel and a trigger that sends one request
// once triggers stop arriving for d.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// startRebuildWorker runs rebuilds one at a time. The returned channel closes
// when the worker exits.
func startRebuildWorker(ctx context.Context, rebuild RebuildFunc, rebuildReq <-chan struct{}, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				logger.Info("Change detected; rebuilding")
				if err := rebuild(ctx); err != nil {
					logger.Warn("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()
	return done
}

func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func(), logger *slog.Logger) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(watcher, ev.Name, logger)
		}
	}
	logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden, editor swap and temporary files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return false
}
