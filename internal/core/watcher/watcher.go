// # internal/core/watcher/watcher.go
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"fence/internal/core/exclusion"
	"fence/internal/core/interrupt"
	"fence/internal/shared/observability"
)

// Config controls which trees are watched and how eagerly rescans fire.
type Config struct {
	// SourceRoots are the absolute directories to watch recursively.
	SourceRoots []string
	// Debounce is the quiet period after the last event before a rescan.
	// Defaults to 500ms when zero or negative.
	Debounce time.Duration
	// SkipHidden drops dot-directories and dot-files from the watch set.
	SkipHidden bool
}

func (c Config) debounce() time.Duration {
	if c.Debounce <= 0 {
		return 500 * time.Millisecond
	}
	return c.Debounce
}

// Watcher triggers a rescan callback whenever Python sources under the
// watched roots change. Events within the debounce window coalesce into a
// single rescan; a rate limiter guards against event storms. Rescans are
// serialized on the Run loop.
type Watcher struct {
	cfg       Config
	fsWatcher *fsnotify.Watcher
	limiter   *rate.Limiter

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer

	rescanCh chan struct{}
}

// New creates a Watcher over cfg.SourceRoots. Directories matching the
// exclusion registry are not watched. Callers must Close the watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:       cfg,
		fsWatcher: fsw,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		pending:   make(map[string]time.Time),
		rescanCh:  make(chan struct{}, 1),
	}

	for _, root := range cfg.SourceRoots {
		if err := w.watchRecursive(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run pumps filesystem events and serves rescans until ctx is canceled.
// Each pass waits for the rate limiter and tags its logs with a fresh
// run id.
func (w *Watcher) Run(ctx context.Context, rescan func(context.Context) error) error {
	go w.pumpEvents()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.rescanCh:
		}

		if err := w.limiter.Wait(ctx); err != nil {
			return nil
		}

		logger := slog.With("run_id", uuid.NewString())
		logger.Info("rescanning project")
		observability.WatcherRescansTotal.Inc()

		if err := rescan(ctx); err != nil {
			if interrupt.Interrupted(err) {
				return nil
			}
			logger.Error("rescan failed", "error", err)
		}
	}
}

// Close stops the debounce timer and the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root {
			if w.cfg.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}
			if excluded, err := exclusion.IsExcluded(path); err == nil && excluded {
				return filepath.SkipDir
			}
		}
		return w.fsWatcher.Add(path)
	})
}

// pumpEvents drains fsnotify until the watcher closes.
func (w *Watcher) pumpEvents() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchRecursive(event.Name); err != nil {
				slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.enqueueExisting(event.Name)
			return
		}
	}

	if !w.watchedFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.scheduleChange(event.Name)
	}
}

// watchedFile reports whether a change to path should trigger a rescan.
func (w *Watcher) watchedFile(path string) bool {
	base := filepath.Base(path)
	if w.cfg.SkipHidden && strings.HasPrefix(base, ".") {
		return false
	}
	if strings.ToLower(filepath.Ext(base)) != ".py" {
		return false
	}
	if excluded, err := exclusion.IsExcluded(path); err == nil && excluded {
		return false
	}
	return true
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.debounce(), w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	changed := len(w.pending)
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if changed == 0 {
		return
	}
	slog.Debug("source changes detected", "files", changed)
	select {
	case w.rescanCh <- struct{}{}:
	default:
		// A rescan is already queued; it covers these changes.
	}
}

// enqueueExisting schedules files that landed in dir before its watch was
// added. Files created inside a brand-new directory race the recursive Add
// and their own events can be lost.
func (w *Watcher) enqueueExisting(dir string) {
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if w.watchedFile(path) {
			w.scheduleChange(path)
		}
		return nil
	})
}
