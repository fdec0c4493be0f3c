// Package watch monitors text files for changes and triggers re-correction.
// It debounces rapid saves and suppresses the events caused by its own
// in-place rewrites so a correction never re-triggers itself.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long after an event a path stays quiet before the
// handler runs again.
const DefaultDebounce = 500 * time.Millisecond

// Handler is invoked with the path of a changed file.
type Handler func(path string)

// Stats tracks watcher activity for verbose output and tests.
type Stats struct {
	Events        int
	Handled       int
	Suppressed    int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher drives a Handler from filesystem events.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	handler   Handler
	debounce  time.Duration
	lastFired map[string]time.Time
	ownWrites map[string]time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	log       *zap.Logger
	stats     Stats
}

// New creates a watcher over the given files or directories.
func New(paths []string, debounce time.Duration, log *zap.Logger, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:       fsw,
		handler:   handler,
		debounce:  debounce,
		lastFired: make(map[string]time.Time),
		ownWrites: make(map[string]time.Time),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		log:       log,
	}, nil
}

// Start begins dispatching events. Non-blocking; the loop runs in its own
// goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.loop(ctx)
}

// Stop shuts the watcher down and waits for the loop to exit. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
}

// MarkOwnWrite records that the caller is about to rewrite path, so the
// resulting write events are ignored for one debounce window.
func (w *Watcher) MarkOwnWrite(path string) {
	w.mu.Lock()
	w.ownWrites[filepath.Clean(path)] = time.Now()
	w.mu.Unlock()
}

// Snapshot returns a copy of the watcher's activity counters.
func (w *Watcher) Snapshot() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.dispatch(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("watch error", zap.Error(err))
			}
		}
	}
}

// dispatch applies own-write suppression and debouncing, then runs the
// handler inline. Corrections are cheap relative to the debounce window,
// so there is no separate worker.
func (w *Watcher) dispatch(path string) {
	path = filepath.Clean(path)
	now := time.Now()

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = path
	w.stats.LastEventTime = now

	if t, ok := w.ownWrites[path]; ok && now.Sub(t) < w.debounce {
		w.stats.Suppressed++
		w.mu.Unlock()
		return
	}
	if t, ok := w.lastFired[path]; ok && now.Sub(t) < w.debounce {
		w.stats.Suppressed++
		w.mu.Unlock()
		return
	}
	w.lastFired[path] = now
	w.stats.Handled++
	handler := w.handler
	w.mu.Unlock()

	if w.log != nil {
		w.log.Debug("change detected", zap.String("path", path))
	}
	if handler != nil {
		handler(path)
	}
}
