// Package watcher notifies the preview loop when watched files change.
//
// It watches the parent directories of the named files rather than the files
// themselves, so atomic-replace writes (the usual way settings documents are
// saved) are still observed. Events are debounced per path to collapse the
// bursts editors and analyzers produce.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iiunuii/ccmbar/pkg/logger"
)

// Event reports a change to a watched file.
type Event struct {
	// Path is the file that changed.
	Path string
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval collapses change bursts per path.
	// Default: 250ms.
	DebounceInterval time.Duration
}

// Watcher delivers debounced change events for a fixed set of files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	log    logger.Logger
	config Config

	events chan Event
	done   chan struct{}

	// Files being watched, keyed by absolute path.
	files map[string]bool

	mu       sync.Mutex
	closed   bool
	debounce map[string]*time.Timer
}

// New creates a watcher for the given files.
//
// Parameters:
//   - cfg: Watcher configuration
//   - paths: Files to watch (missing files are fine; their directories must exist)
//   - log: Logger instance
//
// Returns:
//   - Running Watcher delivering events on Events()
//   - Error if the underlying watcher cannot be created
func New(cfg Config, paths []string, log logger.Logger) (*Watcher, error) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 250 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		log:      log,
		config:   cfg,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		files:    make(map[string]bool, len(paths)),
		debounce: make(map[string]*time.Timer),
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			continue
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if addErr := fsw.Add(dir); addErr != nil {
			w.log.Warn("cannot watch directory, skipping", "dir", dir, "error", addErr)
		}
	}

	go w.run()

	log.Debug("watcher started", "files", len(w.files))
	return w, nil
}

// Events returns the change event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fsw.Close()
}

// run forwards relevant fsnotify events with debouncing.
func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

// handle filters an fsnotify event to watched files and debounces it.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if timer, exists := w.debounce[abs]; exists {
		timer.Stop()
	}
	w.debounce[abs] = time.AfterFunc(w.config.DebounceInterval, func() {
		select {
		case w.events <- Event{Path: abs}:
		case <-w.done:
		}
	})
}
