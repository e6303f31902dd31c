package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"skillscan/internal/errors"
	"skillscan/internal/extractor"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Handler processes a résumé that appeared in the watched directory
type Handler func(ctx context.Context, path string) error

// Watcher parses résumés dropped into an upload directory. Events for the
// same file are debounced so a file is handled once its writes settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	existing bool
	logger   *errors.Logger

	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	handled map[string]time.Time

	ready     chan string
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Watcher
type Option func(*Watcher)

// WithExisting also handles supported files already in the directory when
// Run starts
func WithExisting() Option {
	return func(w *Watcher) {
		w.existing = true
	}
}

// WithDebounce sets how long a file must stay quiet before it is handled
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *errors.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New starts watching dir. Events are queued until Run is called.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		dir:      dir,
		debounce: defaultDebounce,
		handler:  handler,
		timers:   make(map[string]*time.Timer),
		handled:  make(map[string]time.Time),
		ready:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.fsWatcher = fsWatcher

	return w, nil
}

// Run handles files until ctx is cancelled. Handler errors are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	w.logger.Info("Upload watcher started",
		"directory", w.dir,
		"debounce", w.debounce,
		"existing", w.existing)

	if w.existing {
		w.queueExisting()
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if shouldProcessEvent(event) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.LogError(err, "File watcher error", "directory", w.dir)

		case path := <-w.ready:
			w.handle(ctx, path)

		case <-ctx.Done():
			w.logger.Info("Upload watcher stopped", "directory", w.dir)
			return nil
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()

		if err := w.fsWatcher.Close(); err != nil {
			w.logger.LogError(err, "Failed to close file system watcher")
		}
	})
}

// shouldProcessEvent accepts writes, creates and renames into the directory
// for files with a supported résumé extension
func shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return extractor.IsSupported(event.Name)
}

func (w *Watcher) queueExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.LogError(err, "Failed to list watched directory", "directory", w.dir)
		return
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && extractor.IsSupported(entry.Name()) {
			w.schedule(filepath.Join(w.dir, entry.Name()))
		}
	}
}

// schedule restarts the debounce timer for path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		current := w.release(path, timer)
		w.mu.Unlock()

		if current {
			w.queue(path)
		}
	})
	w.timers[path] = timer
}

// release unregisters timer and reports whether it was still the timer for
// path. A timer replaced by schedule after it fired is stale. The caller
// holds w.mu.
func (w *Watcher) release(path string, timer *time.Timer) bool {
	if w.timers[path] != timer {
		return false
	}
	delete(w.timers, path)
	return true
}

func (w *Watcher) queue(path string) {
	select {
	case w.ready <- path:
	case <-w.done:
	}
}

// changed reports whether path exists and was modified since it was last
// handled. Renamed-away files no longer exist and are skipped.
func (w *Watcher) changed(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || !stat.Mode().IsRegular() {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	last, seen := w.handled[path]
	if seen && !stat.ModTime().After(last) {
		return false
	}
	w.handled[path] = stat.ModTime()
	return true
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if !w.changed(path) {
		return
	}

	w.logger.Debug("Handling uploaded resume", "file", path)
	if err := w.handler(ctx, path); err != nil {
		w.logger.LogError(err, "Failed to process uploaded resume", "file", path)
	}
}
