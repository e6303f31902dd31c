package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 16)}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func startWatcher(t *testing.T, dir string, handler Handler, opts ...Option) {
	t.Helper()
	w, err := New(dir, handler, append([]Option{WithDebounce(50 * time.Millisecond)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case path := <-ch:
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
		return ""
	}
}

func TestWatcherHandlesSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec.handle)

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	write(t, filepath.Join(dir, "ada_extracted.txt"), "ignored")
	pdf := filepath.Join(dir, "ada.pdf")
	write(t, pdf, "%PDF-1.4")

	if got := waitFor(t, rec.seen); got != pdf {
		t.Errorf("Expected %s, got %s", pdf, got)
	}

	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("Expected only the pdf to be handled, got %d calls", n)
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, dir, rec.handle)

	docx := filepath.Join(dir, "grace.DOCX")
	f, err := os.Create(docx)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		if _, err := f.WriteString("chunk"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	waitFor(t, rec.seen)
	time.Sleep(200 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("Expected a single debounced call, got %d", n)
	}
}

func TestWatcherExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "old.pdf")
	write(t, existing, "%PDF")

	rec := newRecorder()
	startWatcher(t, dir, rec.handle, WithExisting())

	if got := waitFor(t, rec.seen); got != existing {
		t.Errorf("Expected existing file %s, got %s", existing, got)
	}
}

func TestWatcherContinuesAfterHandlerError(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 4)
	startWatcher(t, dir, func(_ context.Context, path string) error {
		seen <- path
		return errors.New("corrupt file")
	})

	write(t, filepath.Join(dir, "a.pdf"), "x")
	waitFor(t, seen)
	write(t, filepath.Join(dir, "b.pdf"), "y")
	if got := waitFor(t, seen); filepath.Base(got) != "b.pdf" {
		t.Errorf("Expected b.pdf after handler error, got %s", got)
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("Expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "file.pdf")
	write(t, file, "x")
	if _, err := New(file, nil); err == nil {
		t.Error("Expected error for non-directory")
	}
}

func TestWatcherStaleTimerKeepsReplacement(t *testing.T) {
	w, err := New(t.TempDir(), newRecorder().handle)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(w.dir, "cv.pdf")
	stale := time.NewTimer(time.Hour)
	current := time.NewTimer(time.Hour)
	defer stale.Stop()
	defer current.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.timers[path] = current

	if w.release(path, stale) {
		t.Error("Expected a replaced timer to be reported as stale")
	}
	if w.timers[path] != current {
		t.Fatal("Expected the replacement timer to stay registered")
	}
	if !w.release(path, current) {
		t.Error("Expected the registered timer to be released")
	}
	if _, ok := w.timers[path]; ok {
		t.Error("Expected the released timer to be unregistered")
	}
}

func TestWatcherRapidRescheduleHandlesOnce(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	w, err := New(dir, rec.handle, WithDebounce(time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "cv.pdf")
	write(t, path, "x")
	for range 200 {
		w.schedule(path)
	}

	queued := 0
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case <-w.ready:
			queued++
		case <-deadline:
			if queued != 1 {
				t.Errorf("Expected the path to be queued once, got %d", queued)
			}
			return
		}
	}
}

func TestShouldProcessEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/u/a.pdf", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/u/a.docx", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/u/a.PDF", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/u/a.pdf", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/u/a.pdf", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/u/a.doc", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/u/a_extracted.txt", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		if got := shouldProcessEvent(tt.event); got != tt.want {
			t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}
