package storage

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event describes one observed change to a watched store file.
type Event struct {
	// Path is the store file path as reported by the filesystem.
	Path string

	// Op is the filesystem operation (write, create, remove, rename).
	Op fsnotify.Op
}

// Watcher observes a store file for external changes.
//
// A FileBackend never re-reads its file, so edits from other processes
// are invisible to a running store. The watcher lets callers notice
// such edits and reopen the store when they care. It watches the
// file's directory rather than the file itself to catch editor-style
// replace-by-rename updates.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu        sync.RWMutex
	callbacks []func(Event)

	done chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the store file at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrIO.WithDetails("create watcher").WithCause(err)
	}

	w := &Watcher{
		path:    path,
		watcher: fsw,
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Watch the directory, not the file, to catch vim-style renames.
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, ErrIO.WithDetails("watch directory " + dir).WithCause(err)
	}

	w.logger.Debug("watching store file",
		"dir", dir,
		"file", filepath.Base(path))
	return w, nil
}

// OnChange registers a callback invoked for every change to the
// watched file. Callbacks run on the watcher goroutine; slow callbacks
// delay later events.
func (w *Watcher) OnChange(callback func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start watches for changes. It blocks until Stop is called.
func (w *Watcher) Start() {
	w.logger.Info("store file watcher started", "path", w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Debug("store file changed",
					"file", event.Name,
					"op", event.Op.String())
				w.notify(Event{Path: event.Name, Op: event.Op})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("store file watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher and releases the filesystem handle.
func (w *Watcher) Stop() error {
	close(w.done)
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("close store file watcher failed", "error", err)
		return ErrIO.WithDetails("close watcher").WithCause(err)
	}
	w.logger.Info("store file watcher stopped", "path", w.path)
	return nil
}

// matches reports whether a directory event concerns the watched file.
func (w *Watcher) matches(name string) bool {
	return filepath.Base(name) == filepath.Base(w.path)
}

// notify calls all registered callbacks.
func (w *Watcher) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(event)
	}
}
