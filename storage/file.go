package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileBackend keeps the authoritative mapping in memory and mirrors it
// to a JSON file on every mutation.
//
// The file holds a single JSON object whose top-level keys are the raw
// (namespaced) storage keys. Reads are served from the in-memory map
// and never re-read the file. Saves rewrite the complete state
// atomically: temp file, fsync, rename. A failed save restores the
// map to its pre-operation state, so no partial mutation survives a
// persist failure.
type FileBackend struct {
	path   string
	logger *slog.Logger

	mu        sync.Mutex
	data      map[string]any
	closed    bool
	recovered bool
}

// FileOption configures a FileBackend.
type FileOption func(*FileBackend)

// WithFileLogger sets the structured logger.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(b *FileBackend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewFileBackend opens (or creates) a JSON-file-backed store at path.
//
// A missing file yields an empty store. A file that does not hold a
// JSON object (malformed JSON, or the literal null) also yields an
// empty store: construction never fails on corrupt content.
// The corrupt state is discarded, a warning is logged, and
// RecoveredFromCorruption reports true so callers can tell recovery
// apart from a fresh store.
func NewFileBackend(path string, opts ...FileOption) (*FileBackend, error) {
	if path == "" {
		return nil, ErrMissingFilePath
	}

	b := &FileBackend{
		path:   path,
		logger: slog.Default(),
		data:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(b)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, ErrIO.WithDetails("create store directory").WithCause(err)
		}
	}

	if err := b.load(); err != nil {
		return nil, err
	}

	return b, nil
}

// load reads the backing file into the in-memory map.
func (b *FileBackend) load() error {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ErrIO.WithDetails("read store file").WithCause(err)
	}

	// A zero-byte file is an empty store, not corruption.
	if len(raw) == 0 {
		return nil
	}

	var data map[string]any
	err = json.Unmarshal(raw, &data)
	if err == nil && data == nil {
		// The literal null decodes into a nil map with no error, and
		// the file must hold a JSON object.
		err = errors.New("null is not a JSON object")
	}
	if err != nil {
		b.recovered = true
		b.data = make(map[string]any)
		b.logger.Warn("store file corrupted, starting with empty store",
			"path", b.path,
			"error", err)
		return nil
	}

	b.data = data
	return nil
}

// RecoveredFromCorruption reports whether the backing file held
// invalid JSON at open time and the store was reset to empty.
func (b *FileBackend) RecoveredFromCorruption() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.recovered
}

// Path returns the backing file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Get retrieves the value stored under key.
func (b *FileBackend) Get(_ context.Context, key string) (any, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, false, ErrClosed
	}

	value, ok := b.data[key]
	return value, ok, nil
}

// Set stores a key-value pair and persists the full state.
func (b *FileBackend) Set(_ context.Context, key string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	prev, existed := b.data[key]
	b.data[key] = value

	if err := b.saveLocked(); err != nil {
		if existed {
			b.data[key] = prev
		} else {
			delete(b.data, key)
		}
		return err
	}
	return nil
}

// Delete removes a key and persists the full state.
// Returns true if the key existed.
func (b *FileBackend) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, ErrClosed
	}

	prev, existed := b.data[key]
	if !existed {
		return false, nil
	}
	delete(b.data, key)

	if err := b.saveLocked(); err != nil {
		b.data[key] = prev
		return false, err
	}
	return true, nil
}

// Exists reports whether the key is present.
func (b *FileBackend) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, ErrClosed
	}

	_, ok := b.data[key]
	return ok, nil
}

// Keys returns the keys matching the glob pattern, sorted.
func (b *FileBackend) Keys(_ context.Context, pattern string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(b.data))
	for key := range b.data {
		if matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every key with the given prefix and persists the full
// state. Keys outside the prefix are untouched.
func (b *FileBackend) Clear(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	removed := make(map[string]any)
	for key, value := range b.data {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			removed[key] = value
		}
	}
	if len(removed) == 0 {
		return nil
	}

	for key := range removed {
		delete(b.data, key)
	}

	if err := b.saveLocked(); err != nil {
		for key, value := range removed {
			b.data[key] = value
		}
		return err
	}
	return nil
}

// Close performs a final save and marks the backend closed.
//
// A failed save leaves the backend open so the caller can retry;
// closing an already-closed backend is a no-op.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	if err := b.saveLocked(); err != nil {
		return err
	}
	b.closed = true
	return nil
}

// saveLocked serializes the complete map to the backing file.
// Callers must hold b.mu.
func (b *FileBackend) saveLocked() error {
	data, err := json.MarshalIndent(b.data, "", "  ")
	if err != nil {
		return ErrSerialization.WithDetails("encode store file").WithCause(err)
	}

	tempPath := b.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return ErrIO.WithDetails("create temp file").WithCause(err)
	}
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return ErrIO.WithDetails("write store file").WithCause(err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return ErrIO.WithDetails("sync store file").WithCause(err)
	}
	if err := file.Close(); err != nil {
		return ErrIO.WithDetails("close store file").WithCause(err)
	}

	if err := os.Rename(tempPath, b.path); err != nil {
		return ErrIO.WithDetails("rename store file").WithCause(err)
	}
	return nil
}
