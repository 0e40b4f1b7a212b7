package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend stores entries in an in-process map guarded by a
// single lock. It has no durable state; Close only marks the backend
// closed.
//
// Each backend owns its map. Two stores share state only when the
// same backend instance is injected into both via NewWithBackend.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   map[string]any
	closed bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string]any),
	}
}

// Get retrieves the value stored under key.
func (b *MemoryBackend) Get(_ context.Context, key string) (any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, false, ErrClosed
	}

	value, ok := b.data[key]
	return value, ok, nil
}

// Set stores a key-value pair.
func (b *MemoryBackend) Set(_ context.Context, key string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.data[key] = value
	return nil
}

// Delete removes a key. Returns true if the key existed.
func (b *MemoryBackend) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, ErrClosed
	}

	_, ok := b.data[key]
	if ok {
		delete(b.data, key)
	}
	return ok, nil
}

// Exists reports whether the key is present.
func (b *MemoryBackend) Exists(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false, ErrClosed
	}

	_, ok := b.data[key]
	return ok, nil
}

// Keys returns the keys matching the glob pattern, sorted.
func (b *MemoryBackend) Keys(_ context.Context, pattern string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

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

// Clear removes every key with the given prefix.
func (b *MemoryBackend) Clear(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	if prefix == "" {
		b.data = make(map[string]any)
		return nil
	}

	for key := range b.data {
		if strings.HasPrefix(key, prefix) {
			delete(b.data, key)
		}
	}
	return nil
}

// Close marks the backend closed. There is no durable state to flush;
// repeated calls are no-ops.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return nil
}

// Len returns the number of stored keys.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.data)
}
