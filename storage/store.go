package storage

import (
	"context"
	"log/slog"
	"sort"

	"github.com/flext-sh/flexstore/pkg/cmap"
)

// Store is the public storage facade.
//
// A Store owns (or shares) exactly one Backend and scopes every key it
// touches to its configured namespace. Mutations can be buffered in
// client-side transactions and applied in order on Commit. The backend
// is fixed for the store's lifetime; it is never swapped at runtime.
type Store struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger

	// Live transactions: id -> operation buffer.
	txns *cmap.Map[*transaction]

	// ownsBackend is false for stores over an injected backend;
	// Close then leaves the backend open for its other users.
	ownsBackend bool

	metrics *storeMetrics
}

// New creates a Store from cfg, constructing the backend it selects.
//
// Unimplemented backend kinds (redis, database) fail here, at
// configuration time, never at first use.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var backend Backend
	switch cfg.Backend {
	case BackendMemory:
		backend = NewMemoryBackend()
	case BackendFile:
		fb, err := NewFileBackend(cfg.FilePath, WithFileLogger(cfg.Logger))
		if err != nil {
			return nil, err
		}
		backend = fb
	default:
		// Validate rejects everything else before this point.
		return nil, ErrInvalidBackend.WithDetails(string(cfg.Backend))
	}

	s := newStore(cfg, backend)
	s.ownsBackend = true
	s.logger.Debug("store created",
		"backend", string(cfg.Backend),
		"namespace", cfg.Namespace)
	return s, nil
}

// NewWithBackend creates a Store over an injected, possibly shared
// backend. cfg.Backend and cfg.FilePath are ignored; the namespace and
// logger apply. Closing the returned store leaves the backend open.
func NewWithBackend(cfg Config, backend Backend) (*Store, error) {
	if backend == nil {
		return nil, ErrInvalidBackend.WithDetails("nil backend")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return newStore(cfg, backend), nil
}

// NewFileStore creates a file-backed Store at path with the given
// namespace, without building a Config by hand.
func NewFileStore(path, namespace string) (*Store, error) {
	return New(Config{
		Backend:   BackendFile,
		Namespace: namespace,
		FilePath:  path,
	})
}

func newStore(cfg Config, backend Backend) *Store {
	return &Store{
		cfg:     cfg,
		backend: backend,
		logger:  cfg.Logger,
		txns:    cmap.New[*transaction](),
	}
}

// Namespace returns the store's configured namespace.
func (s *Store) Namespace() string {
	return s.cfg.Namespace
}

// Backend returns the underlying backend. Mutating it directly
// bypasses the namespace layer; intended for sharing via
// NewWithBackend and for diagnostics.
func (s *Store) Backend() Backend {
	return s.backend
}

// encode returns the raw backend key for a bare key.
func (s *Store) encode(key string) string {
	return encodeKey(s.cfg.Namespace, key)
}

// Get retrieves the value stored under key in this store's namespace.
// Absent keys return found=false with a nil error.
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	value, found, err := s.backend.Get(ctx, s.encode(key))
	s.observe("get", err)
	return value, found, err
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	err := s.backend.Set(ctx, s.encode(key), value)
	s.observe("set", err)
	if err == nil {
		s.refreshKeyGauge(ctx)
	}
	return err
}

// Delete removes key. Returns true if the key existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := s.backend.Delete(ctx, s.encode(key))
	s.observe("delete", err)
	if err == nil {
		s.refreshKeyGauge(ctx)
	}
	return removed, err
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	found, err := s.backend.Exists(ctx, s.encode(key))
	s.observe("exists", err)
	return found, err
}

// Keys returns the bare keys of this store's namespace matching
// pattern, sorted. Patterns apply to bare keys: Keys(ctx, "a*")
// returns exactly the keys whose name starts with "a", regardless of
// the namespace prefix on the backend.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	raw, err := s.backend.Keys(ctx, "")
	if err != nil {
		s.observe("keys", err)
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for _, rk := range raw {
		bare, ok := decodeKey(s.cfg.Namespace, rk)
		if !ok {
			continue
		}
		if matchPattern(pattern, bare) {
			keys = append(keys, bare)
		}
	}
	sort.Strings(keys)

	s.observe("keys", nil)
	return keys, nil
}

// Clear removes every key in this store's namespace. Other namespaces
// sharing the backend are untouched. A store with an empty namespace
// clears the entire backend.
func (s *Store) Clear(ctx context.Context) error {
	err := s.backend.Clear(ctx, namespacePrefix(s.cfg.Namespace))
	s.observe("clear", err)
	if err == nil {
		s.refreshKeyGauge(ctx)
	}
	return err
}

// Close releases the store. An owned backend is flushed and closed;
// an injected backend is left open for its other users.
func (s *Store) Close() error {
	if !s.ownsBackend {
		return nil
	}
	return s.backend.Close()
}
