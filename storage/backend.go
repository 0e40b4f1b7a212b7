package storage

import "context"

// Backend defines the contract for key-value persistence media.
//
// Implementations must be safe for concurrent use. Absent keys are
// reported through return values, never as errors: Get returns
// found=false and Delete returns removed=false for keys that do not
// exist. Every method may fail on medium-level errors (I/O failure,
// unserializable value, closed backend).
//
// Backends operate on raw keys. Namespace prefixing happens above
// them, in the Store facade; a backend shared by several stores holds
// the union of their namespaced keys.
type Backend interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) (value any, found bool, err error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key string, value any) error

	// Delete removes a key. Returns true if the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns the keys matching the glob pattern, sorted.
	// An empty pattern (or "*") returns all keys.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Clear removes every key with the given prefix.
	// An empty prefix removes all keys.
	Clear(ctx context.Context, prefix string) error

	// Close flushes pending durable state. Idempotent.
	Close() error
}
