// Package storage provides pluggable key-value storage for flexstore.
//
// The package composes four layers behind a single facade:
//
//   - Backend: the persistence contract (memory, JSON file)
//   - Namespace: key prefixing that isolates logical stores sharing one backend
//   - Transaction: client-buffered operation batches applied in order on commit
//   - Store: the public facade selecting and owning a backend from Config
//
// The package supports:
//
//   - Namespace isolation: stores over one backend never observe each other's keys
//   - Atomic file persistence: full-state rewrite via temp file, fsync, and rename
//   - Corruption recovery: invalid JSON resets to an empty store, surfaced by flag and log
//   - Fail-fast configuration: unimplemented backend kinds fail at construction
//   - Metrics: optional Prometheus registration per store
//
// Absent keys are never errors: Get reports found=false and Delete
// reports removed=false with a nil error. Failures surface as coded
// *Error values compatible with errors.Is and errors.As.
package storage
