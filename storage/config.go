package storage

import (
	"log/slog"
	"strings"
)

// BackendKind identifies a storage backend implementation.
type BackendKind string

// Known backend kinds. Redis and database are declared for forward
// compatibility of the configuration surface; selecting them fails at
// construction time with ErrBackendNotImplemented.
const (
	BackendMemory   BackendKind = "memory"
	BackendFile     BackendKind = "file"
	BackendRedis    BackendKind = "redis"
	BackendDatabase BackendKind = "database"
)

// ParseBackendKind parses a backend kind from its string form.
//
// All declared kinds parse successfully, including the unimplemented
// ones; New rejects those later so that misconfiguration is reported
// as "not implemented" rather than "unknown".
func ParseBackendKind(s string) (BackendKind, error) {
	switch kind := BackendKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case BackendMemory, BackendFile, BackendRedis, BackendDatabase:
		return kind, nil
	default:
		return "", ErrInvalidBackend.WithDetails(s)
	}
}

// Config configures a Store.
//
// A Config is read once at construction; later changes have no effect
// on the store built from it.
type Config struct {
	// Backend selects the storage backend implementation.
	Backend BackendKind

	// Namespace isolates this store's keys from other stores sharing
	// the same backend. Empty disables prefixing: the store then sees
	// (and clears) every key on the backend.
	Namespace string

	// FilePath is the JSON file location. Required for BackendFile,
	// ignored otherwise.
	FilePath string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultConfig returns a memory-backed configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Logger:  slog.Default(),
	}
}

// Validate checks the configuration for construction-time errors.
//
// Unimplemented backend kinds are rejected here so they can never fail
// lazily at first use.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendFile:
		if c.FilePath == "" {
			return ErrMissingFilePath
		}
		return nil
	case BackendRedis, BackendDatabase:
		return ErrBackendNotImplemented.WithDetails(string(c.Backend))
	case "":
		return ErrInvalidBackend.WithDetails("backend kind is empty")
	default:
		return ErrInvalidBackend.WithDetails(string(c.Backend))
	}
}
