// Package config defines the CLI configuration structure.
package config

import (
	"github.com/flext-sh/flexstore/storage"
)

// CLIConfig is the configuration for the flexstore CLI.
type CLIConfig struct {
	// Storage selects and parameterizes the backend.
	Storage StorageSettings `koanf:"storage" yaml:"storage"`

	// Output is the default output format: table, json, yaml.
	Output string `koanf:"output" yaml:"output"`

	// Log controls CLI logging.
	Log LogSettings `koanf:"log" yaml:"log"`
}

// StorageSettings selects the storage backend for CLI commands.
type StorageSettings struct {
	Backend   string `koanf:"backend" yaml:"backend"` // memory, file, redis, database
	Namespace string `koanf:"namespace" yaml:"namespace"`
	FilePath  string `koanf:"file_path" yaml:"file_path"`
}

// LogSettings controls CLI log output.
type LogSettings struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Storage: StorageSettings{
			Backend: string(storage.BackendMemory),
		},
		Output: "table",
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Defaults returns the default configuration as a flat key map for the
// configuration loader.
func Defaults() map[string]any {
	return map[string]any{
		"storage.backend":   string(storage.BackendMemory),
		"storage.namespace": "",
		"storage.file_path": "",
		"output":            "table",
		"log.level":         "info",
		"log.format":        "text",
	}
}

// StorageConfig converts the CLI settings into a storage configuration.
// The logger is left unset so the caller can attach its own.
func (c *CLIConfig) StorageConfig() (storage.Config, error) {
	kind, err := storage.ParseBackendKind(c.Storage.Backend)
	if err != nil {
		return storage.Config{}, err
	}

	return storage.Config{
		Backend:   kind,
		Namespace: c.Storage.Namespace,
		FilePath:  c.Storage.FilePath,
	}, nil
}
