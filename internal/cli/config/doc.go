// Package config provides CLI configuration for flexstore.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.flexstore/config.yaml)
//   - loader.go: Configuration loading, merging, and saving
//
// Configuration includes:
//
//   - Storage backend selection (memory, file) and parameters
//   - Output format preference (table, json, yaml)
//   - Log level and format
//
// Sources merge in priority order: flags, environment, config file,
// defaults. The merge itself is handled by the confloader package.
package config
