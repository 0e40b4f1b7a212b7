// Package config defines the CLI configuration structure.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/flext-sh/flexstore/internal/infra/confloader"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".flexstore", "config.yaml")
}

// Load loads the CLI configuration by merging, from lowest to highest
// priority: built-in defaults, the config file, FLEXSTORE_* environment
// variables, and the given flag overrides (flat dotted keys, for example
// "storage.backend").
//
// An empty path means the default path; a missing file at the default
// path is not an error, a missing file at an explicit path is.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	opts := []confloader.Option{confloader.WithDefaults(Defaults())}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		opts = append(opts, confloader.WithConfigFile(path))
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	loader := confloader.NewLoader(opts...)

	var cfg CLIConfig
	if err := loader.Load(&cfg); err != nil {
		return nil, err
	}

	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		cfg = CLIConfig{}
		if err := loader.Unmarshal(&cfg); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Save writes the configuration to the given path as YAML. An empty
// path means the default path. The file is written with 0600
// permissions since config files may name private store locations.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
