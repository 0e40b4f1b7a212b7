// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/cli/config"
	"github.com/flext-sh/flexstore/storage"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the resolved configuration",
				Action: configShowAction,
			},
			{
				Name:  "init",
				Usage: "Write a config file with the current settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInitAction,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPathAction,
			},
		},
	}
}

func configShowAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	// Flatten for display; nested structs render poorly as FIELD/VALUE.
	resolved := map[string]any{
		"storage.backend":   cfg.Storage.Backend,
		"storage.namespace": cfg.Storage.Namespace,
		"storage.file_path": cfg.Storage.FilePath,
		"output":            cfg.Output,
		"log.level":         cfg.Log.Level,
		"log.format":        cfg.Log.Format,
	}

	return formatterFor(c, cfg).Format(os.Stdout, resolved)
}

func configInitAction(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %s exists (use --force to overwrite)", path)
	}

	// Start from defaults and fold in explicitly set flags, so e.g.
	// `flexstore -f store.json config init` pins the file backend.
	cfg := config.Default()
	if c.IsSet("backend") {
		cfg.Storage.Backend = c.String("backend")
	}
	if c.IsSet("file") {
		cfg.Storage.FilePath = c.String("file")
		if !c.IsSet("backend") {
			cfg.Storage.Backend = string(storage.BackendFile)
		}
	}
	if c.IsSet("namespace") {
		cfg.Storage.Namespace = c.String("namespace")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func configPathAction(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Println(path)
	return nil
}
