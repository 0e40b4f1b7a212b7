// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/cli/config"
	"github.com/flext-sh/flexstore/internal/cli/output"
	"github.com/flext-sh/flexstore/internal/infra/buildinfo"
	"github.com/flext-sh/flexstore/internal/telemetry/logger"
	"github.com/flext-sh/flexstore/storage"
)

// opTimeout bounds a single storage operation issued by a command.
const opTimeout = 30 * time.Second

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "flexstore",
		Usage:   "FLEXT key-value storage command-line tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			DelCommand(),
			ExistsCommand(),
			KeysCommand(),
			ClearCommand(),
			TxnCommand(),
			WatchCommand(),
			ShellCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}

			level := "info"
			if c.Bool("verbose") {
				level = "debug"
			}
			log, err := logger.New(logger.Config{
				Level:  level,
				Format: "text",
				Output: os.Stderr,
			})
			if err != nil {
				return err
			}
			logger.SetDefault(log)
			c.App.Metadata["logger"] = log
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default ~/.flexstore/config.yaml)",
			EnvVars: []string{"FLEXSTORE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "backend",
			Aliases: []string{"b"},
			Usage:   "Storage backend: memory, file, redis, database",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Store file path (selects the file backend)",
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Usage:   "Key namespace prefix",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show full values without truncation",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	// Store selection
	ConfigPath string
	Backend    string
	FilePath   string
	Namespace  string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	// Other
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigPath: c.String("config"),
		Backend:    c.String("backend"),
		FilePath:   c.String("file"),
		Namespace:  c.String("namespace"),
		Output:     c.String("output"),
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// resolveConfig merges the config file, environment, and explicitly set
// flags into the effective CLI configuration.
func resolveConfig(c *cli.Context) (*config.CLIConfig, error) {
	overrides := make(map[string]any)
	if c.IsSet("backend") {
		overrides["storage.backend"] = c.String("backend")
	}
	if c.IsSet("file") {
		overrides["storage.file_path"] = c.String("file")
	}
	if c.IsSet("namespace") {
		overrides["storage.namespace"] = c.String("namespace")
	}
	if c.IsSet("output") {
		overrides["output"] = c.String("output")
	}

	cfg, err := config.Load(c.String("config"), overrides)
	if err != nil {
		return nil, err
	}

	if _, err := output.ParseFormat(cfg.Output); err != nil {
		return nil, err
	}

	// --file alone implies the file backend.
	if c.IsSet("file") && !c.IsSet("backend") {
		cfg.Storage.Backend = string(storage.BackendFile)
	}

	if !c.Bool("verbose") {
		logger.SetLevel(cfg.Log.Level)
	}

	return cfg, nil
}

// openStore builds the store selected by the resolved configuration.
// Callers own the returned store and must Close it.
func openStore(c *cli.Context) (*storage.Store, *config.CLIConfig, error) {
	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, nil, err
	}

	scfg, err := cfg.StorageConfig()
	if err != nil {
		return nil, nil, err
	}
	scfg.Logger = logger.Slog(appLogger(c))

	st, err := storage.New(scfg)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// appLogger returns the logger created by the Before hook, falling back
// to the package default when none was set (direct Action calls in
// tests).
func appLogger(c *cli.Context) logger.Logger {
	if c.App != nil {
		if l, ok := c.App.Metadata["logger"].(logger.Logger); ok {
			return l
		}
	}
	return logger.Default()
}

// formatterFor builds the output formatter for a command from the
// resolved config and flags.
func formatterFor(c *cli.Context, cfg *config.CLIConfig) output.Formatter {
	return output.NewFormatter(output.Format(cfg.Output), c.Bool("wide"))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
