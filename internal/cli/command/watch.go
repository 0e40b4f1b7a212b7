// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/infra/shutdown"
	"github.com/flext-sh/flexstore/internal/telemetry/logger"
	"github.com/flext-sh/flexstore/storage"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Watch the store file for external changes",
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.Storage.FilePath == "" {
		return fmt.Errorf("watch requires a file-backed store (--file or storage.file_path)")
	}

	w, err := storage.NewWatcher(cfg.Storage.FilePath,
		storage.WithWatcherLogger(logger.Slog(appLogger(c))))
	if err != nil {
		return err
	}

	w.OnChange(func(ev storage.Event) {
		fmt.Printf("%s %s %s\n", time.Now().Format(time.RFC3339), ev.Op, ev.Path)
	})

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", cfg.Storage.FilePath)
	w.StartAsync()

	handler := shutdown.NewHandler(5 * time.Second)
	handler.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
	return handler.Wait()
}
