// Package main provides the entry point for flexstore.
//
// flexstore is the command-line tool for the flexstore storage
// library, supporting both single-command mode and an interactive
// shell.
package main

import (
	"os"

	"github.com/flext-sh/flexstore/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
