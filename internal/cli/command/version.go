// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/cli/output"
	"github.com/flext-sh/flexstore/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	info := buildinfo.Get()

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, info)
	default:
		fmt.Printf("flexstore %s\n", buildinfo.String())
		fmt.Printf("  go version: %s\n", info.GoVersion)
		return nil
	}
}
