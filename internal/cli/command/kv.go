// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/cli/output"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value stored under a key",
		ArgsUsage: "KEY",
		Action:    getAction,
	}
}

func getAction(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key required")
	}

	st, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, found, err := st.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("key %q not found", key)
	}

	switch output.Format(cfg.Output) {
	case output.FormatJSON, output.FormatYAML:
		return formatterFor(c, cfg).Format(os.Stdout, value)
	default:
		return printValue(os.Stdout, value)
	}
}

// printValue prints a stored value in the default table mode. Scalars
// print bare so shell pipelines can consume them; composites render as
// a key-value table.
func printValue(w io.Writer, value any) error {
	switch value.(type) {
	case map[string]any, []any:
		formatter := &output.TableFormatter{Wide: true}
		return formatter.Format(w, value)
	case nil:
		_, err := fmt.Fprintln(w, "null")
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", value)
		return err
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value under a key",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Decode VALUE as JSON instead of storing it as a string",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("key and value required")
	}
	key := c.Args().Get(0)
	raw := c.Args().Get(1)
	if key == "" {
		return fmt.Errorf("key required")
	}

	var value any = raw
	if c.Bool("json") {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("parse value as JSON: %w", err)
		}
	}

	st, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := st.Set(ctx, key, value); err != nil {
		return err
	}

	fmt.Println("OK")
	return nil
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Aliases:   []string{"delete", "rm"},
		Usage:     "Delete a key",
		ArgsUsage: "KEY",
		Action:    delAction,
	}
}

func delAction(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key required")
	}

	st, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	deleted, err := st.Delete(ctx, key)
	if err != nil {
		return err
	}

	// Deleting an absent key is not an error, just report it.
	if deleted {
		fmt.Printf("Deleted %q\n", key)
	} else {
		fmt.Printf("Key %q not found\n", key)
	}
	return nil
}

// ExistsCommand returns the exists command.
func ExistsCommand() *cli.Command {
	return &cli.Command{
		Name:      "exists",
		Usage:     "Check whether a key exists",
		ArgsUsage: "KEY",
		Action:    existsAction,
	}
}

func existsAction(c *cli.Context) error {
	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("key required")
	}

	st, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	found, err := st.Exists(ctx, key)
	if err != nil {
		return err
	}

	fmt.Println(found)
	return nil
}

// KeysCommand returns the keys command.
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:      "keys",
		Usage:     "List keys, optionally filtered by a glob pattern",
		ArgsUsage: "[PATTERN]",
		Action:    keysAction,
	}
}

func keysAction(c *cli.Context) error {
	pattern := c.Args().First()

	st, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	keys, err := st.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	switch output.Format(cfg.Output) {
	case output.FormatJSON, output.FormatYAML:
		return formatterFor(c, cfg).Format(os.Stdout, keys)
	default:
		// One key per line for easy scripting.
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	}
}

// ClearCommand returns the clear command.
func ClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove all keys in the configured namespace",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"y"},
				Usage:   "Skip confirmation",
			},
		},
		Action: clearAction,
	}
}

func clearAction(c *cli.Context) error {
	st, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	if !c.Bool("force") {
		target := "all keys"
		if cfg.Storage.Namespace != "" {
			target = fmt.Sprintf("all keys in namespace %q", cfg.Storage.Namespace)
		}
		fmt.Printf("This will remove %s. Type 'yes' to confirm: ", target)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := st.Clear(ctx); err != nil {
		return err
	}

	fmt.Println("Cleared.")
	return nil
}
