// Package command provides CLI command definitions for flexstore.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, config resolution
//   - kv.go: get, set, del, exists, keys, clear
//   - txn.go: Transactional batch apply and validate
//   - watch.go: Store file change watching
//   - shell.go: Interactive shell with transaction state
//   - config.go: CLI configuration subcommand group
//   - version.go: Version information
//
// Commands follow a consistent pattern: resolve configuration, open
// the store, run the operation, format output. Stores are opened per
// command invocation and closed before exit.
package command
