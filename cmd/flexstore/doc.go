// Package main provides the entry point for flexstore.
//
// The flexstore CLI gives command-line access to a flexstore store
// for:
//
//   - Key-value operations (get, set, del, exists, keys, clear)
//   - Transactional batch apply from YAML files
//   - Watching a file-backed store for changes
//   - Configuration management
//
// Usage:
//
//	flexstore [command] [flags]
//	flexstore --file data.json set greeting hello
//	flexstore --file data.json get greeting --output json
//	flexstore shell
//
// The CLI supports both single-command mode and an interactive shell.
package main
