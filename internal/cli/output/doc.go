// Package output provides output formatting for the flexstore CLI.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode and value truncation
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - progress.go: Progress bar for batch operations
//   - spinner.go: Progress animation for long operations
//
// Formatters support:
//
//   - Multiple output formats (table, json, yaml)
//   - Wide mode for full-length values
//   - Deterministic table output (map keys are sorted)
//   - Machine-readable output for scripting
package output
