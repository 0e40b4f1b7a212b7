// Package repl provides interactive mode for the flexstore CLI.
//
// This package implements the Read-Eval-Print Loop for interactive
// sessions:
//
//   - repl.go: Main loop, prompt, and executor dispatch
//   - completer.go: Command completion (a trailing '?' lists matches)
//   - history.go: Command history persistence (~/.flexstore/history)
//
// The REPL itself knows nothing about storage; command semantics are
// injected through an Executor callback so the command package owns
// the dispatch table.
package repl
