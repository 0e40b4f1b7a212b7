// Package repl provides the interactive shell mode for the flexstore CLI.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs a single shell line. Returned errors are printed but do
// not terminate the loop.
type Executor func(line string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	execute   Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithPrompt sets the prompt string.
func WithPrompt(prompt string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithExecutor sets the line executor.
func WithExecutor(fn Executor) Option {
	return func(r *REPL) { r.execute = fn }
}

// WithInput sets the input reader. Used by tests.
func WithInput(in io.Reader) Option {
	return func(r *REPL) { r.input = in }
}

// WithOutput sets the output writer.
func WithOutput(out io.Writer) Option {
	return func(r *REPL) { r.output = out }
}

// New creates a new REPL instance.
func New(opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "flexstore> ",
		completer: NewCompleter(),
		history:   NewHistory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. History is loaded on entry and saved on
// exit; load and save failures are ignored since history is best
// effort.
func (r *REPL) Run() error {
	r.history.Load()
	defer r.history.Save()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		// A trailing '?' lists matching commands instead of executing.
		if strings.HasSuffix(line, "?") {
			r.suggest(strings.TrimSuffix(line, "?"))
			continue
		}

		if r.execute == nil {
			continue
		}
		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) suggest(prefix string) {
	suggestions := r.completer.Complete(prefix)
	if len(suggestions) == 0 {
		fmt.Fprintf(r.output, "No commands match %q\n", prefix)
		return
	}
	for _, s := range suggestions {
		fmt.Fprintln(r.output, s)
	}
}
