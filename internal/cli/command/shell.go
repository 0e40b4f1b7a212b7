// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/urfave/cli/v2"

	"github.com/flext-sh/flexstore/internal/cli/config"
	"github.com/flext-sh/flexstore/internal/cli/repl"
	"github.com/flext-sh/flexstore/storage"
)

// ShellCommand returns the shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"sh"},
		Usage:   "Interactive shell against the configured store",
		Action:  shellAction,
	}
}

func shellAction(c *cli.Context) error {
	st, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	session := &shellSession{store: st, cfg: cfg, out: os.Stdout}

	fmt.Printf("flexstore shell, %s backend. Type 'help' for commands, 'exit' to leave.\n",
		cfg.Storage.Backend)

	r := repl.New(
		repl.WithPrompt(promptFor(cfg)),
		repl.WithExecutor(session.execute),
	)
	return r.Run()
}

func promptFor(cfg *config.CLIConfig) string {
	if cfg.Storage.Namespace != "" {
		return fmt.Sprintf("flexstore(%s)> ", cfg.Storage.Namespace)
	}
	return "flexstore> "
}

// shellSession dispatches shell lines against an open store. At most
// one transaction is active per session; while it is, set and del
// stage into it instead of writing through.
type shellSession struct {
	store *storage.Store
	cfg   *config.CLIConfig
	out   io.Writer
	txnID string
}

func (s *shellSession) execute(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help":
		return s.help()
	case "get":
		return s.get(ctx, args)
	case "set":
		return s.set(ctx, args)
	case "del":
		return s.del(ctx, args)
	case "exists":
		return s.exists(ctx, args)
	case "keys":
		return s.keys(ctx, args)
	case "clear":
		return s.clear(ctx, args)
	case "begin":
		return s.begin()
	case "commit":
		return s.commit(ctx)
	case "rollback":
		return s.rollback()
	case "txn":
		return s.txnStatus()
	case "ns":
		fmt.Fprintf(s.out, "%q\n", s.store.Namespace())
		return nil
	case "backend":
		fmt.Fprintln(s.out, s.cfg.Storage.Backend)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help, or a trailing '?' to complete)", cmd)
	}
}

func (s *shellSession) help() error {
	fmt.Fprint(s.out, `Commands:
  get KEY            Print the value stored under KEY
  set KEY VALUE      Store VALUE under KEY (quote values with spaces)
  del KEY            Delete KEY
  exists KEY         Print true if KEY is set
  keys [PATTERN]     List keys, optionally filtered by a glob pattern
  clear yes          Remove all keys in the namespace
  begin              Start a transaction; set/del stage until commit
  commit             Apply the staged operations in order
  rollback           Discard the staged operations
  txn                Show transaction status
  ns                 Show the configured namespace
  backend            Show the configured backend
  help               Show this help
  exit, quit         Leave the shell

Values are stored as strings; use 'flexstore set --json' for typed
values. Reads do not see operations staged in an open transaction.
`)
	return nil
}

func (s *shellSession) get(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: get KEY")
	}

	value, found, err := s.store.Get(ctx, args[1])
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(s.out, "(not found)")
		return nil
	}
	return printValue(s.out, value)
}

func (s *shellSession) set(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: set KEY VALUE (quote values containing spaces)")
	}
	key, value := args[1], args[2]

	if s.txnID != "" {
		if err := s.store.SetTx(s.txnID, key, value); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "QUEUED")
		return nil
	}

	if err := s.store.Set(ctx, key, value); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *shellSession) del(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: del KEY")
	}
	key := args[1]

	if s.txnID != "" {
		if err := s.store.DeleteTx(s.txnID, key); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "QUEUED")
		return nil
	}

	deleted, err := s.store.Delete(ctx, key)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(s.out, "Deleted.")
	} else {
		fmt.Fprintln(s.out, "(not found)")
	}
	return nil
}

func (s *shellSession) exists(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: exists KEY")
	}

	found, err := s.store.Exists(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, found)
	return nil
}

func (s *shellSession) keys(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("usage: keys [PATTERN]")
	}
	pattern := ""
	if len(args) == 2 {
		pattern = args[1]
	}

	keys, err := s.store.Keys(ctx, pattern)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(s.out, k)
	}
	return nil
}

func (s *shellSession) clear(ctx context.Context, args []string) error {
	// The REPL owns stdin, so there is no interactive confirmation
	// here; the confirmation word rides on the command line instead.
	if len(args) != 2 || args[1] != "yes" {
		fmt.Fprintln(s.out, "This removes all keys in the namespace. Run 'clear yes' to confirm.")
		return nil
	}

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Cleared.")
	return nil
}

func (s *shellSession) begin() error {
	if s.txnID != "" {
		return fmt.Errorf("transaction %s already active", s.txnID)
	}

	id, err := s.store.Begin()
	if err != nil {
		return err
	}
	s.txnID = id
	fmt.Fprintf(s.out, "Transaction %s started. Mutations are staged until commit.\n", id)
	return nil
}

func (s *shellSession) commit(ctx context.Context) error {
	if s.txnID == "" {
		return fmt.Errorf("no active transaction")
	}

	id := s.txnID
	s.txnID = ""
	if err := s.store.Commit(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Transaction %s committed.\n", id)
	return nil
}

func (s *shellSession) rollback() error {
	if s.txnID == "" {
		return fmt.Errorf("no active transaction")
	}

	id := s.txnID
	s.txnID = ""
	if err := s.store.Rollback(id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Transaction %s rolled back.\n", id)
	return nil
}

func (s *shellSession) txnStatus() error {
	if s.txnID == "" {
		fmt.Fprintln(s.out, "No active transaction.")
		return nil
	}
	fmt.Fprintf(s.out, "Active transaction: %s\n", s.txnID)
	return nil
}

// splitArgs splits a shell line into arguments, honoring double quotes
// so values may contain spaces.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote := false
	hasToken := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case unicode.IsSpace(r) && !inQuote:
			if hasToken {
				args = append(args, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if hasToken {
		args = append(args, cur.String())
	}
	return args, nil
}
