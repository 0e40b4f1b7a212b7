// Package command provides CLI command definitions for the flexstore CLI.
package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/flext-sh/flexstore/internal/cli/output"
	"github.com/flext-sh/flexstore/internal/telemetry/logger"
)

// Batch is a transaction batch file. All operations are staged into a
// single transaction and committed together.
type Batch struct {
	Ops []BatchOp `yaml:"ops"`
}

// BatchOp is one step in a batch.
type BatchOp struct {
	Op    string `yaml:"op"`    // set or delete
	Key   string `yaml:"key"`   // target key, namespace applies
	Value any    `yaml:"value"` // set only
}

// Counts returns the number of set and delete steps.
func (b *Batch) Counts() (sets, deletes int) {
	for _, op := range b.Ops {
		switch strings.ToLower(op.Op) {
		case "set":
			sets++
		case "delete":
			deletes++
		}
	}
	return sets, deletes
}

// LoadBatch reads and validates a batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}

	if err := validateBatch(&batch); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &batch, nil
}

func validateBatch(b *Batch) error {
	if len(b.Ops) == 0 {
		return fmt.Errorf("batch has no operations")
	}
	for i, op := range b.Ops {
		if op.Key == "" {
			return fmt.Errorf("op %d: key required", i+1)
		}
		switch strings.ToLower(op.Op) {
		case "set":
		case "delete":
			// A value on a delete is usually a YAML indentation
			// mistake, so reject it rather than ignore it.
			if op.Value != nil {
				return fmt.Errorf("op %d: delete must not carry a value", i+1)
			}
		default:
			return fmt.Errorf("op %d: unknown op %q (want set or delete)", i+1, op.Op)
		}
	}
	return nil
}

// TxnCommand returns the txn subcommand group.
func TxnCommand() *cli.Command {
	return &cli.Command{
		Name:  "txn",
		Usage: "Transactional batch operations",
		Subcommands: []*cli.Command{
			{
				Name:      "apply",
				Usage:     "Apply a batch file as a single transaction",
				ArgsUsage: "BATCH_FILE",
				Action:    txnApplyAction,
			},
			{
				Name:      "validate",
				Usage:     "Validate a batch file without applying it",
				ArgsUsage: "BATCH_FILE",
				Action:    txnValidateAction,
			},
		},
	}
}

func txnApplyAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("batch file required")
	}

	batch, err := LoadBatch(path)
	if err != nil {
		return err
	}

	st, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Begin()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	ctx = logger.WithTransactionID(ctx, id)

	bar := output.NewProgressBar(os.Stderr, "Staging")
	bar.SetTotal(int64(len(batch.Ops)))
	for i, op := range batch.Ops {
		switch strings.ToLower(op.Op) {
		case "set":
			err = st.SetTx(id, op.Key, op.Value)
		case "delete":
			err = st.DeleteTx(id, op.Key)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr)
			st.Rollback(id)
			return fmt.Errorf("stage op %d: %w", i+1, err)
		}
		bar.Increment(1)
	}
	bar.Finish()

	logger.L(ctx).Debug("committing batch",
		"file", path,
		"ops", len(batch.Ops))

	sp := output.NewSpinner(os.Stderr, fmt.Sprintf("Committing %d operations...", len(batch.Ops)))
	sp.Start()
	if err := st.Commit(ctx, id); err != nil {
		sp.Fail(fmt.Sprintf("Commit failed: %v", err))
		return err
	}
	sp.Success(fmt.Sprintf("Applied %d operations", len(batch.Ops)))

	fmt.Printf("Transaction %s committed.\n", id)
	return nil
}

func txnValidateAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("batch file required")
	}

	batch, err := LoadBatch(path)
	if err != nil {
		return err
	}

	sets, deletes := batch.Counts()
	fmt.Printf("✓ %s: %d operations (%d set, %d delete)\n", path, len(batch.Ops), sets, deletes)
	return nil
}
