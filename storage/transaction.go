package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TransactionIDPrefix prefixes every transaction identifier.
// Format: txn-{ulid_lowercase}, 30 characters total.
const TransactionIDPrefix = "txn-"

// OpKind identifies the kind of a buffered transaction operation.
type OpKind uint8

const (
	OpKindUnspecified OpKind = iota
	OpKindSet
	OpKindDelete
)

// String returns the lowercase name of the op kind.
func (k OpKind) String() string {
	switch k {
	case OpKindSet:
		return "set"
	case OpKindDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Op is one buffered mutation inside a transaction.
// Delete operations carry no value.
type Op struct {
	Kind  OpKind
	Key   string
	Value any
}

// transaction holds the ordered operation buffer for one live
// transaction. It owns no backend state until committed.
type transaction struct {
	id        string
	createdAt int64 // Unix milliseconds

	mu  sync.Mutex
	ops []Op
}

func newTransaction(id string) *transaction {
	return &transaction{
		id:        id,
		createdAt: time.Now().UnixMilli(),
	}
}

func (t *transaction) append(op Op) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, op)
}

// snapshot returns a copy of the buffered ops in recorded order.
func (t *transaction) snapshot() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	ops := make([]Op, len(t.ops))
	copy(ops, t.ops)
	return ops
}

// age returns how long the transaction has been live.
func (t *transaction) age() time.Duration {
	return time.Since(time.UnixMilli(t.createdAt))
}

// GenerateTransactionID generates a new transaction ID using ULID.
// Format: txn-{ulid_lowercase}, 30 characters total.
func GenerateTransactionID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrTransactionFailed.WithDetails("generate transaction id").WithCause(err)
	}
	return TransactionIDPrefix + strings.ToLower(id.String()), nil
}

// Begin starts a new transaction and returns its opaque id.
//
// Until Commit, buffered operations never touch the backend; a
// transaction abandoned without Commit or Rollback simply holds its
// buffer until the store is discarded.
func (s *Store) Begin() (string, error) {
	id, err := GenerateTransactionID()
	if err != nil {
		return "", err
	}

	s.txns.Set(id, newTransaction(id))
	if s.metrics != nil {
		s.metrics.txnsLive.Inc()
	}
	s.logger.Debug("transaction started", "txn_id", id)
	return id, nil
}

// SetTx buffers a set operation in the transaction.
func (s *Store) SetTx(id, key string, value any) error {
	txn, ok := s.txns.Get(id)
	if !ok {
		return ErrTransactionNotFound.WithDetails(id)
	}
	txn.append(Op{Kind: OpKindSet, Key: key, Value: value})
	return nil
}

// DeleteTx buffers a delete operation in the transaction.
func (s *Store) DeleteTx(id, key string) error {
	txn, ok := s.txns.Get(id)
	if !ok {
		return ErrTransactionNotFound.WithDetails(id)
	}
	txn.append(Op{Kind: OpKindDelete, Key: key})
	return nil
}

// Commit applies the transaction's buffered operations in order.
//
// The first unrecognized op kind or failing backend call aborts the
// commit. Operations applied before the failure remain applied; the
// returned error names the failing index and the applied count so
// callers know exactly which prefix of the batch took effect. The
// transaction is discarded whether or not the commit succeeds.
func (s *Store) Commit(ctx context.Context, id string) error {
	txn, ok := s.txns.Pop(id)
	if !ok {
		return ErrTransactionNotFound.WithDetails(id)
	}
	if s.metrics != nil {
		s.metrics.txnsLive.Dec()
	}

	ops := txn.snapshot()
	for i, op := range ops {
		var cause error
		switch op.Kind {
		case OpKindSet:
			cause = s.backend.Set(ctx, s.encode(op.Key), op.Value)
		case OpKindDelete:
			_, cause = s.backend.Delete(ctx, s.encode(op.Key))
		default:
			cause = fmt.Errorf("unknown op kind %d", uint8(op.Kind))
		}

		if cause != nil {
			err := ErrTransactionFailed.
				WithDetails(fmt.Sprintf("op %d of %d (%s %q): %d applied before failure",
					i+1, len(ops), op.Kind, op.Key, i)).
				WithCause(cause)
			s.observe("commit", err)
			s.logger.Warn("transaction commit aborted",
				"txn_id", id,
				"failed_index", i,
				"ops_applied", i,
				"ops_total", len(ops),
				"age", txn.age(),
				"error", cause)
			return err
		}

		if s.metrics != nil {
			s.metrics.commitOps.Inc()
		}
	}

	s.observe("commit", nil)
	s.refreshKeyGauge(ctx)
	s.logger.Debug("transaction committed", "txn_id", id, "ops", len(ops), "age", txn.age())
	return nil
}

// Rollback discards the transaction's buffered operations without
// touching the backend. It fails only when the id is unknown.
func (s *Store) Rollback(id string) error {
	txn, ok := s.txns.Pop(id)
	if !ok {
		return ErrTransactionNotFound.WithDetails(id)
	}
	if s.metrics != nil {
		s.metrics.txnsLive.Dec()
	}
	s.logger.Debug("transaction rolled back",
		"txn_id", id,
		"ops_discarded", len(txn.snapshot()),
		"age", txn.age())
	return nil
}

// LiveTransactions returns the number of transactions begun but not
// yet committed or rolled back.
func (s *Store) LiveTransactions() int {
	return s.txns.Count()
}
