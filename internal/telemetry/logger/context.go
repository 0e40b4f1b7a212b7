// Package logger provides structured logging for flexstore.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "flexstore.logger"
	// txnIDKey is the context key for the active transaction ID.
	txnIDKey contextKey = "flexstore.txn_id"
	// opKey is the context key for the running operation name.
	opKey contextKey = "flexstore.operation"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithTransactionID adds a transaction ID to the context.
func WithTransactionID(ctx context.Context, txnID string) context.Context {
	return context.WithValue(ctx, txnIDKey, txnID)
}

// TransactionIDFromContext extracts the transaction ID from context.
func TransactionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(txnIDKey).(string); ok {
		return id
	}
	return ""
}

// WithOperation adds the running operation name to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey, op)
}

// OperationFromContext extracts the operation name from context.
func OperationFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(opKey).(string); ok {
		return op
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the transaction ID and operation name from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	// Add transaction ID if present
	if txnID := TransactionIDFromContext(ctx); txnID != "" {
		l = l.With("txn_id", txnID)
	}

	// Add operation name if present
	if op := OperationFromContext(ctx); op != "" {
		l = l.With("operation", op)
	}

	return l
}
