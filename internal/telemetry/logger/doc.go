// Package logger provides structured logging for flexstore.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Logger configuration and initialization
//   - context.go: Context-aware logging with transaction IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Credential masking for connection strings
//   - Context propagation for transaction-scoped logging
package logger
