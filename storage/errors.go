package storage

import (
	"errors"
	"fmt"
)

// Error represents a storage error with a structured error code.
//
// Codes group by area: FX-STOR for the storage medium, FX-CONF for
// configuration, FX-TXN for transactions. The numeric part follows the
// nearest HTTP status class with a sub-index digit.
type Error struct {
	Code    string // Error code (e.g., "FX-TXN-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsStorageError checks if an error is a storage Error with the given code.
// If code is empty, it only checks if the error is a storage Error.
func IsStorageError(err error, code string) bool {
	var se *Error
	if errors.As(err, &se) {
		if code == "" {
			return true
		}
		return se.Code == code
	}
	return false
}

// ErrorCode extracts the error code from an error if it's a storage Error.
func ErrorCode(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrSerialization indicates a value could not be encoded or decoded as JSON.
	ErrSerialization = NewError("FX-STOR-4220", "value serialization failed")

	// ErrIO indicates the storage medium failed to read or write.
	ErrIO = NewError("FX-STOR-5001", "storage i/o failure")

	// ErrClosed indicates an operation on a closed backend.
	ErrClosed = NewError("FX-STOR-4100", "storage closed")
)

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrInvalidBackend indicates an unrecognized backend kind.
	ErrInvalidBackend = NewError("FX-CONF-4000", "invalid backend kind")

	// ErrMissingFilePath indicates the file backend was selected without a path.
	ErrMissingFilePath = NewError("FX-CONF-4001", "file_path is required for the file backend")

	// ErrBackendNotImplemented indicates a declared but unimplemented backend kind.
	ErrBackendNotImplemented = NewError("FX-CONF-5010", "backend not implemented")
)

// ============================================================================
// Transaction Errors (TXN)
// ============================================================================

var (
	// ErrTransactionNotFound indicates an unknown transaction id.
	ErrTransactionNotFound = NewError("FX-TXN-4040", "transaction not found")

	// ErrTransactionFailed indicates a commit aborted on an unrecognized
	// operation or a failing backend call. Operations applied before the
	// failure remain applied; the details name the failing index and the
	// applied count.
	ErrTransactionFailed = NewError("FX-TXN-5000", "transaction commit failed")
)
