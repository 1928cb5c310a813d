// Package piperrs defines the error taxonomy for the claudepipe SDK.
// Every failure surfaced by the core maps to one of a small set of
// categories so callers can branch on the kind of failure without
// re-parsing error strings.
package piperrs

import (
	"errors"
	"fmt"
	"maps"
)

// ErrorCategory identifies the broad kind of a claudepipe error.
type ErrorCategory string

const (
	// CategoryNotFound means the CLI executable could not be located.
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryConnection means the subprocess could not be started for
	// reasons other than absence (permissions, resource limits).
	CategoryConnection ErrorCategory = "connection"
	// CategoryDecode means a stdout line looked like structured output
	// but failed to parse.
	CategoryDecode ErrorCategory = "decode"
	// CategoryProcess means the subprocess exited with a non-zero code
	// or terminating signal after producing output.
	CategoryProcess ErrorCategory = "process"
	// CategoryProtocol means an error-tagged record arrived mid-stream.
	CategoryProtocol ErrorCategory = "protocol"
	// CategoryAborted means cancellation or timeout ended the query
	// before natural completion.
	CategoryAborted ErrorCategory = "aborted"
	// CategoryValidation covers configuration problems detected before
	// anything was spawned.
	CategoryValidation ErrorCategory = "validation"
)

// ErrorCode refines a category into a specific failure mode.
type ErrorCode string

const (
	ErrCodeCLINotFound     ErrorCode = "cli_not_found"
	ErrCodeSpawnFailed     ErrorCode = "spawn_failed"
	ErrCodePipeFailed      ErrorCode = "pipe_failed"
	ErrCodeStdinFailed     ErrorCode = "stdin_failed"
	ErrCodeDecodeFailed    ErrorCode = "decode_failed"
	ErrCodeProcessExited   ErrorCode = "process_exited"
	ErrCodeProcessSignaled ErrorCode = "process_signaled"
	ErrCodeStreamError     ErrorCode = "stream_error"
	ErrCodeQueryAborted    ErrorCode = "query_aborted"
	ErrCodeQueryTimeout    ErrorCode = "query_timeout"
	ErrCodeInvalidConfig   ErrorCode = "invalid_config"
	ErrCodeRoleCycle       ErrorCode = "role_cycle"
	ErrCodeQueryConsumed   ErrorCode = "query_consumed"
)

// SDKError is implemented by every error the SDK constructs itself.
type SDKError interface {
	error
	// Code returns the specific error code.
	Code() ErrorCode
	// Category returns the error category.
	Category() ErrorCategory
	// Unwrap returns the underlying cause, if any.
	Unwrap() error
	// Metadata returns structured detail attached to the error.
	Metadata() map[string]any
}

// BaseError is the shared implementation behind the concrete error types.
type BaseError struct {
	code     ErrorCode
	category ErrorCategory
	message  string
	cause    error
	metadata map[string]any
}

// NewBaseError creates a base error with the given category and code.
func NewBaseError(category ErrorCategory, code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		code:     code,
		category: category,
		message:  message,
		cause:    cause,
		metadata: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.category, e.message)
}

// Code returns the error code.
func (e *BaseError) Code() ErrorCode { return e.code }

// Category returns the error category.
func (e *BaseError) Category() ErrorCategory { return e.category }

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error { return e.cause }

// Metadata returns the error metadata map.
func (e *BaseError) Metadata() map[string]any { return e.metadata }

// WithMetadata attaches a key/value pair to the error.
func (e *BaseError) WithMetadata(key string, value any) *BaseError {
	e.metadata[key] = value

	return e
}

// WithMetadataMap attaches several key/value pairs at once.
func (e *BaseError) WithMetadataMap(metadata map[string]any) *BaseError {
	maps.Copy(e.metadata, metadata)

	return e
}

// AsSDKError extracts an SDKError from an error chain.
func AsSDKError(err error) (SDKError, bool) {
	var sdkErr SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr, true
	}

	return nil, false
}

func hasCategory(err error, category ErrorCategory) bool {
	if sdkErr, ok := AsSDKError(err); ok {
		return sdkErr.Category() == category
	}

	return false
}

// IsNotFound reports whether err means the CLI executable was not found.
func IsNotFound(err error) bool { return hasCategory(err, CategoryNotFound) }

// IsConnection reports whether err means the subprocess failed to start.
func IsConnection(err error) bool { return hasCategory(err, CategoryConnection) }

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool { return hasCategory(err, CategoryDecode) }

// IsProcess reports whether err is a non-zero exit or signal failure.
func IsProcess(err error) bool { return hasCategory(err, CategoryProcess) }

// IsProtocol reports whether err is a mid-stream error record.
func IsProtocol(err error) bool { return hasCategory(err, CategoryProtocol) }

// IsAborted reports whether err means the query was cancelled or timed out.
func IsAborted(err error) bool { return hasCategory(err, CategoryAborted) }

// IsValidation reports whether err is a configuration validation failure.
func IsValidation(err error) bool { return hasCategory(err, CategoryValidation) }
