package piperrs

// NotFoundError means the CLI executable could not be located by any
// discovery strategy.
type NotFoundError struct {
	*BaseError
	searched []string
}

// NewNotFoundError creates a not-found error listing the searched locations.
func NewNotFoundError(message string, searched []string) *NotFoundError {
	err := &NotFoundError{
		BaseError: NewBaseError(CategoryNotFound, ErrCodeCLINotFound, message, nil),
		searched:  searched,
	}
	_ = err.WithMetadata("searched", searched)

	return err
}

// Searched returns the locations that were checked.
func (e *NotFoundError) Searched() []string { return e.searched }

// ConnectionError means the spawn call itself failed.
type ConnectionError struct {
	*BaseError
}

// NewConnectionError creates a connection error.
func NewConnectionError(code ErrorCode, message string, cause error) *ConnectionError {
	return &ConnectionError{
		BaseError: NewBaseError(CategoryConnection, code, message, cause),
	}
}

// DecodeError means a stdout line looked like JSON but failed to parse.
// Line carries the exact raw text for diagnostics.
type DecodeError struct {
	*BaseError
	line string
}

// NewDecodeError creates a decode error carrying the offending line.
func NewDecodeError(message string, cause error, line string) *DecodeError {
	err := &DecodeError{
		BaseError: NewBaseError(CategoryDecode, ErrCodeDecodeFailed, message, cause),
		line:      line,
	}
	_ = err.WithMetadata("line", line)

	return err
}

// Line returns the raw line that failed to decode.
func (e *DecodeError) Line() string { return e.line }

// ProcessError means the subprocess exited with a non-zero code or was
// killed by a signal after its output stream finished.
type ProcessError struct {
	*BaseError
	exitCode int
	signal   string
	stderr   string
}

// NewProcessError creates a process error with exit detail.
func NewProcessError(code ErrorCode, message string, cause error, exitCode int, signal, stderr string) *ProcessError {
	err := &ProcessError{
		BaseError: NewBaseError(CategoryProcess, code, message, cause),
		exitCode:  exitCode,
		signal:    signal,
		stderr:    stderr,
	}
	_ = err.WithMetadata("exit_code", exitCode)
	if signal != "" {
		_ = err.WithMetadata("signal", signal)
	}
	if stderr != "" {
		_ = err.WithMetadata("stderr", stderr)
	}

	return err
}

// ExitCode returns the subprocess exit code, or -1 when signaled.
func (e *ProcessError) ExitCode() int { return e.exitCode }

// Signal returns the terminating signal name, if any.
func (e *ProcessError) Signal() string { return e.signal }

// Stderr returns captured diagnostic output, possibly truncated.
func (e *ProcessError) Stderr() string { return e.stderr }

// ProtocolError wraps the description embedded in an error-tagged output
// record.
type ProtocolError struct {
	*BaseError
	protocolCode string
}

// NewProtocolError creates a protocol error from an error record.
func NewProtocolError(message, protocolCode string) *ProtocolError {
	err := &ProtocolError{
		BaseError:    NewBaseError(CategoryProtocol, ErrCodeStreamError, message, nil),
		protocolCode: protocolCode,
	}
	if protocolCode != "" {
		_ = err.WithMetadata("code", protocolCode)
	}

	return err
}

// ProtocolCode returns the optional machine-readable code from the record.
func (e *ProtocolError) ProtocolCode() string { return e.protocolCode }

// AbortError means cancellation (explicit or timeout-derived) terminated
// the query. It always wins over a concurrently detected process error.
type AbortError struct {
	*BaseError
	reason string
}

// NewAbortError creates an abort error with the given code and reason.
func NewAbortError(code ErrorCode, reason string, cause error) *AbortError {
	err := &AbortError{
		BaseError: NewBaseError(CategoryAborted, code, reason, cause),
		reason:    reason,
	}
	_ = err.WithMetadata("reason", reason)

	return err
}

// Reason returns a short description of why the query was aborted.
func (e *AbortError) Reason() string { return e.reason }

// ValidationError reports a configuration problem found before spawning.
type ValidationError struct {
	*BaseError
	field string
}

// NewValidationError creates a validation error for the named field.
func NewValidationError(code ErrorCode, message, field string) *ValidationError {
	err := &ValidationError{
		BaseError: NewBaseError(CategoryValidation, code, message, nil),
		field:     field,
	}
	if field != "" {
		_ = err.WithMetadata("field", field)
	}

	return err
}

// Field returns the configuration field at fault.
func (e *ValidationError) Field() string { return e.field }
