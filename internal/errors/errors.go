package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authorization errors (GATE-001 to GATE-099)
	ErrCodeGateBlocked      ErrorCode = "GATE-001"
	ErrCodeGateConflict     ErrorCode = "GATE-002"
	ErrCodeGateUnknownClass ErrorCode = "GATE-003"

	// Validation errors (VALIDATE-001 to VALIDATE-099)
	ErrCodeTargetNotFound   ErrorCode = "VALIDATE-001"
	ErrCodeTargetNotRegular ErrorCode = "VALIDATE-002"
	ErrCodeArgumentTooLong  ErrorCode = "VALIDATE-003"
	ErrCodeTargetMissing    ErrorCode = "VALIDATE-004"
	ErrCodeClassNotRunnable ErrorCode = "VALIDATE-005"

	// Spawn errors (SPAWN-001 to SPAWN-099)
	ErrCodeSpawnFailed ErrorCode = "SPAWN-001"
	ErrCodePipeFailed  ErrorCode = "SPAWN-002"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeWaitFailed ErrorCode = "EXEC-001"

	// Timeline errors (TIMELINE-001 to TIMELINE-099)
	ErrCodeTimelineOverflow ErrorCode = "TIMELINE-001"
	ErrCodeDuplicateTrigger ErrorCode = "TIMELINE-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound   ErrorCode = "IO-001"
	ErrCodeFileReadFailed ErrorCode = "IO-002"
	ErrCodeFileUnmarshal  ErrorCode = "IO-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
)

// RuneError represents an enhanced error with code and remediation suggestions
type RuneError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *RuneError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *RuneError) Unwrap() error {
	return e.Cause
}

// New creates a new RuneError
func New(code ErrorCode, message string) *RuneError {
	return &RuneError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new RuneError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *RuneError {
	return &RuneError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *RuneError) WithSuggestion(suggestion string) *RuneError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *RuneError) WithSuggestions(suggestions ...string) *RuneError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewTargetNotFoundError creates a target path not found error
func NewTargetNotFoundError(path string) *RuneError {
	return New(ErrCodeTargetNotFound, fmt.Sprintf("cannot access target: %s", path)).
		WithSuggestion("Check if the path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewTargetNotRegularError creates an error for a target that is not a regular file
func NewTargetNotRegularError(path string) *RuneError {
	return New(ErrCodeTargetNotRegular, fmt.Sprintf("not a regular file: %s", path)).
		WithSuggestion("Point the analyzer at an executable file, not a directory or device")
}

// NewArgumentTooLongError creates an oversized-argument error
func NewArgumentTooLongError(index, limit int) *RuneError {
	return New(ErrCodeArgumentTooLong, fmt.Sprintf("argument %d exceeds %d characters", index, limit)).
		WithSuggestion("Shorten the argument or pass the data through a file")
}

// NewSpawnError creates a process-creation failure error
func NewSpawnError(target string, cause error) *RuneError {
	return Wrap(ErrCodeSpawnFailed, fmt.Sprintf("failed to start %s", target), cause).
		WithSuggestion("Check that the file has execute permission").
		WithSuggestion("Verify the binary matches this machine's architecture")
}

// NewWaitError creates an error for a child that could not be waited on
func NewWaitError(pid int, cause error) *RuneError {
	return Wrap(ErrCodeWaitFailed, fmt.Sprintf("failed to reap child process %d", pid), cause)
}

// NewExecutionBlockedError creates a safety-gate rejection error carrying
// the gate's full remediation message
func NewExecutionBlockedError(reason string) *RuneError {
	return New(ErrCodeGateBlocked, reason)
}

// NewDuplicateTriggerError creates a duplicate trigger name error
func NewDuplicateTriggerError(name string) *RuneError {
	return New(ErrCodeDuplicateTrigger, fmt.Sprintf("trigger already registered: %s", name)).
		WithSuggestion("Pick a unique trigger name; re-registration does not overwrite")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *RuneError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
