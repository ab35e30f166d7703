package exitcode

import (
	"errors"
	"fmt"
	"os"

	runeerrors "github.com/michkochris/rune-analyze/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition, including a
	// safety-gate rejection
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// Interrupted indicates the run was cancelled by the user (Ctrl+C)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// ChildExitError reports that the supervised target itself exited
// non-zero. Commands return it instead of exiting directly so deferred
// cleanup in main still runs; DetermineExitCode mirrors the child's
// status as the tool's own.
type ChildExitError struct {
	Code int
}

// Error implements the error interface
func (e *ChildExitError) Error() string {
	return fmt.Sprintf("target exited with status %d", e.Code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var childErr *ChildExitError
	if errors.As(err, &childErr) {
		return FromChild(childErr.Code)
	}

	var runeErr *runeerrors.RuneError
	if errors.As(err, &runeErr) {
		switch runeErr.Code {
		case runeerrors.ErrCodeTargetMissing, runeerrors.ErrCodeArgumentTooLong:
			return UsageError
		}
	}

	return GeneralError
}

// Describe returns a human-readable description of an exit code
func Describe(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case Interrupted:
		return "Interrupted (Ctrl+C)"
	default:
		return "Unknown error"
	}
}

// FromChild maps a supervised child's exit status onto the tool's own exit
// code so automation sees the target's failure directly.
func FromChild(childExit int) int {
	if childExit == 0 {
		return Success
	}
	return childExit
}
