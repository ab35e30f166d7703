// Package gate implements the safety gate that decides, before anything
// runs, whether a requested operation is allowed to execute at all.
// Code-executing operations are blocked unless explicitly forced or
// replaced by a dry run.
package gate

import (
	"fmt"
	"strings"
)

// Class is the declared class of a requested operation.
type Class string

const (
	// ClassObserve is pure static inspection; no process is spawned.
	ClassObserve Class = "observe"
	// ClassExecute runs the target binary on the caller's system.
	ClassExecute Class = "execute"
	// ClassSimulate is a dry run that fabricates a result without
	// spawning any process.
	ClassSimulate Class = "simulate"
)

// Request describes one requested operation. It is immutable once built;
// the CLI layer constructs exactly one per invocation.
type Request struct {
	// Target is the path to the executable or package under analysis.
	Target string

	// Args is the argument vector passed to the target when executed.
	Args []string

	// Class declares what the operation does.
	Class Class

	// Force explicitly permits code-executing operations.
	Force bool

	// DryRun substitutes a simulated result for real execution.
	DryRun bool

	// SafeMode marks the request as originating from a safe-analysis
	// command; it never executes regardless of other flags.
	SafeMode bool
}

// Effective returns the class the request resolves to after flag
// precedence: DryRun always wins over Force.
func (r Request) Effective() Class {
	if r.Class == ClassExecute && (r.DryRun || r.SafeMode) {
		return ClassSimulate
	}
	return r.Class
}

// Decision is the gate's verdict on a request.
type Decision struct {
	// Allowed reports whether the operation may proceed.
	Allowed bool

	// Reason explains a rejection, enumerating which requested
	// operations would have executed code and what safe alternatives
	// exist. Empty when Allowed.
	Reason string

	// ForcedDryRun is set when both Force and DryRun were requested and
	// the dry run won. The caller must log this resolution.
	ForcedDryRun bool
}

// Authorize decides whether a request may proceed. It is a total function
// over its inputs: it performs no I/O and cannot fail.
func Authorize(req Request) Decision {
	conflict := req.Force && req.DryRun

	switch req.Effective() {
	case ClassObserve, ClassSimulate:
		return Decision{Allowed: true, ForcedDryRun: conflict}
	case ClassExecute:
		if req.Force {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, Reason: blockedReason(req)}
	default:
		// Unknown classes never execute code; treat them as blocked with
		// an explanation rather than guessing.
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown operation class %q: refusing to proceed", req.Class),
		}
	}
}

// blockedReason builds the user-facing rejection message. The content is a
// contract: it names every sub-operation that would have executed code and
// the safe alternatives for each.
func blockedReason(req Request) string {
	var b strings.Builder

	b.WriteString("EXECUTION SAFETY BLOCK\n")
	b.WriteString("The requested operation EXECUTES code on your system:\n")
	b.WriteString(fmt.Sprintf("  • run %s (launches the target binary with your privileges)\n", req.Target))
	b.WriteString("\nTo explicitly permit execution, add the force flag:\n")
	b.WriteString(fmt.Sprintf("  rune-analyze run --force %s\n", req.Target))
	b.WriteString("\nOr use a safe alternative:\n")
	b.WriteString(fmt.Sprintf("  rune-analyze scan %s          # static analysis, nothing runs\n", req.Target))
	b.WriteString(fmt.Sprintf("  rune-analyze run --dry-run %s # simulate execution\n", req.Target))
	b.WriteString("\nExecution blocked for your protection.")

	return b.String()
}
