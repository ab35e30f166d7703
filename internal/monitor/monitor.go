// Package monitor supervises a target process: it spawns the child with
// captured stdout/stderr, samples resident memory while it runs, decodes
// how it terminated, and emits checkpoints along the way.
//
// The monitor applies no execution time limit of its own: a child that
// never terminates blocks Run. Callers needing a hard timeout must wrap
// Run with a cancellable context; cancellation kills the child and the
// run completes as a SIGKILL-terminated result.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/michkochris/rune-analyze/internal/errors"
	"github.com/michkochris/rune-analyze/internal/gate"
	"github.com/michkochris/rune-analyze/internal/log"
	"github.com/michkochris/rune-analyze/internal/timeline"
)

// State is the monitor's lifecycle position for one run.
type State int

const (
	StateUnstarted State = iota
	StateValidated
	StateSpawned
	StateRunning
	StateReaped
	StateFinalized
	StateFailed
)

// MaxArgLength is the ceiling on any single argument or the target path.
// A defense against pathological inputs, not a security boundary.
const MaxArgLength = 4096

// SimulatedDuration is the fixed placeholder duration reported by
// dry-run results.
const SimulatedDuration = 1 * time.Millisecond

// sampleInterval is how often the child's resident memory is read while
// it is alive.
const sampleInterval = 10 * time.Millisecond

// Runner runs one supervised execution. Monitor is the real
// implementation; tests substitute doubles.
type Runner interface {
	Run(ctx context.Context, req gate.Request) (*Result, error)
}

// Monitor is the execution monitor. Zero value is not usable; construct
// with New.
type Monitor struct {
	logger   *log.Logger
	timeline *timeline.Timeline

	// Stdout and Stderr receive the child's forwarded output. They
	// default to the process's own streams (transparent passthrough).
	Stdout io.Writer
	Stderr io.Writer

	state State
}

// New creates a monitor that appends checkpoints to tl.
func New(logger *log.Logger, tl *timeline.Timeline) *Monitor {
	return &Monitor{
		logger:   logger,
		timeline: tl,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// State reports the lifecycle position of the most recent run.
func (m *Monitor) State() State {
	return m.state
}

// Run validates and executes the request, returning the observed Result.
// Simulate-class requests never spawn a process and return a synthetic
// result; only execute-class requests spawn at all — every other class is
// refused before anything runs. A crashing or misbehaving child is not an
// error: it produces a valid Result. Errors mean the monitor itself could
// not do its job.
func (m *Monitor) Run(ctx context.Context, req gate.Request) (*Result, error) {
	m.state = StateUnstarted

	if err := m.validate(req); err != nil {
		m.state = StateFailed
		return nil, err
	}
	m.state = StateValidated

	switch req.Effective() {
	case gate.ClassSimulate:
		return m.simulate(req), nil
	case gate.ClassExecute:
		return m.execute(ctx, req)
	default:
		// Observe-class work is static inspection owned by other
		// packages; handing it to the process monitor is a caller bug,
		// never a reason to spawn.
		m.state = StateFailed
		return nil, errors.New(errors.ErrCodeClassNotRunnable,
			fmt.Sprintf("operation class %q is not runnable", req.Class)).
			WithSuggestion("Only execute-class requests spawn a process; use the scan command for static inspection")
	}
}

// validate checks the target path and argument vector before anything is
// spawned.
func (m *Monitor) validate(req gate.Request) error {
	if req.Target == "" {
		return errors.New(errors.ErrCodeTargetMissing, "no target executable specified")
	}
	if len(req.Target) > MaxArgLength {
		return errors.NewArgumentTooLongError(0, MaxArgLength)
	}
	for i, arg := range req.Args {
		if len(arg) > MaxArgLength {
			return errors.NewArgumentTooLongError(i+1, MaxArgLength)
		}
	}

	info, err := os.Stat(req.Target)
	if err != nil {
		return errors.NewTargetNotFoundError(req.Target)
	}
	if !info.Mode().IsRegular() {
		return errors.NewTargetNotRegularError(req.Target)
	}
	if info.Mode().Perm()&0o111 == 0 {
		// Not fatal: exec may still fail, and that failure is reported
		// in full at spawn time.
		m.logger.Warn("target is not executable", "target", req.Target)
	}

	m.timeline.Append("VALIDATION:executable_validated", timeline.CategorySecurity,
		"target executable validation passed")
	return nil
}

// simulate fabricates a dry-run result without spawning any process.
func (m *Monitor) simulate(req gate.Request) *Result {
	m.timeline.Append("EXEC:simulated", timeline.CategorySyscall,
		fmt.Sprintf("dry run: would execute %s", req.Target))
	m.state = StateFinalized

	return &Result{
		RunID:     uuid.New().String(),
		Duration:  SimulatedDuration,
		ExitCode:  0,
		Simulated: true,
	}
}

// execute spawns the child and supervises it to termination.
func (m *Monitor) execute(ctx context.Context, req gate.Request) (*Result, error) {
	cmd := exec.Command(req.Target, req.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		m.state = StateFailed
		return nil, errors.Wrap(errors.ErrCodePipeFailed, "failed to create stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		m.state = StateFailed
		// StdoutPipe's descriptors are owned by cmd and released when the
		// command is garbage; close the read end we hold eagerly.
		stdout.Close()
		return nil, errors.Wrap(errors.ErrCodePipeFailed, "failed to create stderr pipe", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		m.state = StateFailed
		return nil, errors.NewSpawnError(req.Target, err)
	}
	m.state = StateSpawned

	pid := cmd.Process.Pid
	m.timeline.Append("EXEC:started", timeline.CategorySyscall,
		fmt.Sprintf("target process launched, pid %d", pid))

	// Two reader goroutines drain the pipes, forwarding transparently
	// and counting markers. Each owns its counters; no shared state.
	var wg sync.WaitGroup
	outCounts := &streamCounters{}
	errCounts := &streamCounters{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		consume(stdout, m.Stdout, outCounts)
	}()
	go func() {
		defer wg.Done()
		consume(stderr, m.Stderr, errCounts)
	}()

	// cmd.Wait must not run until both pipes report end-of-stream.
	waitDone := make(chan error, 1)
	go func() {
		wg.Wait()
		waitDone <- cmd.Wait()
	}()

	m.state = StateRunning
	result := &Result{
		RunID: uuid.New().String(),
		PID:   pid,
	}

	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	var waitErr error
	killed := false
supervise:
	for {
		select {
		case waitErr = <-waitDone:
			break supervise
		case <-ctx.Done():
			if !killed {
				m.logger.Warn("run cancelled, killing child", "pid", pid)
				_ = cmd.Process.Kill()
				killed = true
			}
		case <-ticker.C:
			if kb, ok := residentMemoryKB(pid); ok && kb > result.PeakMemoryKB {
				result.PeakMemoryKB = kb
			}
		}
	}
	m.state = StateReaped

	if err := m.decodeStatus(cmd, waitErr, result); err != nil {
		m.state = StateFailed
		return nil, err
	}

	result.Duration = time.Since(start)
	result.StdoutBytes = outCounts.bytes
	result.StderrBytes = errCounts.bytes
	result.VerboseMessages = outCounts.verbose + errCounts.verbose
	result.ErrorMessages = outCounts.errors + errCounts.errors
	result.WarningMessages = outCounts.warnings + errCounts.warnings

	m.finalize(result)
	return result, nil
}

// decodeStatus turns the wait outcome into the Result's termination
// fields. The signal case maps onto the exit-code-plus-128 convention
// while retaining the raw signal separately.
func (m *Monitor) decodeStatus(cmd *exec.Cmd, waitErr error, result *Result) error {
	state := cmd.ProcessState
	if state == nil {
		return errors.NewWaitError(result.PID, waitErr)
	}
	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return errors.NewWaitError(result.PID, waitErr)
		}
	}

	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return errors.NewWaitError(result.PID, fmt.Errorf("unsupported wait status %T", state.Sys()))
	}

	switch {
	case status.Signaled():
		sig := status.Signal()
		result.WasSignalled = true
		result.Signal = int(sig)
		result.ExitCode = 128 + int(sig)
		m.timeline.Append("EXEC:signalled", timeline.CategorySecurity,
			fmt.Sprintf("terminated by %s", unix.SignalName(sig)))
	case status.Exited():
		result.ExitCode = status.ExitStatus()
	default:
		return errors.NewWaitError(result.PID, fmt.Errorf("child neither exited nor signalled: %v", status))
	}

	return nil
}

// finalize records the completion checkpoint. This is the only state
// transition after reap that runs checkpoint-emitting side effects.
func (m *Monitor) finalize(result *Result) {
	m.timeline.Append("EXEC:completed", timeline.CategorySyscall,
		fmt.Sprintf("target finished with exit code %d in %s", result.ExitCode, result.Duration.Round(time.Millisecond)))
	m.state = StateFinalized
}

// consume drains r to EOF, forwarding every chunk to w and scanning it
// for output markers. Forward errors are ignored: passthrough is best
// effort and capture must continue regardless.
func consume(r io.Reader, w io.Writer, counts *streamCounters) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			counts.bytes += int64(n)
			if w != nil {
				_, _ = w.Write(chunk)
			}
			scanMarkers(string(chunk), counts)
		}
		if err != nil {
			return
		}
	}
}

// scanMarkers increments the output counters for marker substrings in a
// chunk. One increment per marker per chunk, as chunks approximate lines
// for line-buffered children.
func scanMarkers(chunk string, counts *streamCounters) {
	lower := strings.ToLower(chunk)
	if strings.Contains(lower, "verbose") || strings.Contains(chunk, "==>") || strings.Contains(chunk, "<==") {
		counts.verbose++
	}
	if strings.Contains(lower, "error") {
		counts.errors++
	}
	if strings.Contains(lower, "warning") {
		counts.warnings++
	}
}
