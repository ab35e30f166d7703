package monitor

import "time"

// Result holds everything the monitor observed about one supervised run.
// It is created at process exit and read-only thereafter; a Result exists
// if and only if the monitor actually ran (or simulated) a process.
type Result struct {
	// RunID uniquely identifies this run.
	RunID string `json:"runId"`

	// Duration is the wall-clock time from spawn to reap.
	Duration time.Duration `json:"duration"`

	// ExitCode is the unified exit code: the child's exit status, or
	// 128 plus the terminating signal number.
	ExitCode int `json:"exitCode"`

	// WasSignalled reports whether the child was terminated by a signal.
	WasSignalled bool `json:"wasSignalled"`

	// Signal is the raw terminating signal number when WasSignalled.
	Signal int `json:"signal,omitempty"`

	// PID is the child process id.
	PID int `json:"pid"`

	// PeakMemoryKB is the highest resident-memory sample observed, in KB.
	// Zero when no sample completed before the child exited.
	PeakMemoryKB int64 `json:"peakMemoryKb"`

	// StdoutBytes and StderrBytes are captured output sizes.
	StdoutBytes int64 `json:"stdoutBytes"`
	StderrBytes int64 `json:"stderrBytes"`

	// Marker counters derived from the captured output.
	VerboseMessages int `json:"verboseMessages"`
	ErrorMessages   int `json:"errorMessages"`
	WarningMessages int `json:"warningMessages"`

	// Simulated marks a dry-run result that was fabricated without
	// spawning any process.
	Simulated bool `json:"simulated"`
}

// streamCounters accumulates per-stream statistics. Each reader goroutine
// owns exactly one instance; they are merged only after both readers end.
type streamCounters struct {
	bytes    int64
	verbose  int
	errors   int
	warnings int
}
