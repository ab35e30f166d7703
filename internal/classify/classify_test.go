package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/michkochris/rune-analyze/internal/monitor"
)

func TestClassify_NilResult(t *testing.T) {
	a := Classify(nil, "./bin", nil)

	assert.Equal(t, ScoreBest, a.Score)
	assert.Equal(t, ClassSimulatedRun, a.Classification)
}

func TestClassify_SimulatedResult(t *testing.T) {
	a := Classify(&monitor.Result{Simulated: true}, "./bin", nil)

	assert.Equal(t, ScoreBest, a.Score)
	assert.Equal(t, ClassSimulatedRun, a.Classification)
	assert.Contains(t, a.ContributingSignals, "dry_run")
}

func TestClassify_ExitCodeTable(t *testing.T) {
	tests := []struct {
		exitCode  int
		wantScore int
		wantClass string
	}{
		{0, 9, ClassExecutionSuccess},
		{1, 7, ClassStandardError},
		{2, 7, ClassStandardError},
		{126, 5, ClassCommandNotExecutable},
		{127, 5, ClassCommandNotFound},
		{42, 6, ClassNonstandardExit},
		{3, 6, ClassNonstandardExit},
	}

	for _, tt := range tests {
		a := Classify(&monitor.Result{ExitCode: tt.exitCode}, "./bin", nil)
		assert.Equal(t, tt.wantScore, a.Score, "exit %d", tt.exitCode)
		assert.Equal(t, tt.wantClass, a.Classification, "exit %d", tt.exitCode)
	}
}

func TestClassify_SignalTable(t *testing.T) {
	tests := []struct {
		signal    unix.Signal
		wantScore int
		wantClass string
	}{
		{unix.SIGSEGV, 1, ClassCriticalMemCorruption},
		{unix.SIGABRT, 1, ClassCriticalHeapCorruption},
		{unix.SIGFPE, 2, ClassArithmeticError},
		{unix.SIGILL, 2, ClassCodeCorruption},
		{unix.SIGTRAP, 6, ClassDebugTrap},
		{unix.SIGBUS, 2, ClassMemAlignmentError},
		{unix.SIGKILL, 4, ClassResourceExhaustion},
	}

	for _, tt := range tests {
		result := &monitor.Result{
			WasSignalled: true,
			Signal:       int(tt.signal),
			ExitCode:     128 + int(tt.signal),
		}
		a := Classify(result, "./bin", nil)
		assert.Equal(t, tt.wantScore, a.Score, "signal %v", tt.signal)
		assert.Equal(t, tt.wantClass, a.Classification, "signal %v", tt.signal)
		require.NotEmpty(t, a.ContributingSignals)
		assert.Contains(t, a.ContributingSignals[0], "signal:")
	}
}

func TestClassify_UnknownSignal(t *testing.T) {
	result := &monitor.Result{WasSignalled: true, Signal: int(unix.SIGUSR1)}

	a := Classify(result, "./bin", nil)

	assert.Equal(t, 5, a.Score)
	assert.Equal(t, ClassAbnormalTermination, a.Classification)
}

func TestClassify_VulnerableTestProgramOverride(t *testing.T) {
	// A clean exit does not exonerate a self-declared vulnerable binary.
	a := Classify(&monitor.Result{ExitCode: 0}, "/tmp/vuln_demo", nil)

	assert.Equal(t, 2, a.Score)
	assert.Equal(t, ClassHighRiskTestProgram, a.Classification)
	assert.Contains(t, a.ContributingSignals, "filename:vulnerable_test_program")
}

func TestClassify_VulnerableNameWithCrashKeepsCrashVerdict(t *testing.T) {
	result := &monitor.Result{WasSignalled: true, Signal: int(unix.SIGSEGV), ExitCode: 139}

	a := Classify(result, "/tmp/vuln_demo", nil)

	// The crash verdict already sits at the floor; the override only
	// annotates.
	assert.Equal(t, ScoreWorst, a.Score)
	assert.Equal(t, ClassCriticalMemCorruption, a.Classification)
	assert.Contains(t, a.ContributingSignals, "filename:vulnerable_test_program")
}

func TestClassify_NameFragments(t *testing.T) {
	a := Classify(&monitor.Result{ExitCode: 0}, "./overflow_test", nil)

	assert.Equal(t, 7, a.Score)
	assert.Contains(t, a.ContributingSignals, "filename:buffer_overflow_risk")
}

func TestClassify_BackdoorFragment(t *testing.T) {
	a := Classify(&monitor.Result{ExitCode: 0}, "./backdoor", nil)

	assert.Equal(t, 6, a.Score)
	assert.Contains(t, a.ContributingSignals, "filename:backdoor_marker")
}

func TestClassify_MemoryLeakRate(t *testing.T) {
	result := &monitor.Result{
		ExitCode:     0,
		Duration:     time.Second,
		PeakMemoryKB: 80_000, // 80000 KB/s, above the leak threshold
	}

	a := Classify(result, "./bin", nil)

	assert.Equal(t, 8, a.Score)
	assert.Contains(t, a.ContributingSignals, "memory_leak_indicators")
}

func TestClassify_MemoryRateIgnoredForShortRuns(t *testing.T) {
	result := &monitor.Result{
		ExitCode:     0,
		Duration:     50 * time.Millisecond,
		PeakMemoryKB: 80_000,
	}

	a := Classify(result, "./bin", nil)

	assert.Equal(t, 9, a.Score)
	assert.NotContains(t, a.ContributingSignals, "memory_leak_indicators")
}

func TestClassify_StaticSignals(t *testing.T) {
	a := Classify(&monitor.Result{ExitCode: 0}, "./bin", []string{"strcpy", "puts"})

	assert.Equal(t, 7, a.Score)
	assert.Contains(t, a.ContributingSignals, "symbol:strcpy")
	assert.NotContains(t, a.ContributingSignals, "symbol:puts")
}

func TestClassify_ManyStaticSignalsCapPenalty(t *testing.T) {
	symbols := []string{"strcpy", "gets", "system", "sprintf", "popen"}

	a := Classify(&monitor.Result{ExitCode: 0}, "./bin", symbols)

	// Three or more matches cost 3 in total, never 2 per match.
	assert.Equal(t, 6, a.Score)
}

func TestClassify_ScoreNeverLeavesRange(t *testing.T) {
	// Pile every penalty onto an already-worst crash.
	result := &monitor.Result{
		WasSignalled: true,
		Signal:       int(unix.SIGSEGV),
		ExitCode:     139,
		Duration:     time.Second,
		PeakMemoryKB: 200_000,
	}
	symbols := []string{"strcpy", "gets", "system", "buffer_overflow"}

	a := Classify(result, "./vuln_overflow_backdoor", symbols)

	assert.Equal(t, ScoreWorst, a.Score)
}

func TestClassify_Idempotent(t *testing.T) {
	result := &monitor.Result{ExitCode: 1, Duration: time.Second, PeakMemoryKB: 90_000}
	symbols := []string{"malloc", "free"}

	first := Classify(result, "./overflow_demo", symbols)
	second := Classify(result, "./overflow_demo", symbols)

	assert.Equal(t, first, second)
}
