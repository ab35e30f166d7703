// Package classify turns an execution result, output counters, and
// optional static symbol signals into a bounded risk assessment. The
// decision tables live here as data so they stay auditable in isolation.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/michkochris/rune-analyze/internal/monitor"
)

// Score bounds for the execution risk scale. Lower means higher risk.
const (
	ScoreWorst = 1
	ScoreBest  = 10
)

// Assessment is the classifier's verdict on one supervised run. The
// score lives on the 1–10 execution scale; the static package scan uses
// a separate 0–20 points scale (see the scan package) and the two are
// never conflated.
type Assessment struct {
	// Score is clamped to [ScoreWorst, ScoreBest] after every
	// contributing adjustment.
	Score int `json:"score"`

	// Classification is drawn from the closed vocabulary below.
	Classification string `json:"classification"`

	// ContributingSignals names every signal that shaped the verdict.
	ContributingSignals []string `json:"contributingSignals,omitempty"`
}

// Classification vocabulary. Closed set: report consumers key on these.
const (
	ClassExecutionSuccess       = "execution_success"
	ClassStandardError          = "standard_error"
	ClassNonstandardExit        = "nonstandard_exit"
	ClassCommandNotExecutable   = "command_not_executable"
	ClassCommandNotFound        = "command_not_found"
	ClassCriticalMemCorruption  = "critical_memory_corruption"
	ClassCriticalHeapCorruption = "critical_heap_corruption"
	ClassArithmeticError        = "arithmetic_error"
	ClassCodeCorruption         = "code_corruption"
	ClassDebugTrap              = "debug_trap"
	ClassMemAlignmentError      = "memory_alignment_error"
	ClassResourceExhaustion     = "resource_exhaustion"
	ClassAbnormalTermination    = "abnormal_termination"
	ClassHighRiskTestProgram    = "high_risk_test_program"
	ClassSimulatedRun           = "simulated_run"
)

// verdict is one row of the termination decision table.
type verdict struct {
	classification string
	score          int
}

// signalVerdicts keys the primary decision table on the terminating
// signal: the strongest, cheapest signal available.
var signalVerdicts = map[syscall.Signal]verdict{
	unix.SIGSEGV: {ClassCriticalMemCorruption, ScoreWorst},
	unix.SIGABRT: {ClassCriticalHeapCorruption, ScoreWorst},
	unix.SIGFPE:  {ClassArithmeticError, 2},
	unix.SIGILL:  {ClassCodeCorruption, 2},
	unix.SIGTRAP: {ClassDebugTrap, 6},
	unix.SIGBUS:  {ClassMemAlignmentError, 2},
	unix.SIGKILL: {ClassResourceExhaustion, 4},
}

// dangerousFunctions is the fixed list of symbol substrings that escalate
// risk when they appear in caller-supplied static signals.
var dangerousFunctions = []string{
	"strcpy", "strcat", "sprintf", "vsprintf", "gets", "scanf",
	"malloc", "free", "realloc", "calloc", "system", "popen",
	"execve", "execl", "execlp", "execle", "execv", "execvp",
	"buffer_overflow", "use_after_free", "double_free", "format_string",
}

// riskyNameFragment escalates the score when the target's basename
// contains the fragment, regardless of exit status.
type riskyNameFragment struct {
	fragment string
	signal   string
	penalty  int
}

var riskyNameFragments = []riskyNameFragment{
	{"overflow", "filename:buffer_overflow_risk", 2},
	{"buffer", "filename:buffer_overflow_risk", 2},
	{"uaf", "filename:use_after_free_risk", 2},
	{"format", "filename:format_string_risk", 2},
	{"printf", "filename:format_string_risk", 2},
	{"backdoor", "filename:backdoor_marker", 3},
}

// memLeakRateKBPerSec is the resident-memory growth rate above which a
// run picks up a memory-leak indicator.
const memLeakRateKBPerSec = 50000

// Classify produces a risk assessment for one execution result. It is a
// pure, total function: every input yields an Assessment, never an error,
// and the same inputs always yield the identical Assessment.
func Classify(result *monitor.Result, target string, staticSignals []string) Assessment {
	if result == nil {
		return Assessment{Score: ScoreBest, Classification: ClassSimulatedRun}
	}
	if result.Simulated {
		return Assessment{
			Score:               ScoreBest,
			Classification:      ClassSimulatedRun,
			ContributingSignals: []string{"dry_run"},
		}
	}

	a := primaryVerdict(result)

	basename := strings.ToLower(filepath.Base(target))
	applyTestProgramOverride(&a, result, basename)
	applyMemoryRate(&a, result)
	applyNameFragments(&a, basename)
	applyStaticSignals(&a, staticSignals)

	return a
}

// primaryVerdict runs the termination-mode decision table.
func primaryVerdict(result *monitor.Result) Assessment {
	if result.WasSignalled {
		sig := syscall.Signal(result.Signal)
		if v, ok := signalVerdicts[sig]; ok {
			return Assessment{
				Score:               v.score,
				Classification:      v.classification,
				ContributingSignals: []string{"signal:" + unix.SignalName(sig)},
			}
		}
		return Assessment{
			Score:               5,
			Classification:      ClassAbnormalTermination,
			ContributingSignals: []string{"signal:" + unix.SignalName(sig)},
		}
	}

	switch code := result.ExitCode; {
	case code == 0:
		return Assessment{Score: 9, Classification: ClassExecutionSuccess,
			ContributingSignals: []string{"exit:0"}}
	case code >= 1 && code <= 2:
		return Assessment{Score: 7, Classification: ClassStandardError,
			ContributingSignals: []string{fmt.Sprintf("exit:%d", code)}}
	case code == 126:
		return Assessment{Score: 5, Classification: ClassCommandNotExecutable,
			ContributingSignals: []string{"exit:126"}}
	case code == 127:
		return Assessment{Score: 5, Classification: ClassCommandNotFound,
			ContributingSignals: []string{"exit:127"}}
	default:
		return Assessment{Score: 6, Classification: ClassNonstandardExit,
			ContributingSignals: []string{fmt.Sprintf("exit:%d", code)}}
	}
}

// applyTestProgramOverride flags intentionally vulnerable test programs:
// even a clean exit from a binary that announces itself as vulnerable is
// a risk verdict.
func applyTestProgramOverride(a *Assessment, result *monitor.Result, basename string) {
	if !strings.Contains(basename, "vuln") {
		return
	}
	a.ContributingSignals = append(a.ContributingSignals, "filename:vulnerable_test_program")
	if result.ExitCode == 0 {
		a.Score = 2
		a.Classification = ClassHighRiskTestProgram
	}
	a.Score = clamp(a.Score)
}

// applyMemoryRate nudges toward memory-leak indicators when resident
// memory grew disproportionately to the wall time.
func applyMemoryRate(a *Assessment, result *monitor.Result) {
	if result.PeakMemoryKB <= 0 || result.Duration.Seconds() <= 0.1 {
		return
	}
	rate := float64(result.PeakMemoryKB) / result.Duration.Seconds()
	if rate > memLeakRateKBPerSec {
		a.ContributingSignals = append(a.ContributingSignals, "memory_leak_indicators")
		a.Score = clamp(a.Score - 1)
	}
}

// applyNameFragments escalates on dangerous basename fragments.
func applyNameFragments(a *Assessment, basename string) {
	for _, f := range riskyNameFragments {
		if strings.Contains(basename, f.fragment) {
			a.ContributingSignals = append(a.ContributingSignals, f.signal)
			a.Score = clamp(a.Score - f.penalty)
		}
	}
}

// applyStaticSignals matches caller-supplied symbol names against the
// dangerous-function table. The total penalty is independently capped so
// a symbol-heavy binary cannot dominate the verdict.
func applyStaticSignals(a *Assessment, staticSignals []string) {
	matched := 0
	for _, symbol := range staticSignals {
		for _, dangerous := range dangerousFunctions {
			if strings.Contains(symbol, dangerous) {
				a.ContributingSignals = append(a.ContributingSignals, "symbol:"+symbol)
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return
	}

	penalty := 2
	if matched >= 3 {
		penalty = 3
	}
	a.Score = clamp(a.Score - penalty)
}

// clamp bounds a score to the declared range.
func clamp(score int) int {
	if score < ScoreWorst {
		return ScoreWorst
	}
	if score > ScoreBest {
		return ScoreBest
	}
	return score
}
