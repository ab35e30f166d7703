// Package report renders analysis outcomes for humans and machines. It
// consumes the core's three output objects (ExecutionResult, Assessment,
// Timeline export) and never reaches back into the engine.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/michkochris/rune-analyze/internal/analyze"
	"github.com/michkochris/rune-analyze/internal/scan"
)

// Format selects the rendering mode.
type Format int

const (
	// FormatHuman renders a styled terminal report.
	FormatHuman Format = iota
	// FormatJSON renders a single JSON document.
	FormatJSON
	// FormatBoth renders the human report followed by the JSON document.
	FormatBoth
)

// ParseFormat parses a CLI format string.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	case "both":
		return FormatBoth
	default:
		return FormatHuman
	}
}

// styles holds the lipgloss styles used by the human renderer.
type styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Muted    lipgloss.Style
	Good     lipgloss.Style
	Caution  lipgloss.Style
	Critical lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Section:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Good:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Caution:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// Render writes the outcome in the requested format.
func Render(w io.Writer, outcome *analyze.Outcome, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, outcome)
	case FormatBoth:
		if err := renderHuman(w, outcome); err != nil {
			return err
		}
		return renderJSON(w, outcome)
	default:
		return renderHuman(w, outcome)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderHuman(w io.Writer, outcome *analyze.Outcome) error {
	st := newStyles()
	var b strings.Builder

	b.WriteString(st.Title.Render("rune-analyze report"))
	b.WriteString("\n\n")

	result := outcome.Result
	b.WriteString(st.Section.Render("Execution"))
	b.WriteString("\n")
	if result.Simulated {
		b.WriteString("  mode:          dry run (no process spawned)\n")
	}
	fmt.Fprintf(&b, "  run id:        %s\n", result.RunID)
	fmt.Fprintf(&b, "  duration:      %s\n", result.Duration.Round(time.Microsecond))
	fmt.Fprintf(&b, "  exit code:     %d\n", result.ExitCode)
	if result.WasSignalled {
		fmt.Fprintf(&b, "  signal:        %d\n", result.Signal)
	}
	if result.PID != 0 {
		fmt.Fprintf(&b, "  pid:           %d\n", result.PID)
	}
	if result.PeakMemoryKB > 0 {
		fmt.Fprintf(&b, "  peak memory:   %d KB\n", result.PeakMemoryKB)
	}
	fmt.Fprintf(&b, "  stdout/stderr: %d / %d bytes\n", result.StdoutBytes, result.StderrBytes)
	fmt.Fprintf(&b, "  markers:       %d verbose, %d error, %d warning\n",
		result.VerboseMessages, result.ErrorMessages, result.WarningMessages)
	b.WriteString("\n")

	assessment := outcome.Assessment
	b.WriteString(st.Section.Render("Risk assessment"))
	b.WriteString("\n")
	scoreStyle := st.Good
	switch {
	case assessment.Score <= 2:
		scoreStyle = st.Critical
	case assessment.Score <= 6:
		scoreStyle = st.Caution
	}
	fmt.Fprintf(&b, "  score:          %s\n",
		scoreStyle.Render(fmt.Sprintf("%d/10 (lower is riskier)", assessment.Score)))
	fmt.Fprintf(&b, "  classification: %s\n", scoreStyle.Render(assessment.Classification))
	if len(assessment.ContributingSignals) > 0 {
		fmt.Fprintf(&b, "  signals:        %s\n", strings.Join(assessment.ContributingSignals, ", "))
	}
	b.WriteString("\n")

	b.WriteString(st.Section.Render(fmt.Sprintf("Timeline (%d checkpoints)", len(outcome.Timeline.Checkpoints))))
	b.WriteString("\n")
	for _, cp := range outcome.Timeline.Checkpoints {
		fired := " "
		if cp.TriggerFired {
			fired = st.Caution.Render("*")
		}
		line := fmt.Sprintf("  [%s] %s%s", cp.Timestamp, cp.ID, fired)
		if cp.Context != "" {
			line += st.Muted.Render(" → " + cp.Context)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if outcome.Timeline.Dropped > 0 {
		b.WriteString(st.Caution.Render(
			fmt.Sprintf("  warning: %d checkpoints dropped at the capacity bound", outcome.Timeline.Dropped)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderScan writes a static-scan verdict in the requested format.
func RenderScan(w io.Writer, risk *scan.PackageRisk, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, risk)
	case FormatBoth:
		if err := renderScanHuman(w, risk); err != nil {
			return err
		}
		return renderJSON(w, risk)
	default:
		return renderScanHuman(w, risk)
	}
}

func renderScanHuman(w io.Writer, risk *scan.PackageRisk) error {
	st := newStyles()
	var b strings.Builder

	b.WriteString(st.Title.Render("rune-analyze safe scan"))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("analyzed without execution"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  target:      %s\n", risk.Target)
	fmt.Fprintf(&b, "  size:        %d bytes\n", risk.SizeBytes)
	fmt.Fprintf(&b, "  fingerprint: %s\n", risk.Fingerprint)
	b.WriteString("\n")

	for _, finding := range risk.Findings {
		fmt.Fprintf(&b, "  [%s] %s (+%d)\n", finding.Kind, finding.Detail, finding.Points)
	}
	if len(risk.Findings) > 0 {
		b.WriteString("\n")
	}

	verdictStyle := st.Good
	switch risk.Verdict {
	case scan.VerdictCritical, scan.VerdictHigh:
		verdictStyle = st.Critical
	case scan.VerdictModerate:
		verdictStyle = st.Caution
	}
	fmt.Fprintf(&b, "  risk points: %s\n",
		verdictStyle.Render(fmt.Sprintf("%d/%d", risk.Points, scan.PointsMax)))
	fmt.Fprintf(&b, "  verdict:     %s\n", verdictStyle.Render(risk.Verdict))

	_, err := io.WriteString(w, b.String())
	return err
}
