// Package scan performs safe, non-executing analysis of a binary or
// package file: metadata and size banding, filename pattern checks, a
// printable-strings sweep, and a content fingerprint. Nothing in this
// package ever spawns a process.
//
// Its verdict uses the 0–20 risk-points scale (higher is riskier), which
// is deliberately distinct from the classify package's 1–10 execution
// scale.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/michkochris/rune-analyze/internal/errors"
)

// Points bounds for the package risk scale. Higher means riskier.
const (
	PointsMin = 0
	PointsMax = 20
)

// Verdict labels band the accumulated points.
const (
	VerdictMinimal  = "minimal_risk"
	VerdictLow      = "low_risk"
	VerdictModerate = "moderate_risk"
	VerdictHigh     = "high_risk"
	VerdictCritical = "critical_risk"
)

// Finding is one contribution to the risk-points total.
type Finding struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Points int    `json:"points"`
}

// PackageRisk is the static scan's verdict.
type PackageRisk struct {
	Target      string    `json:"target"`
	SizeBytes   int64     `json:"sizeBytes"`
	Fingerprint string    `json:"fingerprint"`
	Points      int       `json:"points"`
	Verdict     string    `json:"verdict"`
	Findings    []Finding `json:"findings,omitempty"`
}

// dangerousNames mark a filename as overtly hostile.
var dangerousNames = []string{
	"hack", "exploit", "backdoor", "malware", "virus", "trojan",
	"keylog", "rootkit", "botnet", "ransomware", "cryptojack",
}

// suspiciousNames warrant a closer look without being damning.
var suspiciousNames = []string{
	"admin", "root", "sudo", "system", "kernel", "driver",
	"network", "proxy", "tunnel", "bypass",
}

// execIndicators are embedded strings that suggest the file runs or
// fetches further code.
var execIndicators = []string{
	"eval", "exec", "system", "download", "wget", "curl", "nc ", "bash -c",
}

// networkIndicators suggest network capability.
var networkIndicators = []string{
	"http://", "https://", "ftp://", "socket", "connect",
}

// maxStringFindings caps how many embedded-string findings count toward
// the total, so a single noisy binary cannot saturate the scale alone.
const maxStringFindings = 10

// File scans one file without executing anything.
func File(path string) (*PackageRisk, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewTargetNotFoundError(path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewTargetNotRegularError(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("cannot read %s", path), err)
	}

	risk := &PackageRisk{
		Target:      path,
		SizeBytes:   info.Size(),
		Fingerprint: fingerprint(data),
	}

	risk.add(sizeFindings(info.Size())...)
	risk.add(nameFindings(filepath.Base(path))...)
	risk.add(stringFindings(data)...)

	risk.Points = clampPoints(risk.Points)
	risk.Verdict = verdictFor(risk.Points)
	return risk, nil
}

// add appends findings and accumulates their points.
func (r *PackageRisk) add(findings ...Finding) {
	for _, f := range findings {
		r.Findings = append(r.Findings, f)
		r.Points += f.Points
	}
}

// sizeFindings bands the file size. Both extremes are suspicious: huge
// payloads hide things, tiny ones are droppers.
func sizeFindings(size int64) []Finding {
	switch {
	case size > 500*1024*1024:
		return []Finding{{Kind: "size", Detail: "extremely large file (>500MB)", Points: 3}}
	case size > 100*1024*1024:
		return []Finding{{Kind: "size", Detail: "large file (>100MB)", Points: 1}}
	case size < 1024:
		return []Finding{{Kind: "size", Detail: "suspiciously small file (<1KB)", Points: 2}}
	default:
		return nil
	}
}

// nameFindings checks the basename against the pattern tables.
func nameFindings(base string) []Finding {
	lower := strings.ToLower(base)
	var findings []Finding

	for _, pattern := range dangerousNames {
		if strings.Contains(lower, pattern) {
			findings = append(findings, Finding{
				Kind:   "filename",
				Detail: fmt.Sprintf("filename contains %q", pattern),
				Points: 5,
			})
		}
	}
	for _, pattern := range suspiciousNames {
		if strings.Contains(lower, pattern) {
			findings = append(findings, Finding{
				Kind:   "filename",
				Detail: fmt.Sprintf("filename contains %q", pattern),
				Points: 1,
			})
		}
	}

	return findings
}

// stringFindings sweeps the file's printable strings for execution and
// network indicators.
func stringFindings(data []byte) []Finding {
	var findings []Finding

	execHits := 0
	for _, s := range ExtractStrings(data, 4) {
		if execHits >= maxStringFindings {
			break
		}
		for _, indicator := range execIndicators {
			if strings.Contains(s, indicator) {
				findings = append(findings, Finding{
					Kind:   "string",
					Detail: fmt.Sprintf("embedded string suggests execution capability: %.60s", s),
					Points: 1,
				})
				execHits++
				break
			}
		}
	}

	for _, s := range ExtractStrings(data, 4) {
		matched := false
		for _, indicator := range networkIndicators {
			if strings.Contains(s, indicator) {
				matched = true
				break
			}
		}
		if matched {
			findings = append(findings, Finding{
				Kind:   "network",
				Detail: "embedded strings suggest network capability",
				Points: 2,
			})
			break
		}
	}

	return findings
}

// ExtractStrings returns the printable ASCII runs of at least minLen
// bytes, the way the strings(1) tool would.
func ExtractStrings(data []byte, minLen int) []string {
	var out []string
	start := -1
	for i, b := range data {
		printable := b >= 0x20 && b < 0x7f
		if printable {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLen {
			out = append(out, string(data[start:i]))
		}
		start = -1
	}
	if start >= 0 && len(data)-start >= minLen {
		out = append(out, string(data[start:]))
	}
	return out
}

// fingerprint computes the blake3 digest of the file contents.
func fingerprint(data []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(data)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// verdictFor bands accumulated points into a verdict label.
func verdictFor(points int) string {
	switch {
	case points >= 15:
		return VerdictCritical
	case points >= 10:
		return VerdictHigh
	case points >= 5:
		return VerdictModerate
	case points >= 2:
		return VerdictLow
	default:
		return VerdictMinimal
	}
}

// clampPoints bounds the total to the declared scale.
func clampPoints(points int) int {
	if points < PointsMin {
		return PointsMin
	}
	if points > PointsMax {
		return PointsMax
	}
	return points
}
