package engine

import "github.com/varalys/gitsecrets/internal/types"

// Summarize reduces findings into a Summary. Every known severity is present
// in BySeverity even when its count is zero.
func Summarize(findings []types.Finding, filesScanned int) types.Summary {
	sum := types.Summary{
		FilesScanned:  filesScanned,
		TotalFindings: len(findings),
		BySeverity:    make(map[types.Severity]int, 4),
		ByType:        map[string]int{},
	}
	for _, s := range types.Severities() {
		sum.BySeverity[s] = 0
	}
	for _, f := range findings {
		sum.BySeverity[f.Severity]++
		sum.ByType[f.SecretType]++
	}
	return sum
}

// Aggregator collects per-file results during a run, preserving arrival
// order. It is not safe for concurrent use.
type Aggregator struct {
	findings []types.Finding
	files    int
}

func NewAggregator() *Aggregator {
	return &Aggregator{findings: []types.Finding{}}
}

// Add records one scanned file and its findings.
func (a *Aggregator) Add(fs []types.Finding) {
	a.files++
	a.findings = append(a.findings, fs...)
}

func (a *Aggregator) FilesScanned() int { return a.files }

// Findings returns a copy of everything collected so far.
func (a *Aggregator) Findings() []types.Finding {
	out := make([]types.Finding, len(a.findings))
	copy(out, a.findings)
	return out
}

func (a *Aggregator) Summary() types.Summary {
	return Summarize(a.findings, a.files)
}
