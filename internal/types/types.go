package types

import (
	"fmt"
	"strings"
)

// Severity is a coarse-grained risk tier for a finding.
type Severity string

const (
	SevCritical Severity = "critical"
	SevHigh     Severity = "high"
	SevMed      Severity = "medium"
	SevLow      Severity = "low"
)

// Severities returns every known severity, highest first.
func Severities() []Severity {
	return []Severity{SevCritical, SevHigh, SevMed, SevLow}
}

// Rank orders severities; unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMed:
		return 2
	case SevLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity validates a user supplied severity name.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev.Rank() == 0 {
		return "", fmt.Errorf("unknown severity %q (want critical|high|medium|low)", s)
	}
	return sev, nil
}

// Finding describes one detected occurrence of a secret-like value. Match is
// always masked; Context is the trimmed source line with the raw value masked
// and truncated for display.
type Finding struct {
	File        string   `json:"file"`
	Line        int      `json:"line_number"`
	SecretType  string   `json:"secret_type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Match       string   `json:"match"`
	Context     string   `json:"context"`
}

// Summary aggregates a scan run. BySeverity always carries all four
// severities; ByType only carries types that produced a finding.
type Summary struct {
	FilesScanned  int              `json:"files_scanned"`
	TotalFindings int              `json:"total_findings"`
	BySeverity    map[Severity]int `json:"by_severity"`
	ByType        map[string]int   `json:"by_type"`
}
