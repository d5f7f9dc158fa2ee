package core

import (
	"context"

	"github.com/varalys/gitsecrets/internal/engine"
	"github.com/varalys/gitsecrets/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Result = engine.Result
type Finding = types.Finding
type Summary = types.Summary
type Severity = types.Severity

const (
	SevCritical = types.SevCritical
	SevHigh     = types.SevHigh
	SevMed      = types.SevMed
	SevLow      = types.SevLow
)

// Scan runs a scan with a background context and returns findings only.
func Scan(cfg Config) ([]Finding, error) {
	res, err := engine.Scan(context.Background(), cfg)
	return res.Findings, err
}

// ScanWithSummary is the context-aware entrypoint returning findings,
// summary and duration.
func ScanWithSummary(ctx context.Context, cfg Config) (Result, error) {
	return engine.Scan(ctx, cfg)
}

// Summarize reduces findings into a Summary.
func Summarize(findings []Finding, filesScanned int) Summary {
	return engine.Summarize(findings, filesScanned)
}

// PatternIDs returns the built-in secret type identifiers.
func PatternIDs() []string { return engine.PatternIDs() }
