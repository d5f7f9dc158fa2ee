// Package core provides a small, stable facade over the gitsecrets engine for
// external integrations. It re-exports a narrow API surface so other tools can
// depend on a stable import path without reaching into internal packages.
//
// Example:
//
//	res, err := core.ScanWithSummary(ctx, core.Config{Root: "."})
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, res.Findings, res.Summary)
package core
