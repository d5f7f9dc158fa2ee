package core

import (
	"encoding/json"
	"io"

	"github.com/varalys/gitsecrets/internal/report"
)

// MarshalReport writes the {summary, findings} document consumed by
// pipelines.
func MarshalReport(w io.Writer, findings []Finding, sum Summary) error {
	return report.WriteJSON(w, report.NewDump(findings, sum))
}

// UnmarshalReport decodes a document written by MarshalReport.
func UnmarshalReport(r io.Reader) ([]Finding, Summary, error) {
	var d report.Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, Summary{}, err
	}
	return d.Findings, d.Summary, nil
}

// LoadReport reads a document saved with `gitsecrets scan -o <file>`.
func LoadReport(path string) ([]Finding, Summary, error) {
	d, err := report.LoadJSON(path)
	if err != nil {
		return nil, Summary{}, err
	}
	return d.Findings, d.Summary, nil
}
