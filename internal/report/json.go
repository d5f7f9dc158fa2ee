package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/varalys/gitsecrets/internal/types"
)

// Dump is the machine-readable scan output. Field names are a stable
// contract with downstream tooling.
type Dump struct {
	Summary  types.Summary   `json:"summary"`
	Findings []types.Finding `json:"findings"`
}

// NewDump pairs a summary with its findings; a nil slice is encoded as [].
func NewDump(findings []types.Finding, sum types.Summary) Dump {
	if findings == nil {
		findings = []types.Finding{}
	}
	return Dump{Summary: sum, Findings: findings}
}

// WriteJSON writes d as indented JSON.
func WriteJSON(w io.Writer, d Dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// SaveJSON writes d to path, replacing any existing file.
func SaveJSON(path string, d Dump) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, d); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadJSON reads a dump previously written by SaveJSON.
func LoadJSON(path string) (Dump, error) {
	var d Dump
	b, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}
