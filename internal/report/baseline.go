package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/varalys/gitsecrets/internal/types"
)

// DefaultBaselineFile is written by `baseline update` and read by
// `scan --baseline` when no path is given.
const DefaultBaselineFile = "gitsecrets.baseline.json"

// Baseline records fingerprints of accepted findings. Only masked values
// take part in a fingerprint, so the file never carries secrets.
type Baseline struct {
	Version int             `json:"version"`
	Items   map[string]bool `json:"items"`
}

// LoadBaseline reads path. A missing file yields an empty baseline and an
// error satisfying errors.Is(err, fs.ErrNotExist).
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Version: 1, Items: map[string]bool{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{Version: 1, Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline writes the fingerprints of findings to path.
func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Version: 1, Items: make(map[string]bool, len(findings))}
	for _, f := range findings {
		b.Items[Fingerprint(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops findings already present in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	out := []types.Finding{}
	for _, f := range findings {
		if !base.Items[Fingerprint(f)] {
			out = append(out, f)
		}
	}
	return out
}

// Fingerprint identifies a finding independently of its line number, so
// unrelated edits above a known finding do not resurface it.
func Fingerprint(f types.Finding) string {
	h := xxhash.New()
	_, _ = h.WriteString(f.File)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(f.SecretType)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(f.Match)
	return strconv.FormatUint(h.Sum64(), 16)
}

// ErrFailThreshold is reported when findings meet the --fail-on threshold.
var ErrFailThreshold = errors.New("findings at or above fail threshold")

// ShouldFail reports whether any finding is at or above failOn. An empty
// failOn never fails.
func ShouldFail(findings []types.Finding, failOn types.Severity) bool {
	th := failOn.Rank()
	if th == 0 {
		return false
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}
