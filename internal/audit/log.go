package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/varalys/gitsecrets/internal/types"
)

const maxTopFindings = 10

// ScanRecord is one line of the audit log. It carries counts and locations
// only; matched values are never written.
type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	TypeCounts     map[string]int   `json:"type_counts,omitempty"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	File       string `json:"file"`
	SecretType string `json:"secret_type"`
	Severity   string `json:"severity"`
	Line       int    `json:"line_number"`
}

type AuditLog struct {
	logPath string
}

// NewAuditLog places the log inside .git when root is a repository, so the
// log itself is never scanned, and next to the tree otherwise.
func NewAuditLog(root string) *AuditLog {
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		root = filepath.Dir(root)
	}
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".gitsecrets_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "gitsecrets_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns records newest first. Malformed lines are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = uuid.New().String()
	}

	// owner-only: records name files that contain secrets
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index, counted newest first as
// returned by LoadHistory.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}
	records = append(records[:index], records[index+1:]...)

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := encoder.Encode(records[i]); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

// CreateScanRecord summarises a run. newFindings is the subset left after
// baseline filtering; pass all findings when no baseline was used.
func CreateScanRecord(root string, sum types.Summary, newFindings []types.Finding, duration time.Duration, baselineFile string) ScanRecord {
	severityCounts := make(map[string]int, len(sum.BySeverity))
	for sev, n := range sum.BySeverity {
		severityCounts[string(sev)] = n
	}
	typeCounts := make(map[string]int, len(sum.ByType))
	for id, n := range sum.ByType {
		typeCounts[id] = n
	}

	topFindings := make([]FindingSummary, 0, maxTopFindings)
	for i, f := range newFindings {
		if i >= maxTopFindings {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			File:       f.File,
			SecretType: f.SecretType,
			Severity:   string(f.Severity),
			Line:       f.Line,
		})
	}

	return ScanRecord{
		Timestamp:      time.Now(),
		ScanID:         uuid.New().String(),
		Root:           root,
		TotalFindings:  sum.TotalFindings,
		NewFindings:    len(newFindings),
		BaselinedCount: sum.TotalFindings - len(newFindings),
		SeverityCounts: severityCounts,
		TypeCounts:     typeCounts,
		FilesScanned:   sum.FilesScanned,
		Duration:       duration.String(),
		BaselineFile:   baselineFile,
		TopFindings:    topFindings,
	}
}
