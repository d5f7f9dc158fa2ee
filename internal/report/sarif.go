package report

import (
	"encoding/json"
	"io"

	"github.com/varalys/gitsecrets/internal/patterns"
	"github.com/varalys/gitsecrets/internal/types"
)

// ToolVersion is reported in the SARIF driver block. The CLI overrides it at
// build time.
var ToolVersion = "dev"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string         `json:"id"`
	ShortDescription     sarifMessage   `json:"shortDescription"`
	DefaultConfiguration sarifRuleLevel `json:"defaultConfiguration"`
}

type sarifRuleLevel struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine"`
	Snippet   *sarifMessage `json:"snippet,omitempty"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as a SARIF 2.1.0 log. Every registry entry is
// listed as a rule so results can reference them by index; the snippet is
// the masked context line.
func WriteSARIF(w io.Writer, findings []types.Finding, sum types.Summary) error {
	reg := patterns.Default()
	specs := reg.Specs()
	rules := make([]sarifRule, 0, len(specs))
	index := make(map[string]int, len(specs))
	for i, s := range specs {
		index[string(s.ID)] = i
		rules = append(rules, sarifRule{
			ID:                   string(s.ID),
			ShortDescription:     sarifMessage{Text: s.Description},
			DefaultConfiguration: sarifRuleLevel{Level: sevToLevel(s.Severity)},
		})
	}

	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "gitsecrets", Version: ToolVersion, Rules: rules}},
		Results: []sarifResult{},
		Properties: map[string]any{
			"filesScanned": sum.FilesScanned,
			"bySeverity":   sum.BySeverity,
		},
	}
	for _, f := range findings {
		idx, ok := index[f.SecretType]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			index[f.SecretType] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:                   f.SecretType,
				ShortDescription:     sarifMessage{Text: f.Description},
				DefaultConfiguration: sarifRuleLevel{Level: sevToLevel(f.Severity)},
			})
		}
		region := sarifRegion{StartLine: f.Line}
		if f.Context != "" {
			region.Snippet = &sarifMessage{Text: f.Context}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.SecretType,
			RuleIndex: idx,
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: f.Description + " detected: " + f.Match},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.File},
					Region:           region,
				},
			}},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
