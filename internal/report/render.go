package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/varalys/gitsecrets/internal/types"
)

type PrintOptions struct {
	NoColor bool
	// Verbose adds the masked context line under each finding.
	Verbose  bool
	Duration time.Duration
}

var (
	sevCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevHighStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	contextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrintTable renders findings in scan order as a bordered table followed by
// the summary.
func PrintTable(w io.Writer, findings []types.Finding, sum types.Summary, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Type", "File", "Line", "Match")
		for _, f := range findings {
			_ = table.Append([]string{
				severityLabel(f.Severity, opts.NoColor),
				f.SecretType,
				f.File,
				strconv.Itoa(f.Line),
				f.Match,
			})
		}
		_ = table.Render()
		if opts.Verbose {
			fmt.Fprintln(w)
			for _, f := range findings {
				printContext(w, f, opts.NoColor)
			}
		}
	}
	printFooter(w, sum, opts)
}

// PrintText renders one finding per line, suitable for piping.
func PrintText(w io.Writer, findings []types.Finding, sum types.Summary, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxType := 8
		for _, f := range findings {
			if l := len(f.SecretType); l > maxType {
				maxType = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(w, "%-8s %-*s %s:%d  %s\n", severityLabel(f.Severity, opts.NoColor), maxType, f.SecretType, f.File, f.Line, f.Match)
			if opts.Verbose {
				printContext(w, f, opts.NoColor)
			}
		}
	}
	printFooter(w, sum, opts)
}

func printContext(w io.Writer, f types.Finding, noColor bool) {
	if f.Context == "" {
		return
	}
	line := f.Context
	if !noColor {
		line = highlightLine(line, f.File)
	}
	fmt.Fprintf(w, "  %s:%d  %s\n", f.File, f.Line, line)
}

func printFooter(w io.Writer, sum types.Summary, opts PrintOptions) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
		sum.TotalFindings,
		sum.BySeverity[types.SevCritical],
		sum.BySeverity[types.SevHigh],
		sum.BySeverity[types.SevMed],
		sum.BySeverity[types.SevLow])
	fmt.Fprintf(w, "Files scanned: %d\n", sum.FilesScanned)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if len(sum.ByType) > 0 && opts.Verbose {
		ids := make([]string, 0, len(sum.ByType))
		for id := range sum.ByType {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  %-20s %d\n", id, sum.ByType[id])
		}
	}
}

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevCritical:
		return sevCriticalStyle.Render(string(s))
	case types.SevHigh:
		return sevHighStyle.Render(string(s))
	case types.SevMed:
		return sevMedStyle.Render(string(s))
	default:
		return sevLowStyle.Render(string(s))
	}
}
