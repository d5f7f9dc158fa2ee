package gitsecrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/varalys/gitsecrets/internal/audit"
	"github.com/varalys/gitsecrets/internal/engine"
	"github.com/varalys/gitsecrets/internal/report"
	"github.com/varalys/gitsecrets/internal/types"
)

var (
	flagPath             string
	flagJSON             bool
	flagSARIF            bool
	flagText             bool
	flagOutput           string
	flagInclude          string
	flagExclude          string
	flagMaxBytes         int64
	flagEnable           string
	flagDisable          string
	flagIgnoreFile       string
	flagVendorHeuristics bool
	flagFailOn           string
	flagProgress         bool
	flagBaseline         string
	flagAudit            bool
	flagDemo             bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a file or directory tree for secrets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
		Example: `
gitsecrets scan
gitsecrets scan ./service --json -o findings.json
gitsecrets scan --fail-on high --sarif > results.sarif`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit {summary, findings} JSON on stdout")
	cmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0 on stdout")
	cmd.Flags().BoolVar(&flagText, "text", false, "plain columnar output instead of a table")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "also write {summary, findings} JSON to this file")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only report these secret types (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "never report these secret types (comma-separated IDs)")
	cmd.Flags().StringVar(&flagIgnoreFile, "ignore-file", "", "gitignore-style exclusions (default "+engine.DefaultIgnoreFile+" in the scan root)")
	cmd.Flags().BoolVar(&flagVendorHeuristics, "vendor-heuristics", false, "also skip paths that look like vendored third-party code")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "exit 1 when a finding is at or above this severity (low|medium|high|critical)")
	cmd.Flags().BoolVar(&flagProgress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "hide findings recorded in this baseline file")
	cmd.Flags().Lookup("baseline").NoOptDefVal = report.DefaultBaselineFile
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a summary record to the audit log")
	cmd.Flags().BoolVar(&flagDemo, "demo", false, "scan a generated sample tree")
}

func runScan(cmd *cobra.Command, args []string) error {
	if flagDemo {
		return runDemo(cmd)
	}
	path := flagPath
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	lcfg, gcfg := loadConfigs(abs)

	var failOn types.Severity
	if s := pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn); s != "" {
		if failOn, err = types.ParseSeverity(s); err != nil {
			return err
		}
	}

	cfg := engine.Config{
		Root:             abs,
		IncludeGlobs:     pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:     pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:         pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		EnableTypes:      pickString(flagEnable, lcfg.Enable, gcfg.Enable),
		DisableTypes:     pickString(flagDisable, lcfg.Disable, gcfg.Disable),
		IgnoreFile:       pickString(flagIgnoreFile, lcfg.IgnoreFile, gcfg.IgnoreFile),
		VendorHeuristics: pickBool(flagVendorHeuristics, lcfg.VendorHeuristics, gcfg.VendorHeuristics),
		Logger:           log,
	}
	noColor := !colorEnabled(cmd.OutOrStdout(), pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor))
	machine := flagJSON || flagSARIF
	stderr := cmd.ErrOrStderr()

	active, err := engine.ActivePatterns(cfg)
	if err != nil {
		return err
	}
	if !machine {
		fmt.Fprintf(stderr, "Scanning %s with %d patterns...\n", abs, active.Len())
	}
	var bar *progressbar.ProgressBar
	if flagProgress && !machine {
		if total, err := engine.CountTargets(cfg); err == nil && total > 0 {
			bar = newProgressBar(stderr, total)
			cfg.Progress = func() { _ = bar.Add(1) }
		}
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()
	res, scanErr := engine.Scan(ctx, cfg)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(stderr)
	}
	if scanErr != nil && !errors.Is(scanErr, context.Canceled) {
		return fmt.Errorf("scan error: %w", scanErr)
	}

	findings := res.Findings
	baselineFile := flagBaseline
	if baselineFile != "" {
		base, err := report.LoadBaseline(baselineFile)
		if err != nil {
			log.WithField("reason", err).Warn("baseline not applied")
		}
		findings = report.FilterNewFindings(findings, base)
	}
	sum := res.Summary
	if len(findings) != len(res.Findings) {
		sum = engine.Summarize(findings, res.Summary.FilesScanned)
	}

	if err := render(cmd.OutOrStdout(), findings, sum, report.PrintOptions{NoColor: noColor, Verbose: flagVerbose, Duration: res.Duration}); err != nil {
		return err
	}
	if flagOutput != "" {
		if err := report.SaveJSON(flagOutput, report.NewDump(findings, sum)); err != nil {
			return err
		}
		if !machine {
			fmt.Fprintln(stderr, "Results saved to:", flagOutput)
		}
	}
	if flagAudit {
		rec := audit.CreateScanRecord(abs, res.Summary, findings, res.Duration, baselineFile)
		if err := audit.NewAuditLog(abs).LogScan(rec); err != nil {
			log.WithField("reason", err).Warn("audit record not written")
		}
	}
	if scanErr != nil {
		return fmt.Errorf("scan interrupted: %w", scanErr)
	}
	if report.ShouldFail(findings, failOn) {
		return &exitError{code: 1, err: report.ErrFailThreshold}
	}
	return nil
}

func render(w io.Writer, findings []types.Finding, sum types.Summary, opts report.PrintOptions) error {
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(w, findings, sum); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		return report.WriteJSON(w, report.NewDump(findings, sum))
	case flagText:
		report.PrintText(w, findings, sum, opts)
	default:
		report.PrintTable(w, findings, sum, opts)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100e6),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
