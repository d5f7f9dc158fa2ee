package gitsecrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/varalys/gitsecrets/internal/config"
	"github.com/varalys/gitsecrets/internal/patterns"
	"github.com/varalys/gitsecrets/internal/types"
)

var (
	cfgOutput           string
	cfgEnable           string
	cfgDisable          string
	cfgExclude          string
	cfgMaxBytes         int64
	cfgFailOn           string
	cfgVendorHeuristics bool
	cfgForce            bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .gitsecrets.yml with selected secret types and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".gitsecrets.yml", "output file path")
	initCmd.Flags().StringVar(&cfgEnable, "enable", "", "comma-separated secret types to enable (default all)")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated secret types to disable")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "", "default --fail-on severity")
	initCmd.Flags().BoolVar(&cfgVendorHeuristics, "vendor-heuristics", false, "skip vendored third-party paths by default")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := patterns.Default().Filter(patterns.SplitIDs(cfgEnable), patterns.SplitIDs(cfgDisable)); err != nil {
		return err
	}
	if cfgFailOn != "" {
		if _, err := types.ParseSeverity(cfgFailOn); err != nil {
			return err
		}
	}
	if !cfgForce {
		if _, err := os.Stat(cfgOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
		}
	}

	fc := config.FileConfig{
		Exclude:          optStrPtr(cfgExclude),
		MaxBytes:         int64Ptr(cfgMaxBytes),
		Enable:           optStrPtr(cfgEnable),
		Disable:          optStrPtr(cfgDisable),
		FailOn:           optStrPtr(cfgFailOn),
		VendorHeuristics: boolPtr(cfgVendorHeuristics),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
