package gitsecrets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/varalys/gitsecrets/internal/engine"
	"github.com/varalys/gitsecrets/internal/report"
)

var flagBaselineOut string

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update [path]",
		Short: "Record current findings so later scans only report new ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			lcfg, gcfg := loadConfigs(abs)
			cfg := engine.Config{
				Root:             abs,
				IncludeGlobs:     pickString("", lcfg.Include, gcfg.Include),
				ExcludeGlobs:     pickString("", lcfg.Exclude, gcfg.Exclude),
				MaxBytes:         pickInt64(0, lcfg.MaxBytes, gcfg.MaxBytes),
				EnableTypes:      pickString("", lcfg.Enable, gcfg.Enable),
				DisableTypes:     pickString("", lcfg.Disable, gcfg.Disable),
				IgnoreFile:       pickString("", lcfg.IgnoreFile, gcfg.IgnoreFile),
				VendorHeuristics: pickBool(false, lcfg.VendorHeuristics, gcfg.VendorHeuristics),
				Logger:           log,
			}
			res, err := engine.Scan(context.Background(), cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(flagBaselineOut, res.Findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings recorded in %s\n", len(res.Findings), flagBaselineOut)
			return nil
		},
	}
	update.Flags().StringVarP(&flagBaselineOut, "output", "o", report.DefaultBaselineFile, "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
