package gitsecrets

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varalys/gitsecrets/internal/patterns"
)

func init() {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in secret types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("ID", "Severity", "Description")
			for _, s := range patterns.Default().Specs() {
				if err := table.Append([]string{string(s.ID), string(s.Severity), s.Description}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
