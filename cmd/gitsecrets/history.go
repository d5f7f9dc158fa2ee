package gitsecrets

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varalys/gitsecrets/internal/audit"
)

var (
	flagHistoryLimit  int
	flagHistoryDelete int
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show audit records written by scan --audit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many records (0 = all)")
	cmd.Flags().IntVar(&flagHistoryDelete, "delete", -1, "delete the record at this index (0 = newest)")
	rootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	al := audit.NewAuditLog(abs)
	out := cmd.OutOrStdout()

	if flagHistoryDelete >= 0 {
		if err := al.DeleteRecord(flagHistoryDelete); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted record %d\n", flagHistoryDelete)
		return nil
	}

	records, err := al.LoadHistory()
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, "No scan history.")
		return nil
	}
	if err != nil {
		return err
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	table := tablewriter.NewWriter(out)
	table.Header("#", "Time", "Files", "Findings", "New", "Critical", "High", "Medium", "Low")
	for i, r := range records {
		row := []string{
			strconv.Itoa(i),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.FilesScanned),
			strconv.Itoa(r.TotalFindings),
			strconv.Itoa(r.NewFindings),
			strconv.Itoa(r.SeverityCounts["critical"]),
			strconv.Itoa(r.SeverityCounts["high"]),
			strconv.Itoa(r.SeverityCounts["medium"]),
			strconv.Itoa(r.SeverityCounts["low"]),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
