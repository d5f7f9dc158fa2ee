package gitsecrets

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/varalys/gitsecrets/internal/report"
)

var (
	flagVerbose bool
	flagNoColor bool

	version = "0.1.0"

	// log is configured per invocation in PersistentPreRun.
	log = logrus.New()
)

// exitError carries a non-default process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// rootCmd is the base Cobra command for the gitsecrets CLI.
var rootCmd = &cobra.Command{
	Use:           "gitsecrets",
	Short:         "Find exposed secrets in a source tree",
	Long:          "gitsecrets walks a working tree, matches known credential patterns line by line and reports masked findings.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd.ErrOrStderr(), flagVerbose)
	},
}

func setupLogging(w io.Writer, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    flagNoColor,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}

// Execute runs the gitsecrets CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree and maps the outcome to an exit code:
// 0 on success, 1 when --fail-on trips, 2 for any other error.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !errors.Is(err, report.ErrFailThreshold) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "error:", err)
	return 2
}

func init() {
	report.ToolVersion = version
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging and masked context lines")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}
