package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldeng/clusterdoc/internal/report"
)

var runReportFile string

var runCmd = &cobra.Command{
	Use:   "run [pattern]",
	Short: "Run diagnostic checks against the cluster",
	Long: `Run diagnostic checks against the configured targets. With a
pattern argument only the matching checks run; an exact check ID runs
just that check, anything else is fuzzy-matched against check IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runReportFile, "report", "",
		"write the JSON report to this file (overrides report.file)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := loadConfig()
	if err != nil {
		return err
	}

	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	console := newConsole()
	rep, err := executeChecks(cmd.Context(), cfg, logger, console, pattern)
	if err != nil {
		return err
	}

	console.Msgf("")
	console.PrintSummary(rep)

	reportFile := runReportFile
	if reportFile == "" {
		reportFile = cfg.Report.File
	}
	if reportFile != "" {
		if err := report.WriteFile(reportFile, rep); err != nil {
			return err
		}
		logger.Info("report written", "path", reportFile)
	}

	if !rep.Healthy() {
		return fmt.Errorf("%d check(s) failed, %d errored",
			rep.Summary.Failed, rep.Summary.Errors)
	}
	return nil
}
