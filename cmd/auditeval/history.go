package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/su1ph3r/auditeval/internal/benchmark"
	"github.com/su1ph3r/auditeval/internal/history"
	"github.com/su1ph3r/auditeval/internal/reporter"
	"github.com/su1ph3r/auditeval/pkg/types"
)

// stallWindow is how many previous runs must share the latest recall before
// progress is reported as stalled.
const stallWindow = 2

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Record and inspect scoring runs",
}

var historySaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Score all benchmarks and append the run to the history file",
	Args:  cobra.NoArgs,
	RunE:  runHistorySave,
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryShow,
}

func init() {
	addScoringFlags(historySaveCmd)
	historyShowCmd.Flags().IntP("last", "n", 10, "Number of most recent runs to show (0 for all)")

	historyCmd.AddCommand(historySaveCmd)
	historyCmd.AddCommand(historyShowCmd)
}

func runHistorySave(cmd *cobra.Command, args []string) error {
	updateScoringConfigFromFlags(cmd)
	if err := types.ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := types.ValidateBenchmarkDir(config.BenchmarksDir); err != nil {
		return err
	}

	policy, err := scoringPolicy()
	if err != nil {
		return err
	}

	summary, err := newSuite(policy).Run(cmd.Context())
	if errors.Is(err, benchmark.ErrNoBenchmarks) {
		printWarning("No benchmarks with results found.")
		return nil
	}
	if err != nil {
		return err
	}
	for _, sk := range summary.Skipped {
		printInfo("Skipped %s: %s", sk.Name, sk.Reason)
	}

	return saveRun(cmd.OutOrStdout(), summary)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	last, _ := cmd.Flags().GetInt("last")

	h, err := history.NewStore(config.HistoryFile).Load()
	if err != nil {
		return err
	}

	reporter.WriteHistory(cmd.OutOrStdout(), h, reporter.HistoryOptions{
		Last:        last,
		StallWindow: stallWindow,
		NoColor:     !config.Output.Color,
	})
	return nil
}
