package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/su1ph3r/auditeval/internal/benchmark"
	"github.com/su1ph3r/auditeval/internal/history"
	"github.com/su1ph3r/auditeval/internal/reporter"
	"github.com/su1ph3r/auditeval/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score [benchmark-dir]",
	Short: "Score audit findings against expected vulnerabilities",
	Long: `Score every benchmark under the benchmarks directory and print a summary,
or score a single benchmark directory when one is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	addScoringFlags(scoreCmd)
	scoreCmd.Flags().StringP("output", "o", "", "Output file path (prints to stdout if not specified)")
	scoreCmd.Flags().StringP("format", "f", "", "Output format (text, json, markdown)")
	scoreCmd.Flags().Bool("gaps", false, "Explain why each missed vulnerability was missed")
	scoreCmd.Flags().Bool("save", false, "Append the run to the history file")
}

// addScoringFlags registers the flags that control matching and grading
func addScoringFlags(cmd *cobra.Command) {
	cmd.Flags().String("policy", "", "Scoring policy (extra-findings, unmatched-fp)")
	cmd.Flags().String("grade-scale", "", "Grade table (strict, lenient; default depends on policy)")
	cmd.Flags().Bool("bidirectional-titles", false, "Also match a found title contained in the expected title")
	cmd.Flags().IntP("jobs", "j", 0, "Number of benchmarks scored concurrently")
	cmd.Flags().Bool("validate-schema", false, "Validate input documents against their JSON schema")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	updateScoringConfigFromFlags(cmd)
	if err := types.ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	policy, err := scoringPolicy()
	if err != nil {
		return err
	}
	suite := newSuite(policy)

	opts := reporter.ReportOptions{
		Title:   reporter.DefaultOptions().Title,
		Version: config.VersionTag,
		NoColor: !config.Output.Color,
		Gaps:    config.Output.Gaps,
	}

	out := cmd.OutOrStdout()
	save, _ := cmd.Flags().GetBool("save")

	var summary *benchmark.Summary
	if len(args) == 1 {
		res, err := suite.ScoreDir(args[0])
		if err != nil {
			if errors.Is(err, benchmark.ErrMissingExpected) || errors.Is(err, benchmark.ErrMissingResults) {
				printWarning("Skipping %s: %s", filepath.Base(filepath.Clean(args[0])), benchmark.SkipReason(err))
				return nil
			}
			return fmt.Errorf("score %s: %w", args[0], err)
		}
		summary = benchmark.NewSummary(filepath.Dir(args[0]), policy, []*benchmark.BenchmarkResult{res}, nil)
		if config.Output.File == "" && isTextFormat(config.Output.Format) {
			reporter.WriteBenchmark(out, res, !config.Output.Color)
			if save {
				return saveRun(out, summary)
			}
			return nil
		}
	} else {
		if err := types.ValidateBenchmarkDir(config.BenchmarksDir); err != nil {
			return err
		}
		summary, err = suite.Run(ctx)
		if errors.Is(err, benchmark.ErrNoBenchmarks) {
			printWarning("No scored benchmarks found.")
			return nil
		}
		if err != nil {
			return err
		}
	}
	logger.Info().
		Int("benchmarks", len(summary.Results)).
		Int("skipped", len(summary.Skipped)).
		Str("grade", summary.Grade()).
		Msg("scoring complete")

	r, err := reporter.NewReporter(config.Output.Format, opts)
	if err != nil {
		return err
	}
	if config.Output.File != "" {
		if err := reporter.WriteToFile(r, summary, config.Output.File); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printSuccess("Report written to %s", config.Output.File)
	} else if err := r.Write(summary, out); err != nil {
		return err
	}

	if save {
		return saveRun(out, summary)
	}
	return nil
}

func updateScoringConfigFromFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("policy"); v != "" {
		config.Scoring.Policy = v
	}
	if v, _ := cmd.Flags().GetString("grade-scale"); v != "" {
		config.Scoring.GradeScale = v
	}
	if cmd.Flags().Changed("bidirectional-titles") {
		v, _ := cmd.Flags().GetBool("bidirectional-titles")
		config.Scoring.BidirectionalTitles = &v
	}
	if v, _ := cmd.Flags().GetInt("jobs"); v > 0 {
		config.Scoring.Jobs = v
	}
	if v, _ := cmd.Flags().GetBool("validate-schema"); v {
		config.Scoring.ValidateSchema = true
	}
	if cmd.Flags().Lookup("format") == nil {
		return
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		config.Output.Format = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		config.Output.File = v
	}
	if v, _ := cmd.Flags().GetBool("gaps"); v {
		config.Output.Gaps = true
	}
}

func scoringPolicy() (benchmark.Policy, error) {
	s := config.Scoring
	return benchmark.ResolvePolicy(s.Policy, s.GradeScale, s.BidirectionalTitles)
}

func newSuite(policy benchmark.Policy) *benchmark.Suite {
	return benchmark.NewSuite(benchmark.SuiteConfig{
		Root:           config.BenchmarksDir,
		Policy:         policy,
		Jobs:           config.Scoring.Jobs,
		ValidateSchema: config.Scoring.ValidateSchema,
		Gaps:           config.Output.Gaps,
	})
}

func isTextFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return true
	}
	return false
}

// saveRun appends the summary to the history file and prints the saved line
func saveRun(w io.Writer, summary *benchmark.Summary) error {
	store := history.NewStore(config.HistoryFile)
	rec := history.NewRunRecord(summary, config.VersionTag, time.Now())
	if _, err := store.Append(rec); err != nil {
		printError("Failed to save run: %v", err)
		return err
	}
	fmt.Fprintf(w, "Saved: %s (%.0f%% recall, %d benchmarks)\n", rec.Grade, rec.Recall*100, rec.Benchmarks)
	return nil
}
