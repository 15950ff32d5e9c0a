package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoBenchmarks is returned when a suite run scores nothing.
var ErrNoBenchmarks = errors.New("no scored benchmarks found")

// SuiteConfig configures a benchmark suite run.
type SuiteConfig struct {
	Root           string // directory holding one subdirectory per benchmark
	Policy         Policy
	Jobs           int // benchmarks scored concurrently; <1 means 1
	ValidateSchema bool
	Gaps           bool // attach gap analysis to every result
}

// Skip records a benchmark that could not be scored.
type Skip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Summary is the aggregate outcome of a suite run. Results are in benchmark
// directory sort order.
type Summary struct {
	Root    string             `json:"root"`
	Policy  string             `json:"policy"`
	Results []*BenchmarkResult `json:"results"`
	Skipped []Skip             `json:"skipped,omitempty"`
	Totals  *BenchmarkResult   `json:"totals"`
}

// NewSummary builds a summary over already scored results. Totals is nil when
// results is empty.
func NewSummary(root string, policy Policy, results []*BenchmarkResult, skipped []Skip) *Summary {
	summary := &Summary{
		Root:    root,
		Policy:  policy.Name,
		Results: results,
		Skipped: skipped,
	}
	if len(results) > 0 {
		summary.Totals = Aggregate("TOTAL", results, policy)
	}
	return summary
}

// totals returns the aggregate result. A summary with nothing scored reports
// the zero-count defaults graded with its policy's table.
func (s *Summary) totals() *BenchmarkResult {
	if s.Totals != nil {
		return s.Totals
	}
	policy, err := ParsePolicy(s.Policy)
	if err != nil {
		policy = PolicyExtraFindings
	}
	return Aggregate("TOTAL", nil, policy)
}

// Recall returns the overall recall across all scored benchmarks.
func (s *Summary) Recall() float64 { return s.totals().Recall() }

// Precision returns the overall precision across all scored benchmarks.
func (s *Summary) Precision() float64 { return s.totals().Precision() }

// F1 returns the overall F1 score.
func (s *Summary) F1() float64 { return s.totals().F1() }

// FalsePositiveRate returns the overall false positive rate.
func (s *Summary) FalsePositiveRate() float64 { return s.totals().FalsePositiveRate() }

// Grade returns the overall grade.
func (s *Summary) Grade() string { return s.totals().Grade() }

// Suite scores every benchmark under a root directory.
type Suite struct {
	cfg SuiteConfig
}

// NewSuite creates a suite runner.
func NewSuite(cfg SuiteConfig) *Suite {
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.Policy.Name == "" {
		cfg.Policy = PolicyExtraFindings
	}
	return &Suite{cfg: cfg}
}

// Run discovers, loads and scores every benchmark. Benchmarks with missing or
// unreadable inputs are recorded in Summary.Skipped instead of failing the run.
func (s *Suite) Run(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	dirs, err := s.Discover()
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("root", s.cfg.Root).Int("benchmarks", len(dirs)).Msg("discovered benchmarks")

	results := make([]*BenchmarkResult, len(dirs))
	skips := make([]*Skip, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.ScoreDir(dir)
			if err != nil {
				name := filepath.Base(dir)
				skips[i] = &Skip{Name: name, Reason: SkipReason(err), Err: err}
				logger.Warn().Str("benchmark", name).Err(err).Msg("skipping benchmark")
				return nil
			}
			logger.Debug().
				Str("benchmark", res.Name).
				Int("expected", res.ExpectedCount).
				Int("found", res.FoundCount).
				Int("true_positives", res.TruePositives).
				Str("grade", res.Grade()).
				Msg("scored benchmark")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score benchmarks: %w", err)
	}

	var scored []*BenchmarkResult
	var skipped []Skip
	for i := range dirs {
		if results[i] != nil {
			scored = append(scored, results[i])
		}
		if skips[i] != nil {
			skipped = append(skipped, *skips[i])
		}
	}

	summary := NewSummary(s.cfg.Root, s.cfg.Policy, scored, skipped)
	if summary.Totals == nil {
		return summary, ErrNoBenchmarks
	}
	return summary, nil
}

// ScoreDir loads and scores a single benchmark directory.
func (s *Suite) ScoreDir(dir string) (*BenchmarkResult, error) {
	b, err := LoadBenchmark(dir, LoadOptions{ValidateSchema: s.cfg.ValidateSchema})
	if err != nil {
		return nil, err
	}
	res := Score(b.Expected, b.Findings, s.cfg.Policy)
	res.Name = b.Name
	if s.cfg.Gaps {
		res.Gaps = AnalyzeGaps(res, s.cfg.Policy)
	}
	return res, nil
}

// Discover lists benchmark directories under the root in lexical order,
// ignoring files and hidden directories.
func (s *Suite) Discover() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("read benchmarks dir: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(s.cfg.Root, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// SkipReason returns a short reason for a benchmark that could not be scored,
// without the directory path carried by the wrapped error.
func SkipReason(err error) string {
	var se *SchemaError
	switch {
	case errors.Is(err, ErrMissingExpected):
		return ErrMissingExpected.Error()
	case errors.Is(err, ErrMissingResults):
		return ErrMissingResults.Error()
	case errors.As(err, &se):
		return fmt.Sprintf("schema violations (%d)", len(se.Violations))
	default:
		return err.Error()
	}
}
