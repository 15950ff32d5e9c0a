package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/su1ph3r/auditeval/internal/benchmark"
)

// MarkdownReporter generates Markdown reports
type MarkdownReporter struct {
	options ReportOptions
}

// NewMarkdownReporter creates a new Markdown reporter
func NewMarkdownReporter(options ReportOptions) *MarkdownReporter {
	if options.Title == "" {
		options.Title = DefaultOptions().Title
	}
	return &MarkdownReporter{options: options}
}

// Format returns the format name
func (r *MarkdownReporter) Format() string {
	return "markdown"
}

// Extension returns the file extension
func (r *MarkdownReporter) Extension() string {
	return "md"
}

// Generate generates a Markdown report
func (r *MarkdownReporter) Generate(summary *benchmark.Summary) ([]byte, error) {
	var buf strings.Builder
	if err := r.Write(summary, &buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Write writes the Markdown report to a writer
func (r *MarkdownReporter) Write(summary *benchmark.Summary, w io.Writer) error {
	if summary == nil || summary.Totals == nil {
		return fmt.Errorf("no scored benchmarks to report")
	}
	t := summary.Totals

	fmt.Fprintf(w, "# %s\n\n", r.options.Title)

	// Summary
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	if r.options.Version != "" {
		fmt.Fprintf(w, "| Version | `%s` |\n", r.options.Version)
	}
	fmt.Fprintf(w, "| Policy | `%s` |\n", summary.Policy)
	fmt.Fprintf(w, "| Benchmarks Evaluated | %d |\n", len(summary.Results))
	fmt.Fprintf(w, "| Known Vulnerabilities | %d |\n", t.ExpectedCount)
	fmt.Fprintf(w, "| Recall | %s (%d/%d) |\n", Percent(summary.Recall()), t.TruePositives, t.ExpectedCount)
	fmt.Fprintf(w, "| Precision | %s |\n", Percent(summary.Precision()))
	fmt.Fprintf(w, "| Extra Findings | %d |\n", t.ExtraFindings)
	fmt.Fprintf(w, "| False Positives | %d |\n", t.FalsePositives)
	fmt.Fprintf(w, "| **Grade** | **%s** |\n", summary.Grade())
	fmt.Fprintf(w, "\n")

	// Per-benchmark table
	fmt.Fprintf(w, "## Benchmarks\n\n")
	fmt.Fprintf(w, "| Benchmark | Grade | Recall | Extra | FP |\n")
	fmt.Fprintf(w, "|-----------|-------|--------|-------|----|\n")
	for _, res := range summary.Results {
		fmt.Fprintf(w, "| %s | %s | %s | %d | %d |\n",
			EscapeMarkdown(res.Name), res.Grade(), Percent(res.Recall()), res.ExtraFindings, res.FalsePositives)
	}
	fmt.Fprintf(w, "\n")

	if len(summary.Skipped) > 0 {
		fmt.Fprintf(w, "### Skipped\n\n")
		for _, sk := range summary.Skipped {
			fmt.Fprintf(w, "- `%s`: %s\n", sk.Name, sk.Reason)
		}
		fmt.Fprintf(w, "\n")
	}

	if r.options.Gaps {
		r.writeGaps(w, summary)
	}

	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "_Recall = found known bugs. Extra = found additional real bugs. FP = reported non-bugs._\n")
	return nil
}

func (r *MarkdownReporter) writeGaps(w io.Writer, summary *benchmark.Summary) {
	var withGaps []*benchmark.BenchmarkResult
	for _, res := range summary.Results {
		if len(res.Gaps) > 0 {
			withGaps = append(withGaps, res)
		}
	}
	if len(withGaps) == 0 {
		return
	}

	fmt.Fprintf(w, "## Gap Analysis\n\n")
	for _, res := range withGaps {
		fmt.Fprintf(w, "### %s\n\n", EscapeMarkdown(res.Name))
		fmt.Fprintf(w, "| Gap | Title | Category | Notes |\n")
		fmt.Fprintf(w, "|-----|-------|----------|-------|\n")
		for _, g := range res.Gaps {
			fmt.Fprintf(w, "| `%s` | %s | %s | %s |\n",
				g.Gap, EscapeMarkdown(g.Title), EscapeMarkdown(g.Category), EscapeMarkdown(g.Notes))
		}
		fmt.Fprintf(w, "\n")
	}
}
