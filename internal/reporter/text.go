package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/su1ph3r/auditeval/internal/benchmark"
)

const ruleWidth = 70

var bannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)

var gradeColors = map[string]lipgloss.Color{
	"A+": lipgloss.Color("#22c55e"),
	"A":  lipgloss.Color("#22c55e"),
	"B":  lipgloss.Color("#84cc16"),
	"C":  lipgloss.Color("#eab308"),
	"D":  lipgloss.Color("#f97316"),
	"F":  lipgloss.Color("#ef4444"),
}

// TextReporter generates plain console reports
type TextReporter struct {
	options ReportOptions
	painter
}

// NewTextReporter creates a new text reporter
func NewTextReporter(options ReportOptions) *TextReporter {
	if options.Title == "" {
		options.Title = DefaultOptions().Title
	}
	return &TextReporter{options: options, painter: painter{noColor: options.NoColor}}
}

// Format returns the format name
func (r *TextReporter) Format() string {
	return "text"
}

// Extension returns the file extension
func (r *TextReporter) Extension() string {
	return "txt"
}

// Generate generates a text report
func (r *TextReporter) Generate(summary *benchmark.Summary) ([]byte, error) {
	var buf strings.Builder
	if err := r.Write(summary, &buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Write writes the text report to a writer
func (r *TextReporter) Write(summary *benchmark.Summary, w io.Writer) error {
	if summary == nil || summary.Totals == nil {
		return fmt.Errorf("no scored benchmarks to report")
	}

	r.writeHeader(w)
	r.writeOverall(w, summary)
	r.writeTable(w, summary)
	r.writeSkipped(w, summary)
	if r.options.Gaps {
		r.writeGaps(w, summary)
	}
	r.writeLegend(w)
	return nil
}

func (r *TextReporter) writeHeader(w io.Writer) {
	title := strings.ToUpper(r.options.Title)
	if r.options.Version != "" {
		title += " (" + r.options.Version + ")"
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "%s\n", r.paint(color.New(color.Bold), title))
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", ruleWidth))
}

func (r *TextReporter) writeOverall(w io.Writer, s *benchmark.Summary) {
	t := s.Totals
	fmt.Fprintf(w, "\nBenchmarks evaluated: %d\n", len(s.Results))
	fmt.Fprintf(w, "Known vulnerabilities: %d\n", t.ExpectedCount)
	if s.Policy != "" {
		fmt.Fprintf(w, "Scoring policy: %s\n", s.Policy)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s %s (%d/%d known bugs found)\n",
		r.paint(color.New(color.FgGreen), "RECALL:"), Percent(s.Recall()), t.TruePositives, t.ExpectedCount)
	fmt.Fprintf(w, "%s %d (found more than expected)\n",
		r.paint(color.New(color.FgCyan), "EXTRA FINDINGS:"), t.ExtraFindings)
	fmt.Fprintf(w, "%s %d\n",
		r.paint(color.New(color.FgRed), "FALSE POSITIVES:"), t.FalsePositives)
	fmt.Fprintf(w, "PRECISION: %s  F1: %.3f\n", Percent(s.Precision()), s.F1())

	fmt.Fprintf(w, "\n%s\n", r.banner(s.Grade()))
}

// banner renders the overall grade in a bordered box
func (r *TextReporter) banner(grade string) string {
	style := bannerStyle
	if !r.noColor {
		style = style.Bold(true)
		if c, ok := gradeColors[grade]; ok {
			style = style.Foreground(c).BorderForeground(c)
		}
	}
	return style.Render("OVERALL GRADE: " + grade)
}

func (r *TextReporter) writeTable(w io.Writer, s *benchmark.Summary) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintf(w, "%-25s %6s %10s %8s %6s\n", "Benchmark", "Grade", "Recall", "Extra", "FP")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", ruleWidth))
	for _, res := range s.Results {
		grade := res.Grade()
		// pad before painting so escape codes don't skew the columns
		gradeCell := r.paint(GradeColor(grade), fmt.Sprintf("%6s", grade))
		fmt.Fprintf(w, "%-25s %s %10s %8d %6d\n",
			TruncateString(res.Name, 25), gradeCell, Percent(res.Recall()), res.ExtraFindings, res.FalsePositives)
	}
}

func (r *TextReporter) writeSkipped(w io.Writer, s *benchmark.Summary) {
	if len(s.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSkipped:\n")
	for _, sk := range s.Skipped {
		fmt.Fprintf(w, "  %s: %s\n", sk.Name, sk.Reason)
	}
}

func (r *TextReporter) writeGaps(w io.Writer, s *benchmark.Summary) {
	header := false
	for _, res := range s.Results {
		if len(res.Gaps) == 0 {
			continue
		}
		if !header {
			fmt.Fprintf(w, "\nGAP ANALYSIS\n")
			header = true
		}
		fmt.Fprintf(w, "%s\n", res.Name)
		writeGapLines(w, res.Gaps)
	}
}

func writeGapLines(w io.Writer, gaps []benchmark.GapAnalysis) {
	for _, g := range gaps {
		label := g.Title
		if label == "" {
			label = g.Category
		}
		fmt.Fprintf(w, "  [%s] %s\n", g.Gap, label)
		if g.Notes != "" {
			fmt.Fprintf(w, "      %s\n", g.Notes)
		}
	}
}

func (r *TextReporter) writeLegend(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "Recall = Found known bugs (most important)\n")
	fmt.Fprintf(w, "Extra = Found additional real bugs (good!)\n")
	fmt.Fprintf(w, "FP = Reported non-bugs (bad)\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", ruleWidth))
}

// WriteBenchmark writes a short summary of a single benchmark result
func WriteBenchmark(w io.Writer, res *benchmark.BenchmarkResult, noColor bool) {
	p := painter{noColor: noColor}
	grade := res.Grade()

	fmt.Fprintf(w, "\n%s: %s\n", res.Name, p.paint(GradeColor(grade), grade))
	fmt.Fprintf(w, "  Recall: %s (%d/%d known bugs found)\n", Percent(res.Recall()), res.TruePositives, res.ExpectedCount)
	fmt.Fprintf(w, "  Extra findings: %d (bonus!)\n", res.ExtraFindings)
	fmt.Fprintf(w, "  False positives: %d\n", res.FalsePositives)

	if missed := res.MissedVulnerabilities(); len(missed) > 0 {
		fmt.Fprintf(w, "  Missed:\n")
		for _, v := range missed {
			fmt.Fprintf(w, "    - %s\n", v.Label())
		}
	}
	if len(res.Gaps) > 0 {
		fmt.Fprintf(w, "  Gaps:\n")
		writeGapLines(w, res.Gaps)
	}
}
