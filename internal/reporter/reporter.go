// Package reporter provides output formatting for benchmark suite results
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/su1ph3r/auditeval/internal/benchmark"
)

// Reporter interface for generating reports
type Reporter interface {
	// Generate generates a report from a suite summary
	Generate(summary *benchmark.Summary) ([]byte, error)

	// Write writes the report to a writer
	Write(summary *benchmark.Summary, w io.Writer) error

	// Format returns the report format name
	Format() string

	// Extension returns the file extension for this format
	Extension() string
}

// NewReporter creates a reporter based on format
func NewReporter(format string, options ReportOptions) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return NewTextReporter(options), nil
	case "json":
		return NewJSONReporter(options), nil
	case "markdown", "md":
		return NewMarkdownReporter(options), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// ReportOptions contains options for report generation
type ReportOptions struct {
	Title   string // Custom report title
	Version string // Version tag shown in the header
	NoColor bool   // Disable ANSI colour in text output
	Gaps    bool   // Include gap analysis for each benchmark
}

// DefaultOptions returns default report options
func DefaultOptions() ReportOptions {
	return ReportOptions{
		Title: "Security Audit Eval Results",
	}
}

// WriteToFile writes a report to a file
func WriteToFile(reporter Reporter, summary *benchmark.Summary, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filepath.Clean(filename))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return reporter.Write(summary, file)
}

// GradeColor returns the console colour for a letter grade
func GradeColor(grade string) *color.Color {
	switch grade {
	case "A+", "A":
		return color.New(color.FgGreen, color.Bold)
	case "B":
		return color.New(color.FgGreen)
	case "C":
		return color.New(color.FgYellow)
	case "D":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// Percent formats a ratio as a percentage with one decimal
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// TruncateString truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// EscapeMarkdown escapes characters that break Markdown table cells
func EscapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// painter applies colour unless disabled
type painter struct {
	noColor bool
}

func (p painter) paint(c *color.Color, s string) string {
	if p.noColor {
		return s
	}
	return c.Sprint(s)
}
