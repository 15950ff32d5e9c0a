package reporter

import (
	"encoding/json"
	"io"

	"github.com/su1ph3r/auditeval/internal/benchmark"
)

// JSONReporter generates JSON reports
type JSONReporter struct {
	options ReportOptions
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(options ReportOptions) *JSONReporter {
	return &JSONReporter{options: options}
}

// Format returns the format name
func (r *JSONReporter) Format() string {
	return "json"
}

// Extension returns the file extension
func (r *JSONReporter) Extension() string {
	return "json"
}

// Generate generates a JSON report
func (r *JSONReporter) Generate(summary *benchmark.Summary) ([]byte, error) {
	return json.MarshalIndent(r.prepareOutput(summary), "", "  ")
}

// Write writes the JSON report to a writer
func (r *JSONReporter) Write(summary *benchmark.Summary, w io.Writer) error {
	data, err := r.Generate(summary)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (r *JSONReporter) prepareOutput(summary *benchmark.Summary) *JSONOutput {
	output := &JSONOutput{
		Version:    r.options.Version,
		Root:       summary.Root,
		Policy:     summary.Policy,
		Benchmarks: make([]JSONBenchmark, 0, len(summary.Results)),
		Skipped:    summary.Skipped,
	}
	if summary.Totals != nil {
		output.Overall = newJSONBenchmark(summary.Totals, false)
	}
	for _, res := range summary.Results {
		output.Benchmarks = append(output.Benchmarks, newJSONBenchmark(res, r.options.Gaps))
	}
	return output
}

func newJSONBenchmark(res *benchmark.BenchmarkResult, gaps bool) JSONBenchmark {
	jb := JSONBenchmark{
		Name:              res.Name,
		Grade:             res.Grade(),
		Recall:            res.Recall(),
		Precision:         res.Precision(),
		F1:                res.F1(),
		FalsePositiveRate: res.FalsePositiveRate(),
		SeverityAccuracy:  res.SeverityAccuracy(),
		ExpectedCount:     res.ExpectedCount,
		FoundCount:        res.FoundCount,
		TruePositives:     res.TruePositives,
		FalsePositives:    res.FalsePositives,
		FalseNegatives:    res.FalseNegatives,
		ExtraFindings:     res.ExtraFindings,
	}
	for _, v := range res.MissedVulnerabilities() {
		jb.Missed = append(jb.Missed, v.Label())
	}
	if gaps {
		jb.Gaps = res.Gaps
	}
	return jb
}

// JSONOutput is the JSON output structure
type JSONOutput struct {
	Version    string           `json:"version,omitempty"`
	Root       string           `json:"root"`
	Policy     string           `json:"policy"`
	Overall    JSONBenchmark    `json:"overall"`
	Benchmarks []JSONBenchmark  `json:"benchmarks"`
	Skipped    []benchmark.Skip `json:"skipped,omitempty"`
}

// JSONBenchmark is the flattened metrics of one benchmark or of the totals
type JSONBenchmark struct {
	Name              string                  `json:"name"`
	Grade             string                  `json:"grade"`
	Recall            float64                 `json:"recall"`
	Precision         float64                 `json:"precision"`
	F1                float64                 `json:"f1"`
	FalsePositiveRate float64                 `json:"false_positive_rate"`
	SeverityAccuracy  float64                 `json:"severity_accuracy"`
	ExpectedCount     int                     `json:"expected_count"`
	FoundCount        int                     `json:"found_count"`
	TruePositives     int                     `json:"true_positives"`
	FalsePositives    int                     `json:"false_positives"`
	FalseNegatives    int                     `json:"false_negatives"`
	ExtraFindings     int                     `json:"extra_findings"`
	Missed            []string                `json:"missed,omitempty"`
	Gaps              []benchmark.GapAnalysis `json:"gaps,omitempty"`
}
