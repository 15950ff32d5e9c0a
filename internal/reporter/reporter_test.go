package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/su1ph3r/auditeval/internal/benchmark"
	"github.com/su1ph3r/auditeval/internal/history"
	"github.com/su1ph3r/auditeval/pkg/types"
)

func sampleSummary() *benchmark.Summary {
	policy := benchmark.PolicyExtraFindings

	alpha := benchmark.Score(
		[]types.ExpectedVulnerability{{Category: "reentrancy", Title: "Reentrancy", Severity: "high"}},
		[]types.Finding{{Category: "reentrancy", Title: "Reentrancy in withdraw", Severity: "high"}},
		policy,
	)
	alpha.Name = "alpha"

	bravo := benchmark.Score(
		[]types.ExpectedVulnerability{
			{Category: "oracle", Title: "Stale price"},
			{Category: "access-control", Title: "Missing | onlyOwner"},
		},
		[]types.Finding{
			{Category: "oracle", Title: "stale price feed"},
			{Category: "gas", Title: "Unbounded loop"},
			{Category: "style", Title: "Naming", FalsePositive: types.Bool(true)},
		},
		policy,
	)
	bravo.Name = "bravo"
	bravo.Gaps = benchmark.AnalyzeGaps(bravo, policy)

	results := []*benchmark.BenchmarkResult{alpha, bravo}
	return &benchmark.Summary{
		Root:    "benchmarks",
		Policy:  policy.Name,
		Results: results,
		Skipped: []benchmark.Skip{{Name: "charlie", Reason: benchmark.ErrMissingResults.Error()}},
		Totals:  benchmark.Aggregate("TOTAL", results, policy),
	}
}

func TestNewReporter(t *testing.T) {
	for format, want := range map[string]string{
		"text": "text", "txt": "text", "": "text",
		"json": "json", "JSON": "json",
		"markdown": "markdown", "md": "markdown",
	} {
		r, err := NewReporter(format, DefaultOptions())
		require.NoError(t, err, format)
		assert.Equal(t, want, r.Format(), format)
	}

	_, err := NewReporter("sarif", DefaultOptions())
	assert.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	r := NewTextReporter(ReportOptions{NoColor: true, Version: "0.3.0"})

	out, err := r.Generate(sampleSummary())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "SECURITY AUDIT EVAL RESULTS (0.3.0)")
	assert.Contains(t, text, "Benchmarks evaluated: 2")
	assert.Contains(t, text, "Known vulnerabilities: 3")
	assert.Contains(t, text, "RECALL: 66.7% (2/3 known bugs found)")
	assert.Contains(t, text, "EXTRA FINDINGS: 1")
	assert.Contains(t, text, "FALSE POSITIVES: 1")
	assert.Contains(t, text, "OVERALL GRADE: C")
	assert.Contains(t, text, "alpha                         A+     100.0%        0      0")
	assert.Contains(t, text, "bravo                          D      50.0%        1      1")
	assert.Contains(t, text, "charlie: no results.json (run eval first)")
	assert.Contains(t, text, "FP = Reported non-bugs (bad)")
	assert.NotContains(t, text, "GAP ANALYSIS")
	assert.NotContains(t, text, "\x1b[")
}

func TestTextReporter_Gaps(t *testing.T) {
	r := NewTextReporter(ReportOptions{NoColor: true, Gaps: true})

	out, err := r.Generate(sampleSummary())
	require.NoError(t, err)
	assert.Contains(t, string(out), "GAP ANALYSIS")
	assert.Contains(t, string(out), "[GAP_NOT_REPORTED] Missing | onlyOwner")
}

func TestTextReporter_EmptySummary(t *testing.T) {
	_, err := NewTextReporter(DefaultOptions()).Generate(&benchmark.Summary{})
	assert.Error(t, err)
}

func TestJSONReporter(t *testing.T) {
	r := NewJSONReporter(ReportOptions{Gaps: true, Version: "0.3.0"})

	out, err := r.Generate(sampleSummary())
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "0.3.0", decoded.Version)
	assert.Equal(t, benchmark.PolicyNameExtraFindings, decoded.Policy)
	assert.Equal(t, "C", decoded.Overall.Grade)
	assert.InDelta(t, 2.0/3.0, decoded.Overall.Recall, 1e-9)
	assert.Equal(t, 4, decoded.Overall.FoundCount)

	require.Len(t, decoded.Benchmarks, 2)
	bravo := decoded.Benchmarks[1]
	assert.Equal(t, "bravo", bravo.Name)
	assert.Equal(t, []string{"Missing | onlyOwner"}, bravo.Missed)
	require.Len(t, bravo.Gaps, 1)
	assert.Equal(t, benchmark.GapNotReported, bravo.Gaps[0].Gap)

	require.Len(t, decoded.Skipped, 1)
	assert.Equal(t, "charlie", decoded.Skipped[0].Name)
}

func TestJSONReporter_OmitsGapsByDefault(t *testing.T) {
	out, err := NewJSONReporter(DefaultOptions()).Generate(sampleSummary())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "gap_type")
}

func TestMarkdownReporter(t *testing.T) {
	r := NewMarkdownReporter(ReportOptions{Gaps: true})

	out, err := r.Generate(sampleSummary())
	require.NoError(t, err)
	md := string(out)

	assert.Contains(t, md, "# Security Audit Eval Results")
	assert.Contains(t, md, "| **Grade** | **C** |")
	assert.Contains(t, md, "| alpha | A+ | 100.0% | 0 | 0 |")
	assert.Contains(t, md, "| bravo | D | 50.0% | 1 | 1 |")
	assert.Contains(t, md, "- `charlie`: no results.json (run eval first)")
	assert.Contains(t, md, "## Gap Analysis")
	assert.Contains(t, md, `Missing \| onlyOwner`)
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "eval.json")
	r, err := NewReporter("json", DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, WriteToFile(r, sampleSummary(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestWriteBenchmark(t *testing.T) {
	s := sampleSummary()
	var buf bytes.Buffer
	WriteBenchmark(&buf, s.Results[1], true)

	out := buf.String()
	assert.Contains(t, out, "bravo: D")
	assert.Contains(t, out, "Recall: 50.0% (1/2 known bugs found)")
	assert.Contains(t, out, "Extra findings: 1 (bonus!)")
	assert.Contains(t, out, "False positives: 1")
	assert.Contains(t, out, "- Missing | onlyOwner")
	assert.Contains(t, out, "[GAP_NOT_REPORTED]")
}

func TestWriteHistory(t *testing.T) {
	h := &history.History{Runs: []history.RunRecord{
		{Timestamp: "2026-01-01T10:00:00Z", SkillVersion: "0.1.0", Benchmarks: 3, Recall: 0.5, FalsePositives: 2, Grade: "D"},
		{Timestamp: "2026-01-02T10:00:00Z", SkillVersion: "0.2.0", Benchmarks: 3, Recall: 0.75, FalsePositives: 1, Grade: "C"},
		{Timestamp: "2026-01-03T10:00:00Z", SkillVersion: "0.2.1", Benchmarks: 3, Recall: 0.75, FalsePositives: 0, Grade: "C"},
	}}

	var buf bytes.Buffer
	WriteHistory(&buf, h, HistoryOptions{Last: 2, StallWindow: 1, NoColor: true})
	out := buf.String()

	assert.NotContains(t, out, "0.1.0")
	assert.Contains(t, out, "2026-01-02 10:00")
	assert.Contains(t, out, "0.2.1")
	assert.Contains(t, out, "Trend: recall unchanged since previous run (C -> C, FP -1, extra +0)")
	assert.Contains(t, out, "Stalled: recall unchanged over the last 2 runs")
}

func TestWriteHistory_Converged(t *testing.T) {
	h := &history.History{Runs: []history.RunRecord{
		{Timestamp: "2026-01-01T10:00:00Z", Recall: 0.5, Grade: "D"},
		{Timestamp: "2026-01-02T10:00:00Z", Recall: 1.0, Grade: "A+"},
	}}

	var buf bytes.Buffer
	WriteHistory(&buf, h, HistoryOptions{StallWindow: 3, NoColor: true})
	assert.Contains(t, buf.String(), "Trend: recall up 50.0%")
	assert.Contains(t, buf.String(), "Converged")
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteHistory(&buf, &history.History{}, HistoryOptions{})
	assert.Equal(t, "No runs recorded.\n", buf.String())
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a \| b`, EscapeMarkdown("a | b"))
	assert.Equal(t, "one two", EscapeMarkdown("one\ntwo"))
}
