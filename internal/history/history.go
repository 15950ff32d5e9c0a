// Package history keeps an append-only log of suite runs so scoring results
// can be tracked over time.
package history

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/su1ph3r/auditeval/internal/benchmark"
)

// BenchmarkDetail is the per-benchmark snapshot stored in a run record.
type BenchmarkDetail struct {
	Recall float64 `json:"recall"`
	Extra  int     `json:"extra"`
	FP     int     `json:"fp"`
	Grade  string  `json:"grade,omitempty"`
}

// RunRecord is a timestamped aggregate snapshot of one suite run. Records
// are never modified once appended.
type RunRecord struct {
	ID             string                     `json:"id,omitempty"`
	Timestamp      string                     `json:"timestamp"`
	SkillVersion   string                     `json:"skillVersion"`
	Policy         string                     `json:"policy,omitempty"`
	Benchmarks     int                        `json:"benchmarks"`
	KnownVulns     int                        `json:"knownVulns"`
	TruePositives  int                        `json:"truePositives"`
	Recall         float64                    `json:"recall"`
	Precision      float64                    `json:"precision"`
	ExtraFindings  int                        `json:"extraFindings"`
	FalsePositives int                        `json:"falsePositives"`
	Grade          string                     `json:"grade"`
	Details        map[string]BenchmarkDetail `json:"details"`
}

// History is the on-disk document: an ordered list of runs, oldest first.
type History struct {
	Runs []RunRecord `json:"runs"`
}

// NewRunRecord builds a run record from a suite summary.
func NewRunRecord(summary *benchmark.Summary, version string, now time.Time) RunRecord {
	rec := RunRecord{
		ID:           uuid.New().String(),
		Timestamp:    now.UTC().Format(time.RFC3339),
		SkillVersion: version,
		Policy:       summary.Policy,
		Benchmarks:   len(summary.Results),
		Details:      make(map[string]BenchmarkDetail, len(summary.Results)),
	}

	for _, r := range summary.Results {
		rec.Details[r.Name] = BenchmarkDetail{
			Recall: r.Recall(),
			Extra:  r.ExtraFindings,
			FP:     r.FalsePositives,
			Grade:  r.Grade(),
		}
	}

	if summary.Totals != nil {
		rec.KnownVulns = summary.Totals.ExpectedCount
		rec.TruePositives = summary.Totals.TruePositives
		rec.Recall = summary.Recall()
		rec.Precision = summary.Precision()
		rec.ExtraFindings = summary.Totals.ExtraFindings
		rec.FalsePositives = summary.Totals.FalsePositives
		rec.Grade = summary.Grade()
	}

	return rec
}

// Time parses the record timestamp. The zero time is returned for records
// with a malformed timestamp.
func (r RunRecord) Time() time.Time {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Latest returns the most recent run.
func (h *History) Latest() (RunRecord, bool) {
	if len(h.Runs) == 0 {
		return RunRecord{}, false
	}
	return h.Runs[len(h.Runs)-1], true
}

// Last returns up to n most recent runs, oldest first. n <= 0 returns all runs.
func (h *History) Last(n int) []RunRecord {
	if n <= 0 || n >= len(h.Runs) {
		return h.Runs
	}
	return h.Runs[len(h.Runs)-n:]
}

// IsConverged returns true if the run found every known vulnerability with
// no false positives.
func IsConverged(rec RunRecord) bool {
	return rec.Recall >= 1.0 && rec.FalsePositives == 0
}

// IsStalled returns true if the latest recall equals the recall of each of
// the n runs before it.
func (h *History) IsStalled(n int) bool {
	if n < 1 || len(h.Runs) < n+1 {
		return false
	}
	latest := h.Runs[len(h.Runs)-1].Recall
	for i := len(h.Runs) - n - 1; i < len(h.Runs)-1; i++ {
		if math.Abs(h.Runs[i].Recall-latest) > 1e-9 {
			return false
		}
	}
	return true
}

// Delta describes the change between the two most recent runs.
type Delta struct {
	Recall         float64
	FalsePositives int
	ExtraFindings  int
	FromGrade      string
	ToGrade        string
}

// Delta compares the last two runs. ok is false with fewer than two runs.
func (h *History) Delta() (d Delta, ok bool) {
	if len(h.Runs) < 2 {
		return Delta{}, false
	}
	prev, cur := h.Runs[len(h.Runs)-2], h.Runs[len(h.Runs)-1]
	return Delta{
		Recall:         cur.Recall - prev.Recall,
		FalsePositives: cur.FalsePositives - prev.FalsePositives,
		ExtraFindings:  cur.ExtraFindings - prev.ExtraFindings,
		FromGrade:      prev.Grade,
		ToGrade:        cur.Grade,
	}, true
}
