package benchmark

import (
	"github.com/su1ph3r/auditeval/pkg/types"
)

// Match pairs a finding with the expected vulnerability it was credited to.
type Match struct {
	ExpectedIndex int  `json:"expected_index"`
	FindingIndex  int  `json:"finding_index"`
	SeverityMatch bool `json:"severity_match"`
}

// BenchmarkResult holds the outcome of scoring one benchmark's findings
// against its expected vulnerabilities.
//
// TruePositives+FalseNegatives == ExpectedCount and
// TruePositives+FalsePositives+ExtraFindings == FoundCount always hold.
type BenchmarkResult struct {
	Name   string `json:"name"`
	Policy string `json:"policy"`

	ExpectedCount   int `json:"expected_count"`
	FoundCount      int `json:"found_count"`
	TruePositives   int `json:"true_positives"`
	FalsePositives  int `json:"false_positives"`
	FalseNegatives  int `json:"false_negatives"`
	ExtraFindings   int `json:"extra_findings"`
	SeverityMatches int `json:"severity_matches"`

	Matches   []Match `json:"matches,omitempty"`
	Missed    []int   `json:"missed,omitempty"`    // expected indices never credited
	Flagged   []int   `json:"flagged,omitempty"`   // finding indices self-flagged as false positives
	Unmatched []int   `json:"unmatched,omitempty"` // finding indices that matched nothing and were not flagged

	Gaps []GapAnalysis `json:"gaps,omitempty"`

	Expected []types.ExpectedVulnerability `json:"-"`
	Found    []types.Finding               `json:"-"`

	grades GradeTable
}

// Recall is the fraction of expected vulnerabilities that were found. Nothing
// expected counts as perfect recall.
func (r *BenchmarkResult) Recall() float64 {
	if r.ExpectedCount == 0 {
		return 1.0
	}
	return float64(r.TruePositives) / float64(r.ExpectedCount)
}

// Precision is the fraction of findings that were true positives. No findings
// counts as perfect precision.
func (r *BenchmarkResult) Precision() float64 {
	if r.FoundCount == 0 {
		return 1.0
	}
	return float64(r.TruePositives) / float64(r.FoundCount)
}

// FalsePositiveRate is the fraction of findings that were false positives.
func (r *BenchmarkResult) FalsePositiveRate() float64 {
	if r.FoundCount == 0 {
		return 0.0
	}
	return float64(r.FalsePositives) / float64(r.FoundCount)
}

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (r *BenchmarkResult) F1() float64 {
	p, rc := r.Precision(), r.Recall()
	if p+rc == 0 {
		return 0
	}
	return 2 * p * rc / (p + rc)
}

// SeverityAccuracy is the fraction of true positives whose severity agreed
// with the expected severity.
func (r *BenchmarkResult) SeverityAccuracy() float64 {
	if r.TruePositives == 0 {
		return 1.0
	}
	return float64(r.SeverityMatches) / float64(r.TruePositives)
}

// Grade returns the letter grade for this result.
func (r *BenchmarkResult) Grade() string {
	g := r.grades
	if len(g.Thresholds) == 0 {
		g = StrictGrades
	}
	return g.Assign(r.Recall(), r.FalsePositives)
}

// MissedVulnerabilities returns the expected vulnerabilities that were not found.
func (r *BenchmarkResult) MissedVulnerabilities() []types.ExpectedVulnerability {
	var out []types.ExpectedVulnerability
	for _, i := range r.Missed {
		if i >= 0 && i < len(r.Expected) {
			out = append(out, r.Expected[i])
		}
	}
	return out
}

// ExtraFindingList returns the unmatched findings that were counted as extra
// findings. It is empty under policies that count them as false positives.
func (r *BenchmarkResult) ExtraFindingList() []types.Finding {
	if r.ExtraFindings == 0 {
		return nil
	}
	var out []types.Finding
	for _, i := range r.Unmatched {
		if i >= 0 && i < len(r.Found) {
			out = append(out, r.Found[i])
		}
	}
	return out
}

// Aggregate sums per-benchmark counts into a single result graded with the
// policy's grade table. Detail slices are not carried over.
func Aggregate(name string, results []*BenchmarkResult, policy Policy) *BenchmarkResult {
	total := &BenchmarkResult{
		Name:   name,
		Policy: policy.Name,
		grades: policy.grades(),
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		total.ExpectedCount += r.ExpectedCount
		total.FoundCount += r.FoundCount
		total.TruePositives += r.TruePositives
		total.FalsePositives += r.FalsePositives
		total.FalseNegatives += r.FalseNegatives
		total.ExtraFindings += r.ExtraFindings
		total.SeverityMatches += r.SeverityMatches
	}
	return total
}
