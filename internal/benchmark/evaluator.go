package benchmark

import (
	"github.com/su1ph3r/auditeval/pkg/types"
)

// Score compares findings against expected vulnerabilities and returns the
// resulting counts. Findings are processed in order and each takes the first
// not-yet-credited expected vulnerability it matches, so every expected
// vulnerability is credited at most once.
func Score(expected []types.ExpectedVulnerability, found []types.Finding, policy Policy) *BenchmarkResult {
	res := &BenchmarkResult{
		Policy:        policy.Name,
		ExpectedCount: len(expected),
		FoundCount:    len(found),
		Expected:      expected,
		Found:         found,
		grades:        policy.grades(),
	}

	credited := make([]bool, len(expected))

	for fi, f := range found {
		if policy.HonorFalsePositiveFlag && f.IsFalsePositive() {
			res.FalsePositives++
			res.Flagged = append(res.Flagged, fi)
			continue
		}

		ei := firstMatch(expected, credited, f, policy.BidirectionalTitles)
		if ei < 0 {
			res.Unmatched = append(res.Unmatched, fi)
			continue
		}

		credited[ei] = true
		res.TruePositives++
		sev := severityMatches(expected[ei], f)
		if sev {
			res.SeverityMatches++
		}
		res.Matches = append(res.Matches, Match{
			ExpectedIndex: ei,
			FindingIndex:  fi,
			SeverityMatch: sev,
		})
	}

	for ei := range expected {
		if !credited[ei] {
			res.Missed = append(res.Missed, ei)
		}
	}

	res.FalseNegatives = res.ExpectedCount - res.TruePositives
	if policy.HonorFalsePositiveFlag {
		res.ExtraFindings = len(res.Unmatched)
	} else {
		res.FalsePositives += len(res.Unmatched)
	}

	return res
}

// firstMatch returns the index of the first uncredited expected vulnerability
// matching f, or -1.
func firstMatch(expected []types.ExpectedVulnerability, credited []bool, f types.Finding, bidirectional bool) int {
	for i, exp := range expected {
		if credited[i] {
			continue
		}
		if matchesExpected(exp, f, bidirectional) {
			return i
		}
	}
	return -1
}
