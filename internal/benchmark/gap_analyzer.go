package benchmark

import (
	"fmt"
	"strings"
)

// GapType classifies why an expected vulnerability was missed.
type GapType string

const (
	GapNotReported          GapType = "GAP_NOT_REPORTED"
	GapFlaggedFalsePositive GapType = "GAP_FLAGGED_FALSE_POSITIVE"
	GapCreditTaken          GapType = "GAP_CREDIT_TAKEN"
	GapSeverityMismatch     GapType = "GAP_SEVERITY_MISMATCH"
)

// GapAnalysis describes why a specific expected vulnerability was missed, or
// for GapSeverityMismatch, found with the wrong severity.
type GapAnalysis struct {
	ExpectedIndex int     `json:"expected_index"`
	Title         string  `json:"title"`
	Category      string  `json:"category"`
	Severity      string  `json:"severity"`
	Gap           GapType `json:"gap_type"`
	Notes         string  `json:"notes"`
	FindingIndex  int     `json:"finding_index"`
}

// AnalyzeGaps explains each missed expected vulnerability in res and each
// credited match whose severity disagreed. Expected entries without a
// severity never produce a severity gap.
func AnalyzeGaps(res *BenchmarkResult, policy Policy) []GapAnalysis {
	var gaps []GapAnalysis

	creditedBy := make(map[int]int, len(res.Matches)) // finding index -> expected index
	for _, m := range res.Matches {
		creditedBy[m.FindingIndex] = m.ExpectedIndex
	}

	for _, ei := range res.Missed {
		if ei < 0 || ei >= len(res.Expected) {
			continue
		}
		gaps = append(gaps, analyzeOneGap(ei, res, creditedBy, policy))
	}

	for _, m := range res.Matches {
		exp := res.Expected[m.ExpectedIndex]
		if m.SeverityMatch || exp.NormSeverity() == "" {
			continue
		}
		f := res.Found[m.FindingIndex]
		gaps = append(gaps, GapAnalysis{
			ExpectedIndex: m.ExpectedIndex,
			Title:         exp.Title,
			Category:      exp.Category,
			Severity:      exp.Severity,
			Gap:           GapSeverityMismatch,
			FindingIndex:  m.FindingIndex,
			Notes: fmt.Sprintf("Reported as %s, expected %s",
				orUnknown(f.Severity), exp.NormSeverity()),
		})
	}

	return gaps
}

func analyzeOneGap(ei int, res *BenchmarkResult, creditedBy map[int]int, policy Policy) GapAnalysis {
	exp := res.Expected[ei]
	ga := GapAnalysis{
		ExpectedIndex: ei,
		Title:         exp.Title,
		Category:      exp.Category,
		Severity:      exp.Severity,
		FindingIndex:  -1,
	}

	// 1. Did the audit report it but mark it as a false positive?
	for _, fi := range res.Flagged {
		if policy.Matches(exp, res.Found[fi]) {
			ga.Gap = GapFlaggedFalsePositive
			ga.FindingIndex = fi
			ga.Notes = fmt.Sprintf("Finding %q matched but was flagged false_positive", res.Found[fi].Title)
			return ga
		}
	}

	// 2. Was a matching finding credited to an earlier expected entry?
	for fi, f := range res.Found {
		other, ok := creditedBy[fi]
		if !ok || !policy.Matches(exp, f) {
			continue
		}
		ga.Gap = GapCreditTaken
		ga.FindingIndex = fi
		ga.Notes = fmt.Sprintf("Finding %q matched but was already credited to %q",
			f.Title, res.Expected[other].Label())
		return ga
	}

	ga.Gap = GapNotReported
	ga.Notes = fmt.Sprintf("No finding with category %q or a title containing %q",
		strings.ToLower(exp.Category), strings.ToLower(exp.Title))
	return ga
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.ToLower(s)
}
