package benchmark

import (
	"strings"

	"github.com/su1ph3r/auditeval/pkg/types"
)

// matchesExpected checks whether a finding corresponds to an expected
// vulnerability: equal categories, or the expected title contained in the
// found title (and, when bidirectional, the reverse). Comparisons are
// case-insensitive and an empty value never matches.
func matchesExpected(exp types.ExpectedVulnerability, f types.Finding, bidirectional bool) bool {
	if cat := exp.NormCategory(); cat != "" && cat == f.NormCategory() {
		return true
	}

	expTitle, foundTitle := exp.NormTitle(), f.NormTitle()
	if expTitle == "" || foundTitle == "" {
		return false
	}
	if strings.Contains(foundTitle, expTitle) {
		return true
	}
	return bidirectional && strings.Contains(expTitle, foundTitle)
}

func severityMatches(exp types.ExpectedVulnerability, f types.Finding) bool {
	sev := exp.NormSeverity()
	return sev != "" && sev == f.NormSeverity()
}

// Matches reports whether the finding would match the expected vulnerability
// under the given policy, ignoring credit already taken by other findings.
func (p Policy) Matches(exp types.ExpectedVulnerability, f types.Finding) bool {
	return matchesExpected(exp, f, p.BidirectionalTitles)
}
