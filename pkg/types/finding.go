package types

import (
	"strings"
)

// Finding represents a potential vulnerability reported by the audit under evaluation
type Finding struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Title         string `json:"title" yaml:"title"`
	Category      string `json:"category" yaml:"category"`
	Severity      string `json:"severity" yaml:"severity"` // critical, high, medium, low, info
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Location      string `json:"location,omitempty" yaml:"location,omitempty"`
	FalsePositive *bool  `json:"false_positive,omitempty" yaml:"false_positive,omitempty"`
}

// IsFalsePositive reports whether the evaluator explicitly flagged the finding
// as a false positive. An absent flag means false.
func (f Finding) IsFalsePositive() bool {
	return f.FalsePositive != nil && *f.FalsePositive
}

// NormTitle returns the lower-cased, trimmed title
func (f Finding) NormTitle() string { return normalize(f.Title) }

// NormCategory returns the lower-cased, trimmed category
func (f Finding) NormCategory() string { return normalize(f.Category) }

// NormSeverity returns the lower-cased, trimmed severity
func (f Finding) NormSeverity() string { return normalize(f.Severity) }

// ExpectedVulnerability is a ground-truth issue a benchmark is designed to surface
type ExpectedVulnerability struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category" yaml:"category"`
	Severity    string `json:"severity" yaml:"severity"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NormTitle returns the lower-cased, trimmed title
func (v ExpectedVulnerability) NormTitle() string { return normalize(v.Title) }

// NormCategory returns the lower-cased, trimmed category
func (v ExpectedVulnerability) NormCategory() string { return normalize(v.Category) }

// NormSeverity returns the lower-cased, trimmed severity
func (v ExpectedVulnerability) NormSeverity() string { return normalize(v.Severity) }

// Label returns a short human-readable name for the vulnerability
func (v ExpectedVulnerability) Label() string {
	switch {
	case v.ID != "" && v.Title != "":
		return v.ID + " " + v.Title
	case v.Title != "":
		return v.Title
	case v.ID != "":
		return v.ID
	default:
		return v.Category
	}
}

// ExpectedDocument is the on-disk shape of a benchmark's expected.json
type ExpectedDocument struct {
	Benchmark       string                  `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Vulnerabilities []ExpectedVulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
}

// ResultsDocument is the on-disk shape of a benchmark's results.json
type ResultsDocument struct {
	Benchmark string    `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Findings  []Finding `json:"findings" yaml:"findings"`
}

// Severity constants
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// SeverityRank orders severities, higher is more severe. Unknown values rank 0.
func SeverityRank(s string) int {
	switch normalize(s) {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Bool returns a pointer to b, for populating optional flags
func Bool(b bool) *bool {
	return &b
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
