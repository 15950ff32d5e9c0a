package benchmark

import (
	"fmt"
	"strings"
)

// GradeThreshold is one row of a grade table. A row applies when recall is at
// least MinRecall and, if RequireZeroFP is set, no false positives were counted.
type GradeThreshold struct {
	MinRecall     float64
	RequireZeroFP bool
	Grade         string
}

// GradeTable maps recall to a letter grade. Rows are evaluated top-down and
// the first applicable row wins; Fallback is used when none applies.
type GradeTable struct {
	Name       string
	Thresholds []GradeThreshold
	Fallback   string
}

// Assign returns the grade for the given recall and false positive count.
func (t GradeTable) Assign(recall float64, falsePositives int) string {
	for _, th := range t.Thresholds {
		if recall < th.MinRecall {
			continue
		}
		if th.RequireZeroFP && falsePositives != 0 {
			continue
		}
		return th.Grade
	}
	return t.Fallback
}

// StrictGrades distinguishes D from F.
var StrictGrades = GradeTable{
	Name: "strict",
	Thresholds: []GradeThreshold{
		{MinRecall: 1.0, RequireZeroFP: true, Grade: "A+"},
		{MinRecall: 1.0, Grade: "A"},
		{MinRecall: 0.8, Grade: "B"},
		{MinRecall: 0.6, Grade: "C"},
		{MinRecall: 0.4, Grade: "D"},
	},
	Fallback: "F",
}

// LenientGrades collapses everything below 0.6 recall into D.
var LenientGrades = GradeTable{
	Name: "lenient",
	Thresholds: []GradeThreshold{
		{MinRecall: 1.0, RequireZeroFP: true, Grade: "A+"},
		{MinRecall: 1.0, Grade: "A"},
		{MinRecall: 0.8, Grade: "B"},
		{MinRecall: 0.6, Grade: "C"},
	},
	Fallback: "D",
}

// ParseGradeScale resolves a grade table by name.
func ParseGradeScale(name string) (GradeTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return StrictGrades, nil
	case "lenient":
		return LenientGrades, nil
	default:
		return GradeTable{}, fmt.Errorf("unknown grade scale: %q", name)
	}
}

// Policy selects how findings are matched and graded.
type Policy struct {
	Name string

	// HonorFalsePositiveFlag counts findings flagged false_positive as false
	// positives without matching them, and turns the remaining unmatched
	// findings into extra findings. When unset the flag is ignored and every
	// unmatched finding is a false positive.
	HonorFalsePositiveFlag bool

	// BidirectionalTitles also accepts a found title contained in the
	// expected title.
	BidirectionalTitles bool

	Grades GradeTable
}

const (
	PolicyNameExtraFindings          = "extra-findings"
	PolicyNameUnmatchedFalsePositive = "unmatched-fp"
)

// PolicyExtraFindings is the canonical policy: self-flagged false positives
// are honoured, unmatched findings count as extra findings, titles match in
// one direction, grades use the strict table.
var PolicyExtraFindings = Policy{
	Name:                   PolicyNameExtraFindings,
	HonorFalsePositiveFlag: true,
	BidirectionalTitles:    false,
	Grades:                 StrictGrades,
}

// PolicyUnmatchedFalsePositive ignores the false_positive flag and treats
// every unmatched finding as a false positive.
var PolicyUnmatchedFalsePositive = Policy{
	Name:                   PolicyNameUnmatchedFalsePositive,
	HonorFalsePositiveFlag: false,
	BidirectionalTitles:    true,
	Grades:                 LenientGrades,
}

// ParsePolicy resolves a named policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyNameExtraFindings:
		return PolicyExtraFindings, nil
	case PolicyNameUnmatchedFalsePositive:
		return PolicyUnmatchedFalsePositive, nil
	default:
		return Policy{}, fmt.Errorf("unknown scoring policy: %q", name)
	}
}

// ResolvePolicy resolves a named policy and applies optional overrides. An
// empty gradeScale keeps the policy's own table and a nil bidirectional keeps
// its title matching direction.
func ResolvePolicy(name, gradeScale string, bidirectional *bool) (Policy, error) {
	p, err := ParsePolicy(name)
	if err != nil {
		return Policy{}, err
	}
	if gradeScale != "" {
		g, err := ParseGradeScale(gradeScale)
		if err != nil {
			return Policy{}, err
		}
		p.Grades = g
	}
	if bidirectional != nil {
		p.BidirectionalTitles = *bidirectional
	}
	return p, nil
}

func (p Policy) grades() GradeTable {
	if len(p.Grades.Thresholds) == 0 {
		return StrictGrades
	}
	return p.Grades
}
