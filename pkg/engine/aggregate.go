package engine

import (
	"fmt"

	"github.com/frontlint/frontlint/pkg/rules"
)

// RuleResult pairs a rule with the violations it produced for one text.
type RuleResult struct {
	Rule       *rules.Rule
	Violations []Violation
}

// severityTally counts violations per severity.
type severityTally struct {
	critical, high, medium, low int
}

func (t *severityTally) add(s rules.Severity, n int) {
	switch s {
	case rules.SeverityCritical:
		t.critical += n
	case rules.SeverityHigh:
		t.high += n
	case rules.SeverityMedium:
		t.medium += n
	case rules.SeverityLow:
		t.low += n
	}
}

func (t *severityTally) total() int {
	return t.critical + t.high + t.medium + t.low
}

// Score applies the weighted-penalty formula, clamped to [0,100]. Adding a
// violation never raises the result.
func (t *severityTally) score() int {
	s := 100 - 20*t.critical - 10*t.high - 5*t.medium
	if s < 0 {
		s = 0
	}
	return s
}

// Aggregate converts per-rule violations for one file into a CheckResult.
// rulesChecked is the number of enabled rules that were evaluated; it feeds
// the summary line.
func Aggregate(file string, results []RuleResult, category rules.Category, rulesChecked int) CheckResult {
	var issues []Issue
	var tally severityTally
	triggered := 0

	for _, rr := range results {
		if len(rr.Violations) == 0 {
			continue
		}
		triggered++
		tally.add(rr.Rule.Severity, len(rr.Violations))
		for _, v := range rr.Violations {
			issues = append(issues, Issue{
				Type:     IssueTypeFor(rr.Rule.Severity),
				Category: category,
				Message:  fmt.Sprintf("[%s] %s: %s", rr.Rule.ID, rr.Rule.Title, v.Message),
				Line:     v.Line,
				Fix:      rr.Rule.Recommendation,
			})
		}
	}

	result := CheckResult{
		File:            file,
		Issues:          issues,
		TotalViolations: tally.total(),
	}

	if category.Scored() {
		score := tally.score()
		result.Score = &score
	}
	result.Summary = summarize(category, &tally, result.Score, triggered, rulesChecked)
	return result
}

func summarize(category rules.Category, t *severityTally, score *int, triggered, checked int) string {
	if t.total() == 0 {
		return fmt.Sprintf("No %s issues found (%d rules checked)", category, checked)
	}
	s := fmt.Sprintf("Found %d %s issue(s): %d critical, %d high, %d medium, %d low",
		t.total(), category, t.critical, t.high, t.medium, t.low)
	if score != nil {
		s += fmt.Sprintf(". Score: %d/100", *score)
	}
	return s + fmt.Sprintf(" (%d/%d rules triggered)", triggered, checked)
}
