package engine

import (
	"strings"
	"testing"

	"github.com/frontlint/frontlint/pkg/rules"
)

func ruleWithSeverity(id string, sev rules.Severity) *rules.Rule {
	return &rules.Rule{
		ID:             id,
		Title:          "Rule " + id,
		Recommendation: "Fix " + id,
		Severity:       sev,
		Category:       rules.CategorySecurity,
		Scope:          rules.ScopeCode,
		Enabled:        true,
		Detection:      rules.DetectionSpec{Patterns: []string{"x"}},
	}
}

func violationsAt(id string, lines ...int) []Violation {
	var out []Violation
	for _, line := range lines {
		out = append(out, Violation{Line: line, Column: 1, Message: "found", RuleID: id})
	}
	return out
}

func TestAggregateCleanResult(t *testing.T) {
	result := Aggregate("src/app.ts", nil, rules.CategorySecurity, 9)

	if len(result.Issues) != 0 {
		t.Errorf("expected no issues, got %d", len(result.Issues))
	}
	if result.Score == nil || *result.Score != 100 {
		t.Errorf("expected score 100 for a clean security check, got %v", result.Score)
	}
	want := "No security issues found (9 rules checked)"
	if result.Summary != want {
		t.Errorf("summary = %q, want %q", result.Summary, want)
	}
}

func TestAggregateScoreWeights(t *testing.T) {
	results := []RuleResult{
		{Rule: ruleWithSeverity("crit", rules.SeverityCritical), Violations: violationsAt("crit", 1)},
		{Rule: ruleWithSeverity("high", rules.SeverityHigh), Violations: violationsAt("high", 2)},
		{Rule: ruleWithSeverity("med", rules.SeverityMedium), Violations: violationsAt("med", 3, 4)},
	}

	result := Aggregate("src/app.ts", results, rules.CategorySecurity, 10)
	// 100 - 20 - 10 - 5 - 5 = 60
	if result.Score == nil || *result.Score != 60 {
		t.Errorf("expected score 60, got %v", result.Score)
	}
	if result.TotalViolations != 4 {
		t.Errorf("expected 4 total violations, got %d", result.TotalViolations)
	}
}

func TestAggregateScoreClampedToZero(t *testing.T) {
	var violations []Violation
	for i := 1; i <= 6; i++ {
		violations = append(violations, Violation{Line: i, Message: "found", RuleID: "crit"})
	}
	results := []RuleResult{
		{Rule: ruleWithSeverity("crit", rules.SeverityCritical), Violations: violations},
	}

	result := Aggregate("src/app.ts", results, rules.CategorySecurity, 10)
	if result.Score == nil || *result.Score != 0 {
		t.Errorf("expected score clamped to 0, got %v", result.Score)
	}
}

func TestAggregateScoreMonotonic(t *testing.T) {
	base := []RuleResult{
		{Rule: ruleWithSeverity("high", rules.SeverityHigh), Violations: violationsAt("high", 1)},
	}
	more := append(base, RuleResult{
		Rule:       ruleWithSeverity("med", rules.SeverityMedium),
		Violations: violationsAt("med", 2),
	})

	a := Aggregate("f.ts", base, rules.CategorySecurity, 5)
	b := Aggregate("f.ts", more, rules.CategorySecurity, 5)
	if *b.Score > *a.Score {
		t.Errorf("adding a violation raised the score: %d -> %d", *a.Score, *b.Score)
	}
}

func TestAggregateLowSeverityDoesNotReduceScore(t *testing.T) {
	results := []RuleResult{
		{Rule: ruleWithSeverity("low", rules.SeverityLow), Violations: violationsAt("low", 1, 2, 3)},
	}

	result := Aggregate("f.ts", results, rules.CategoryCodeQuality, 5)
	if result.Score == nil || *result.Score != 100 {
		t.Errorf("low-severity violations should not reduce the score, got %v", result.Score)
	}
	if result.TotalViolations != 3 {
		t.Errorf("expected 3 violations, got %d", result.TotalViolations)
	}
}

func TestAggregateUnscoredCategories(t *testing.T) {
	results := []RuleResult{
		{Rule: ruleWithSeverity("high", rules.SeverityHigh), Violations: violationsAt("high", 1)},
	}

	for _, cat := range []rules.Category{rules.CategoryAccessibility, rules.CategoryBestPractices} {
		result := Aggregate("f.ts", results, cat, 5)
		if result.Score != nil {
			t.Errorf("%s results should carry no score, got %d", cat, *result.Score)
		}
		if !strings.Contains(result.Summary, "1 high") {
			t.Errorf("%s summary missing severity tally: %q", cat, result.Summary)
		}
	}
}

func TestAggregateIssueTypeMapping(t *testing.T) {
	results := []RuleResult{
		{Rule: ruleWithSeverity("crit", rules.SeverityCritical), Violations: violationsAt("crit", 1)},
		{Rule: ruleWithSeverity("high", rules.SeverityHigh), Violations: violationsAt("high", 2)},
		{Rule: ruleWithSeverity("med", rules.SeverityMedium), Violations: violationsAt("med", 3)},
		{Rule: ruleWithSeverity("low", rules.SeverityLow), Violations: violationsAt("low", 4)},
	}

	result := Aggregate("f.ts", results, rules.CategorySecurity, 4)
	want := []IssueType{IssueError, IssueWarning, IssueInfo, IssueInfo}
	if len(result.Issues) != len(want) {
		t.Fatalf("expected %d issues, got %d", len(want), len(result.Issues))
	}
	for i, issue := range result.Issues {
		if issue.Type != want[i] {
			t.Errorf("issue %d: type = %q, want %q", i, issue.Type, want[i])
		}
	}
}

func TestAggregateIssueMessageAndFix(t *testing.T) {
	r := ruleWithSeverity("no-eval", rules.SeverityCritical)
	r.Title = "Avoid eval"
	r.Recommendation = "Parse the input instead"
	results := []RuleResult{
		{Rule: r, Violations: []Violation{{Line: 3, Message: `found "eval(x)"`, RuleID: "no-eval"}}},
	}

	result := Aggregate("f.ts", results, rules.CategorySecurity, 1)
	issue := result.Issues[0]
	if issue.Message != `[no-eval] Avoid eval: found "eval(x)"` {
		t.Errorf("unexpected message: %q", issue.Message)
	}
	if issue.Fix != "Parse the input instead" {
		t.Errorf("unexpected fix: %q", issue.Fix)
	}
	if issue.Line != 3 {
		t.Errorf("expected line 3, got %d", issue.Line)
	}
}

func TestAggregateSummaryTriggeredCount(t *testing.T) {
	results := []RuleResult{
		{Rule: ruleWithSeverity("a", rules.SeverityHigh), Violations: violationsAt("a", 1)},
		{Rule: ruleWithSeverity("b", rules.SeverityHigh), Violations: nil},
	}

	result := Aggregate("f.ts", results, rules.CategorySecurity, 2)
	if !strings.Contains(result.Summary, "(1/2 rules triggered)") {
		t.Errorf("summary missing triggered count: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "Score: 90/100") {
		t.Errorf("summary missing score: %q", result.Summary)
	}
}
