package main

import (
	"strings"
	"testing"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/rules"
)

func TestFormatRulesMarkdownFromLoader(t *testing.T) {
	loader := rules.NewLoader("")
	var all []*rules.Rule
	for _, cat := range rules.Categories {
		all = append(all, loader.Load(rules.FrameworkReact, cat).Rules()...)
	}

	out := formatRulesMarkdown(rules.FrameworkReact, all)
	if !strings.Contains(out, "# Rules (react)") {
		t.Errorf("missing heading: %q", out)
	}
	for _, cat := range rules.Categories {
		if !strings.Contains(out, "## "+string(cat)) {
			t.Errorf("missing %s section", cat)
		}
	}
	if !strings.Contains(out, "`img-alt-text`") {
		t.Error("missing img-alt-text entry")
	}
	if !strings.Contains(out, "rule(s) total.") {
		t.Errorf("missing total line: %q", out)
	}
}

func TestFormatRulesMarkdownStates(t *testing.T) {
	on := &rules.Rule{
		ID: "on-rule", Title: "On", Severity: rules.SeverityHigh,
		Category: rules.CategorySecurity, Enabled: true,
		Detection: rules.DetectionSpec{Patterns: []string{"x"}},
	}
	off := &rules.Rule{
		ID: "off-rule", Title: "Off", Severity: rules.SeverityLow,
		Category: rules.CategorySecurity, Enabled: false,
		Detection: rules.DetectionSpec{Patterns: []string{"x"}},
	}

	out := formatRulesMarkdown("react", []*rules.Rule{on, off})
	if !strings.Contains(out, "`on-rule` (high, enabled)") {
		t.Errorf("enabled rule misrendered: %q", out)
	}
	if !strings.Contains(out, "`off-rule` (low, disabled)") {
		t.Errorf("disabled rule misrendered: %q", out)
	}
}

func TestFormatRulesMarkdownEmpty(t *testing.T) {
	out := formatRulesMarkdown("react", nil)
	if !strings.Contains(out, "No rules") {
		t.Errorf("empty list misrendered: %q", out)
	}
}

func TestFormatCheckResultMarkdown(t *testing.T) {
	score := 80
	r := engine.CheckResult{
		File:            "src/app.ts",
		TotalViolations: 1,
		Summary:         "Found 1 security issue(s): 0 critical, 1 high, 0 medium, 0 low. Score: 90/100 (1/9 rules triggered)",
		Score:           &score,
		Issues: []engine.Issue{{
			Type:    engine.IssueWarning,
			Message: "[no-eval] Avoid eval: found \"eval(x)\"",
			Line:    3,
			Fix:     "Parse the input instead",
		}},
	}

	out := formatCheckResultMarkdown(&r)
	if !strings.Contains(out, "# src/app.ts") {
		t.Errorf("missing file heading: %q", out)
	}
	if !strings.Contains(out, "**L3** [warning] [no-eval]") {
		t.Errorf("missing issue line: %q", out)
	}
	if !strings.Contains(out, "Fix: Parse the input instead") {
		t.Errorf("missing fix line: %q", out)
	}
}
