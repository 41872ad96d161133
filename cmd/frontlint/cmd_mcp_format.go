package main

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/framework"
	"github.com/frontlint/frontlint/pkg/history"
	"github.com/frontlint/frontlint/pkg/rules"
)

// ============================================================================
// MCP result helpers
// ============================================================================

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + message},
		},
		IsError: true,
	}
}

// ============================================================================
// Check result formatting
// ============================================================================

func formatCheckResultMarkdown(r *engine.CheckResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.File)
	sb.WriteString(r.Summary)
	sb.WriteString("\n")

	if len(r.Issues) > 0 {
		sb.WriteString("\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&sb, "- **L%d** [%s] %s", issue.Line, issue.Type, issue.Message)
			if issue.Fix != "" {
				fmt.Fprintf(&sb, "\n  - Fix: %s", issue.Fix)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatProjectResultMarkdown(r *engine.ProjectResult) string {
	var sb strings.Builder
	sb.WriteString("# Project scan\n\n")
	sb.WriteString(r.Summary)
	sb.WriteString("\n")

	for _, fr := range r.Results {
		fmt.Fprintf(&sb, "\n## %s\n\n", fr.File)
		for _, issue := range fr.Issues {
			fmt.Fprintf(&sb, "- **L%d** [%s] %s", issue.Line, issue.Type, issue.Message)
			if issue.Fix != "" {
				fmt.Fprintf(&sb, "\n  - Fix: %s", issue.Fix)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ============================================================================
// Rule formatting
// ============================================================================

func formatRulesMarkdown(fw string, list []*rules.Rule) string {
	if len(list) == 0 {
		return fmt.Sprintf("No rules for framework %q.", fw)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Rules (%s)\n", fw)

	var current rules.Category
	for _, r := range list {
		if r.Category != current {
			current = r.Category
			fmt.Fprintf(&sb, "\n## %s\n\n", current)
		}
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&sb, "- `%s` (%s, %s): %s\n", r.ID, r.Severity, state, r.Title)
	}
	fmt.Fprintf(&sb, "\n%d rule(s) total.\n", len(list))
	return sb.String()
}

// ============================================================================
// Framework profile formatting
// ============================================================================

func formatProfileMarkdown(p *framework.Profile) string {
	var sb strings.Builder
	sb.WriteString("# Framework profile\n\n")
	fmt.Fprintf(&sb, "- Framework: %s\n", p.Framework)
	fmt.Fprintf(&sb, "- Bundler: %s\n", p.Bundler)
	fmt.Fprintf(&sb, "- TypeScript: %t\n", p.UsesTypeScript)
	if p.Framework == framework.TypeNextJS {
		fmt.Fprintf(&sb, "- App router: %t\n", p.HasAppRouter)
		fmt.Fprintf(&sb, "- Pages router: %t\n", p.HasPagesRouter)
	}
	return sb.String()
}

// ============================================================================
// History formatting
// ============================================================================

func formatReportsMarkdown(reports []*history.Report) string {
	if len(reports) == 0 {
		return "No recorded scans."
	}

	var sb strings.Builder
	sb.WriteString("# Scan history\n\n")
	for _, r := range reports {
		fmt.Fprintf(&sb, "- **%s** `%s`", r.Time.Format("2006-01-02 15:04:05"), r.ID)
		if r.Commit != "" {
			fmt.Fprintf(&sb, " (commit %s)", r.Commit)
		}
		fmt.Fprintf(&sb, "\n  - %d files scanned, %d with issues, %d violation(s)\n", r.TotalFilesScanned, r.FilesWithIssues, r.TotalViolations)
		fmt.Fprintf(&sb, "  - %s\n", r.Summary)
	}
	return sb.String()
}
