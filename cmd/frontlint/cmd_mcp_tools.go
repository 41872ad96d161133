package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/gitinfo"
	"github.com/frontlint/frontlint/pkg/history"
	"github.com/frontlint/frontlint/pkg/ignore"
	"github.com/frontlint/frontlint/pkg/rules"
	"github.com/frontlint/frontlint/pkg/scanner"
)

// ============================================================================
// Input types for check, rule, framework, and history tools
// ============================================================================

type CheckInput struct {
	File         string `json:"file,omitempty" jsonschema:"Path to a single source file to audit, absolute or relative to the workspace root. Omit to scan the whole project."`
	IncludeTests bool   `json:"include_tests,omitempty" jsonschema:"Also scan *.test.* and *.spec.* files (project scans only, default false)"`
}

type ScanProjectInput struct {
	IncludeTests bool `json:"include_tests,omitempty" jsonschema:"Also scan *.test.* and *.spec.* files (default false)"`
	NoHistory    bool `json:"no_history,omitempty" jsonschema:"Skip recording the scan in the history store (default false)"`
}

type RulesListInput struct {
	Category  string `json:"category,omitempty" jsonschema:"Filter by category: security, accessibility, best-practices, code-quality. Leave empty for all."`
	Framework string `json:"framework,omitempty" jsonschema:"Rule set framework: react or nextjs. Defaults to the project's detected framework."`
}

type RulesSetEnabledInput struct {
	RuleID    string `json:"rule_id" jsonschema:"ID of the rule to toggle, e.g. 'img-alt-text'. Use rules_list to discover IDs."`
	Enabled   bool   `json:"enabled" jsonschema:"true to enable the rule, false to disable it"`
	Category  string `json:"category,omitempty" jsonschema:"Category the rule belongs to. Omit to search all categories."`
	Framework string `json:"framework,omitempty" jsonschema:"Rule set framework: react or nextjs. Defaults to the project's detected framework."`
}

type HistoryListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum reports to return, newest first (default 10)"`
}

type HistorySearchInput struct {
	Query string `json:"query" jsonschema:"Full-text query over past scan summaries and issue messages, e.g. 'dangerouslySetInnerHTML' or 'img alt'"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum reports to return (default 10)"`
}

type emptyInput struct{}

// ============================================================================
// Check tools (one per category, plus the combined project scan)
// ============================================================================

func (s *MCPServer) registerCheckTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "check_security",
		Description: `Audit source code for security issues: XSS sinks, secret and
environment-variable exposure, unsafe URL handling, injection patterns.

Pass a file path to audit one file, or omit it to scan the whole project.
Single-file results include a security score out of 100; each issue carries
the line number and a concrete fix recommendation.`,
	}, s.handleCheckSecurity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "check_accessibility",
		Description: `Audit source code for accessibility issues: missing alt text,
unlabeled form controls, click handlers on non-interactive elements, missing
ARIA attributes.

Pass a file path to audit one file, or omit it to scan the whole project.
Accessibility results report issue counts without a score.`,
	}, s.handleCheckAccessibility)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "check_best_practices",
		Description: `Audit source code against framework best practices: hook
dependency mistakes, missing list keys, framework-specific component and
routing conventions. The rule set adapts to the detected framework (React or
Next.js).

Pass a file path to audit one file, or omit it to scan the whole project.`,
	}, s.handleCheckBestPractices)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "check_code_quality",
		Description: `Audit source code for code-quality issues: explicit any,
leftover debug statements, oversized components, dead code patterns.

Pass a file path to audit one file, or omit it to scan the whole project.
Single-file results include a quality score out of 100.`,
	}, s.handleCheckCodeQuality)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "scan_project",
		Description: `Scan the whole project across all four categories (security,
accessibility, best practices, code quality) in one pass.

Walks the source tree rooted at the workspace root, skipping node_modules,
build output, and test files. Reports per-file issues for up to 50 files;
the totals always cover every scanned file. The result is recorded in the
scan history unless no_history is set.`,
	}, s.handleScanProject)
}

func (s *MCPServer) handleCheckSecurity(_ context.Context, _ *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, any, error) {
	return s.runCheck("check_security", rules.CategorySecurity, input)
}

func (s *MCPServer) handleCheckAccessibility(_ context.Context, _ *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, any, error) {
	return s.runCheck("check_accessibility", rules.CategoryAccessibility, input)
}

func (s *MCPServer) handleCheckBestPractices(_ context.Context, _ *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, any, error) {
	return s.runCheck("check_best_practices", rules.CategoryBestPractices, input)
}

func (s *MCPServer) handleCheckCodeQuality(_ context.Context, _ *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, any, error) {
	return s.runCheck("check_code_quality", rules.CategoryCodeQuality, input)
}

// runCheck dispatches one category's audit: a file input checks that file, no
// input scans the project.
func (s *MCPServer) runCheck(tool string, category rules.Category, input CheckInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: %s file=%q", tool, input.File)

	c := s.suite.Checker(category)

	if input.File != "" {
		path := s.resolvePath(input.File)
		result, err := c.CheckFile(s.root, path)
		if err != nil {
			mcpLog.Printf("  error: %v", err)
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil, nil
		}
		mcpLog.Printf("  issues: %d", result.TotalViolations)
		return textResult(formatCheckResultMarkdown(&result)), nil, nil
	}

	opts, err := s.scanOpts(input.IncludeTests)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	result, err := c.ScanProject(s.root, opts)
	if err != nil {
		mcpLog.Printf("  error: %v", err)
		return errorResult(fmt.Sprintf("scan failed: %v", err)), nil, nil
	}
	mcpLog.Printf("  scanned: %d files, %d issues", result.TotalFilesScanned, result.TotalViolations)
	return textResult(formatProjectResultMarkdown(result)), nil, nil
}

func (s *MCPServer) handleScanProject(_ context.Context, _ *mcp.CallToolRequest, input ScanProjectInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: scan_project include_tests=%t", input.IncludeTests)

	opts, err := s.scanOpts(input.IncludeTests)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	result, err := s.suite.ScanProject(s.root, opts)
	if err != nil {
		mcpLog.Printf("  error: %v", err)
		return errorResult(fmt.Sprintf("scan failed: %v", err)), nil, nil
	}
	mcpLog.Printf("  scanned: %d files, %d issues", result.TotalFilesScanned, result.TotalViolations)

	if !input.NoHistory {
		s.recordScan(result)
	}
	return textResult(formatProjectResultMarkdown(result)), nil, nil
}

// recordScan appends a project result to the history store. History failures
// never fail the scan.
func (s *MCPServer) recordScan(result *engine.ProjectResult) {
	if s.history == nil {
		return
	}
	report := &history.Report{
		Root:              s.root,
		Commit:            gitinfo.Head(s.root),
		TotalFilesScanned: result.TotalFilesScanned,
		FilesWithIssues:   result.FilesWithIssues,
		TotalViolations:   result.TotalViolations,
		Summary:           result.Summary,
	}
	for _, fr := range result.Results {
		for _, issue := range fr.Issues {
			report.Messages = append(report.Messages, fmt.Sprintf("%s: %s", fr.File, issue.Message))
		}
	}
	if err := s.history.Record(report); err != nil {
		mcpLog.Printf("WARNING: recording scan history: %v", err)
		return
	}
	mcpLog.Printf("  recorded scan %s", report.ID)
}

// ============================================================================
// Rule tools
// ============================================================================

func (s *MCPServer) registerRuleTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "rules_list",
		Description: `List the audit rules for the project's framework, with their
IDs, categories, severities, and enabled state.

**When to use:** Before toggling a rule with rules_set_enabled, or to explain
which checks a category performs.`,
	}, s.handleRulesList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "rules_set_enabled",
		Description: `Enable or disable one audit rule by ID.

The change takes effect immediately and is persisted to the project's rule
override directory, so it survives server restarts. Shipped rule defaults are
never modified. Unknown rule IDs are an error, not a no-op.`,
	}, s.handleRulesSetEnabled)
}

func (s *MCPServer) handleRulesList(_ context.Context, _ *mcp.CallToolRequest, input RulesListInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: rules_list category=%q framework=%q", input.Category, input.Framework)

	fw := input.Framework
	if fw == "" {
		fw = string(s.resolver.Resolve(s.root).Framework)
	}

	cats := rules.Categories
	if input.Category != "" {
		cat := rules.Category(input.Category)
		if !cat.Valid() {
			return errorResult(fmt.Sprintf("unknown category %q", input.Category)), nil, nil
		}
		cats = []rules.Category{cat}
	}

	var all []*rules.Rule
	for _, cat := range cats {
		all = append(all, s.loader.Load(fw, cat).Rules()...)
	}
	mcpLog.Printf("  rules: %d", len(all))
	return textResult(formatRulesMarkdown(rules.NormalizeFramework(fw), all)), nil, nil
}

func (s *MCPServer) handleRulesSetEnabled(_ context.Context, _ *mcp.CallToolRequest, input RulesSetEnabledInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: rules_set_enabled rule=%q enabled=%t", input.RuleID, input.Enabled)

	if input.RuleID == "" {
		return errorResult("rule_id is required"), nil, nil
	}
	fw := input.Framework
	if fw == "" {
		fw = string(s.resolver.Resolve(s.root).Framework)
	}

	err := setRuleEnabled(s.loader, fw, rules.Category(input.Category), input.RuleID, input.Enabled)
	if err != nil {
		mcpLog.Printf("  error: %v", err)
		if errors.Is(err, rules.ErrRuleNotFound) {
			return errorResult(fmt.Sprintf("unknown rule %q (use rules_list to discover IDs)", input.RuleID)), nil, nil
		}
		return errorResult(err.Error()), nil, nil
	}

	state := "disabled"
	if input.Enabled {
		state = "enabled"
	}
	return textResult(fmt.Sprintf("Rule `%s` is now %s.", input.RuleID, state)), nil, nil
}

// ============================================================================
// Framework tool
// ============================================================================

func (s *MCPServer) registerFrameworkTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "framework_info",
		Description: `Report the resolved framework profile for the workspace:
framework (react, nextjs, or unknown), router layout, bundler, and whether
the project uses TypeScript.

The profile decides which rule sets the check tools apply.`,
	}, s.handleFrameworkInfo)
}

func (s *MCPServer) handleFrameworkInfo(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: framework_info")
	profile := s.resolver.Resolve(s.root)
	return textResult(formatProfileMarkdown(profile)), nil, nil
}

// ============================================================================
// History tools (read-only)
// ============================================================================

func (s *MCPServer) registerHistoryTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "history_list",
		Description: `List past project scans, newest first, with file and issue
totals and the commit each scan ran against.

**When to use:** To compare the current audit against earlier runs, or to
check whether an issue count is trending down.`,
	}, s.handleHistoryList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "history_search",
		Description: `Full-text search over past scan reports: summaries and
individual issue messages.

**When to use:** To find when a specific issue first appeared, e.g. searching
for a rule ID or a snippet from an issue message.`,
	}, s.handleHistorySearch)
}

func (s *MCPServer) handleHistoryList(_ context.Context, _ *mcp.CallToolRequest, input HistoryListInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: history_list limit=%d", input.Limit)

	if s.history == nil {
		return errorResult("history store is unavailable"), nil, nil
	}
	reports, err := s.history.List(input.Limit)
	if err != nil {
		mcpLog.Printf("  error: %v", err)
		return errorResult(fmt.Sprintf("list failed: %v", err)), nil, nil
	}
	mcpLog.Printf("  reports: %d", len(reports))
	return textResult(formatReportsMarkdown(reports)), nil, nil
}

func (s *MCPServer) handleHistorySearch(_ context.Context, _ *mcp.CallToolRequest, input HistorySearchInput) (*mcp.CallToolResult, any, error) {
	mcpLog.Printf("tool: history_search query=%q limit=%d", input.Query, input.Limit)

	if s.history == nil {
		return errorResult("history store is unavailable"), nil, nil
	}
	if input.Query == "" {
		return errorResult("query is required"), nil, nil
	}
	reports, err := s.history.Search(input.Query, input.Limit)
	if err != nil {
		mcpLog.Printf("  error: %v", err)
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil, nil
	}
	mcpLog.Printf("  reports: %d", len(reports))
	return textResult(formatReportsMarkdown(reports)), nil, nil
}

// ============================================================================
// Shared helpers
// ============================================================================

// resolvePath anchors a relative tool path at the workspace root.
func (s *MCPServer) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func (s *MCPServer) scanOpts(includeTests bool) (scanner.Options, error) {
	matcher, err := ignore.New(s.root)
	if err != nil {
		return scanner.Options{}, fmt.Errorf("loading %s: %v", ignore.IgnoreFileName, err)
	}
	return scanner.Options{IncludeTests: includeTests, Ignore: matcher}, nil
}
