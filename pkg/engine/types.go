// Package engine evaluates declarative rules against source text and folds
// the raw matches into scored, summarised check results.
//
// Detection is deliberately textual: rules match raw source with regular
// expressions and never build a syntax tree. The gating semantics
// (requirePatterns / requireAbsence are whole-text presence checks) are
// defined against raw-text matching and would not survive an AST rewrite.
package engine

import "github.com/frontlint/frontlint/pkg/rules"

// Violation is one concrete match of a rule against a specific text.
type Violation struct {
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
	RuleID  string `json:"ruleId"`
}

// IssueType is the reported level of an issue, derived from rule severity.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
	IssueInfo    IssueType = "info"
)

// IssueTypeFor maps severity to the reported issue level.
func IssueTypeFor(s rules.Severity) IssueType {
	switch s {
	case rules.SeverityCritical:
		return IssueError
	case rules.SeverityHigh:
		return IssueWarning
	default:
		return IssueInfo
	}
}

// Issue is a violation dressed for reporting.
type Issue struct {
	Type     IssueType      `json:"type"`
	Category rules.Category `json:"category"`
	Message  string         `json:"message"`
	Line     int            `json:"line,omitempty"`
	Fix      string         `json:"fix"`
}

// CheckResult is the outcome of checking one file (or one text body).
type CheckResult struct {
	File            string  `json:"file"`
	Issues          []Issue `json:"issues"`
	TotalViolations int     `json:"totalViolations"`
	Summary         string  `json:"summary"`
	// Score is 0-100 for security and code-quality checks; nil for
	// categories that report severity tallies instead.
	Score *int `json:"score,omitempty"`
}

// MaxProjectResults caps the per-file results carried by a project report.
// Counters always reflect the true, uncapped totals.
const MaxProjectResults = 50

// ProjectResult is the size-bounded roll-up of a whole-project scan.
type ProjectResult struct {
	TotalFilesScanned int           `json:"totalFilesScanned"`
	FilesWithIssues   int           `json:"filesWithIssues"`
	TotalViolations   int           `json:"totalViolations"`
	Results           []CheckResult `json:"results"`
	Summary           string        `json:"summary"`
}
