// Package rules defines the declarative audit rule model and its loader.
//
// A rule pairs a regex-based detection spec with metadata describing what the
// rule means (title, severity, category) and how to fix it (recommendation).
// Rules are loaded from JSON, one file per framework and category, validated
// against closed vocabularies, and merged with project-local overrides.
package rules

import (
	"fmt"
	"log"
	"os"
)

var rulesLog = log.New(os.Stderr, "[frontlint:rules] ", log.Ltime)

// Severity ranks a rule. The order is critical > high > medium > low and
// determines both the reported issue level and the score penalty.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns a numeric rank for ordering: low=0 .. critical=3.
// Unknown values return -1.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool { return s.Rank() >= 0 }

// Penalty is the score deduction per violation of this severity.
// Low-severity violations do not reduce the score.
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	default:
		return 0
	}
}

// Category identifies which checker a rule belongs to.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryAccessibility Category = "accessibility"
	CategoryBestPractices Category = "best-practices"
	CategoryCodeQuality   Category = "code-quality"
)

// Categories lists all known categories in a stable order.
var Categories = []Category{
	CategorySecurity,
	CategoryAccessibility,
	CategoryBestPractices,
	CategoryCodeQuality,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Scored reports whether check results for this category carry a 0-100 score.
// Accessibility and best-practice checks report severity tallies instead.
func (c Category) Scored() bool {
	return c == CategorySecurity || c == CategoryCodeQuality
}

// Scope narrows where a rule applies.
type Scope string

const (
	ScopeCode      Scope = "code"
	ScopeComponent Scope = "component"
	ScopeFunction  Scope = "function"
	ScopeConfig    Scope = "config"
	ScopeProject   Scope = "project"
)

// Valid reports whether s is a known scope. The empty scope is valid and
// normalised to ScopeCode at load time.
func (s Scope) Valid() bool {
	switch s {
	case "", ScopeCode, ScopeComponent, ScopeFunction, ScopeConfig, ScopeProject:
		return true
	default:
		return false
	}
}

// DetectionSpec holds the regex conditions that decide whether and where a
// rule fires against a body of text.
type DetectionSpec struct {
	// Patterns fire once per match of any entry.
	Patterns []string `json:"patterns"`
	// RequirePatterns, when non-empty, accept a match only if at least one
	// entry matches somewhere in the same text (whole-text presence check).
	RequirePatterns []string `json:"requirePatterns,omitempty"`
	// RequireAbsence suppresses all matches when any entry matches the text.
	RequireAbsence []string `json:"requireAbsence,omitempty"`
	// ExcludePatterns skip evaluation of the rule entirely when any entry
	// matches the text. Checked before Patterns.
	ExcludePatterns []string `json:"excludePatterns,omitempty"`
	// FileGlobs restrict which files a config-scoped rule applies to.
	FileGlobs []string `json:"fileGlobs,omitempty"`
}

// Rule is a single declarative audit rule.
type Rule struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Recommendation string        `json:"recommendation"`
	Severity       Severity      `json:"severity"`
	Category       Category      `json:"category"`
	Scope          Scope         `json:"scope,omitempty"`
	Enabled        bool          `json:"enabled"`
	Detection      DetectionSpec `json:"detection"`
}

// Validate checks a rule against the closed vocabularies. Rules failing
// validation are dropped at load time, never fatal.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %s: unknown severity %q", r.ID, r.Severity)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
	}
	if !r.Scope.Valid() {
		return fmt.Errorf("rule %s: unknown scope %q", r.ID, r.Scope)
	}
	if len(r.Detection.Patterns) == 0 {
		return fmt.Errorf("rule %s: detection has no patterns", r.ID)
	}
	return nil
}

// Set is an ordered collection of rules with lookup by ID.
type Set struct {
	rules []*Rule
	byID  map[string]int
}

// NewSet returns an initialised, empty Set.
func NewSet() *Set {
	return &Set{byID: make(map[string]int)}
}

// Add appends a rule, replacing any existing rule with the same ID in place
// (override-wins-on-conflict).
func (s *Set) Add(r *Rule) {
	if idx, ok := s.byID[r.ID]; ok {
		s.rules[idx] = r
		return
	}
	s.byID[r.ID] = len(s.rules)
	s.rules = append(s.rules, r)
}

// Rules returns all rules in insertion order.
func (s *Set) Rules() []*Rule { return s.rules }

// Enabled returns the enabled rules in insertion order.
func (s *Set) Enabled() []*Rule {
	var out []*Rule
	for _, r := range s.rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// ByID looks up a rule by its identifier.
func (s *Set) ByID(id string) (*Rule, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.rules[idx], true
}

// Len returns the number of rules in the set.
func (s *Set) Len() int { return len(s.rules) }
