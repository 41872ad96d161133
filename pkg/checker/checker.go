// Package checker binds rule sets to the shared evaluation engine. One
// Checker covers one category; a Suite covers all four. The security,
// accessibility, best-practice and code-quality checks differ only in which
// rule set they load and whether the result carries a score.
package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/framework"
	"github.com/frontlint/frontlint/pkg/rules"
	"github.com/frontlint/frontlint/pkg/scanner"
)

// Checker evaluates one category's rules against files of a project.
type Checker struct {
	loader   *rules.Loader
	resolver *framework.Resolver
	category rules.Category
}

// New creates a checker for one category. The resolver decides per file
// which framework's rule set applies.
func New(loader *rules.Loader, resolver *framework.Resolver, category rules.Category) *Checker {
	return &Checker{loader: loader, resolver: resolver, category: category}
}

// Category returns the checker's category.
func (c *Checker) Category() rules.Category { return c.category }

// CheckText evaluates the category's enabled rules against one text body.
// path is used for per-file framework resolution and config-scope globs.
func (c *Checker) CheckText(root, path, text string) engine.CheckResult {
	fw := c.resolver.ResolveForFile(path, root)
	set := c.loader.Load(string(fw), c.category)
	enabled := set.Enabled()

	results := make([]engine.RuleResult, 0, len(enabled))
	for _, r := range enabled {
		results = append(results, engine.RuleResult{
			Rule:       r,
			Violations: engine.Evaluate(r, text, path),
		})
	}
	return engine.Aggregate(displayPath(root, path), results, c.category, len(enabled))
}

// CheckFile reads path and evaluates it.
func (c *Checker) CheckFile(root, path string) (engine.CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.CheckResult{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return c.CheckText(root, path, string(data)), nil
}

// ScanProject runs this category's check across the whole tree.
func (c *Checker) ScanProject(root string, opts scanner.Options) (*engine.ProjectResult, error) {
	return scanner.ScanProject(root, func(path, text string) (engine.CheckResult, error) {
		return c.CheckText(root, path, text), nil
	}, opts)
}

// Suite bundles one checker per category.
type Suite struct {
	checkers map[rules.Category]*Checker
}

// NewSuite creates checkers for every category sharing one loader and
// resolver.
func NewSuite(loader *rules.Loader, resolver *framework.Resolver) *Suite {
	s := &Suite{checkers: make(map[rules.Category]*Checker, len(rules.Categories))}
	for _, cat := range rules.Categories {
		s.checkers[cat] = New(loader, resolver, cat)
	}
	return s
}

// Checker returns the suite's checker for a category.
func (s *Suite) Checker(cat rules.Category) *Checker { return s.checkers[cat] }

// CheckTextAll evaluates every category against one text body and merges the
// issues into a single result. Merged results carry tallies, not a score.
func (s *Suite) CheckTextAll(root, path, text string) engine.CheckResult {
	merged := engine.CheckResult{File: displayPath(root, path)}
	var parts []string

	for _, cat := range rules.Categories {
		r := s.checkers[cat].CheckText(root, path, text)
		merged.Issues = append(merged.Issues, r.Issues...)
		merged.TotalViolations += r.TotalViolations
		if r.TotalViolations > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", r.TotalViolations, cat))
		}
	}

	if merged.TotalViolations == 0 {
		merged.Summary = "No issues found across all categories"
	} else {
		merged.Summary = fmt.Sprintf("Found %d issue(s): %s",
			merged.TotalViolations, strings.Join(parts, ", "))
	}
	return merged
}

// ScanProject walks the tree once, evaluating all categories per file.
func (s *Suite) ScanProject(root string, opts scanner.Options) (*engine.ProjectResult, error) {
	return scanner.ScanProject(root, func(path, text string) (engine.CheckResult, error) {
		return s.CheckTextAll(root, path, text), nil
	}, opts)
}

// displayPath prefers the path relative to the project root.
func displayPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
