package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"

	"github.com/frontlint/frontlint/pkg/rules"
)

var engineLog = log.New(os.Stderr, "[frontlint:engine] ", log.Ltime)

// matchTimeout bounds a single regex scan so a pathological pattern cannot
// hang an evaluation.
const matchTimeout = 2 * time.Second

// Rule patterns are written in the JavaScript regex dialect and lean on
// negative lookahead (e.g. `<img(?![^>]*alt=)`), which Go's RE2 engine
// cannot express. regexp2 evaluates the same dialect. Compiled patterns are
// cached process-wide; rules are static between cache invalidations.
var (
	patternMu    sync.RWMutex
	patternCache = map[string]*regexp2.Regexp{}
	badPatterns  = map[string]bool{}
)

// compilePattern returns the compiled regex for p, or nil for a malformed
// pattern. Each bad pattern is logged once and then treated as zero matches.
func compilePattern(p string) *regexp2.Regexp {
	patternMu.RLock()
	re, ok := patternCache[p]
	bad := badPatterns[p]
	patternMu.RUnlock()
	if ok {
		return re
	}
	if bad {
		return nil
	}

	compiled, err := regexp2.Compile(p, regexp2.Multiline)
	patternMu.Lock()
	defer patternMu.Unlock()
	if err != nil {
		engineLog.Printf("WARNING: invalid pattern %q: %v (skipped)", p, err)
		badPatterns[p] = true
		return nil
	}
	compiled.MatchTimeout = matchTimeout
	patternCache[p] = compiled
	return compiled
}

// matchesText reports whether pattern p matches anywhere in text.
// Malformed patterns and timeouts count as no match.
func matchesText(p, text string) bool {
	re := compilePattern(p)
	if re == nil {
		return false
	}
	m, err := re.FindStringMatch(text)
	if err != nil {
		engineLog.Printf("WARNING: pattern %q timed out (treated as no match)", p)
		return false
	}
	return m != nil
}

func anyMatches(patterns []string, text string) bool {
	for _, p := range patterns {
		if matchesText(p, text) {
			return true
		}
	}
	return false
}

// Evaluate runs one rule against one text body and returns its violations.
//
// Order is load-bearing:
//  1. config-scoped rules are gated by their file globs,
//  2. excludePatterns veto the whole evaluation,
//  3. every pattern is scanned globally and independently (duplicate
//     matches from overlapping patterns are intentional),
//  4. requirePatterns / requireAbsence gate each match as whole-text checks,
//  5. survivors become violations with 1-based lines counted by newlines
//     before the match offset.
//
// Disabled rules never contribute violations.
func Evaluate(rule *rules.Rule, text, filePath string) []Violation {
	if !rule.Enabled {
		return nil
	}

	if rule.Scope == rules.ScopeConfig && len(rule.Detection.FileGlobs) > 0 {
		if !matchesAnyGlob(rule.Detection.FileGlobs, filePath) {
			return nil
		}
	}

	if anyMatches(rule.Detection.ExcludePatterns, text) {
		return nil
	}

	// Whole-text gates: identical for every match of this rule in this text.
	requireMet := len(rule.Detection.RequirePatterns) == 0 ||
		anyMatches(rule.Detection.RequirePatterns, text)
	absenceHit := len(rule.Detection.RequireAbsence) > 0 &&
		anyMatches(rule.Detection.RequireAbsence, text)

	runes := []rune(text)
	var violations []Violation

	for _, p := range rule.Detection.Patterns {
		re := compilePattern(p)
		if re == nil {
			continue
		}

		m, err := re.FindStringMatch(text)
		for err == nil && m != nil {
			if requireMet && !absenceHit {
				line, col := lineAndColumn(runes, m.Index)
				violations = append(violations, Violation{
					Line:    line,
					Column:  col,
					Message: fmt.Sprintf("found %q", snippet(m.String())),
					RuleID:  rule.ID,
				})
			}
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			engineLog.Printf("WARNING: pattern %q timed out on %s (partial matches kept)", p, filePath)
		}
	}

	return violations
}

// lineAndColumn converts a rune offset into 1-based line and column.
func lineAndColumn(runes []rune, index int) (int, int) {
	if index > len(runes) {
		index = len(runes)
	}
	line, lastNL := 1, -1
	for i := 0; i < index; i++ {
		if runes[i] == '\n' {
			line++
			lastNL = i
		}
	}
	return line, index - lastNL
}

// snippet trims a matched text to a single short line for the message.
func snippet(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}

// matchesAnyGlob tests a file path against doublestar globs. Paths are
// normalised to slashes and matched without their leading separator so
// `**/next.config.js` matches at any depth including the root.
func matchesAnyGlob(globs []string, path string) bool {
	p := strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, g := range globs {
		ok, err := doublestar.Match(g, p)
		if err != nil {
			engineLog.Printf("WARNING: invalid file glob %q: %v (skipped)", g, err)
			continue
		}
		if ok {
			return true
		}
		// A bare filename should still satisfy a basename glob.
		if !strings.Contains(g, "/") {
			if ok, _ := doublestar.Match(g, filepath.Base(p)); ok {
				return true
			}
		}
	}
	return false
}
