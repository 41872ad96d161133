// Package scanner walks a front-end source tree and evaluates every source
// file, folding per-file results into one size-bounded project report.
//
// The walk is sequential: one file at a time, no fan-out. A scan runs to
// completion; per-file read or evaluation errors are logged and skipped,
// never fatal.
package scanner

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/ignore"
)

var scanLog = log.New(os.Stderr, "[frontlint:scanner] ", log.Ltime)

// SkipDirs is the denylist of directory names never descended into. It is
// the only safeguard against scanning generated or vendored code.
var SkipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"build":        true,
	"dist":         true,
	".next":        true,
	"coverage":     true,
	".cache":       true,
	".turbo":       true,
	".nuxt":        true,
	".output":      true,
	"out":          true,
	".history":     true,
	".vscode":      true,
}

// sourceExts are the file extensions included in a scan.
var sourceExts = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// EvaluateFunc checks one file's text and returns its result. path is
// relative to the scan root.
type EvaluateFunc func(path, text string) (engine.CheckResult, error)

// Options tune a project scan.
type Options struct {
	// IncludeTests also scans *.test.* and *.spec.* files.
	IncludeTests bool
	// Ignore adds project-local exclusions on top of SkipDirs. May be nil.
	Ignore *ignore.Matcher
	// MaxResults caps the per-file results in the report
	// (default engine.MaxProjectResults). Counters are never capped.
	MaxResults int
}

// IsTestFile reports whether name looks like a test or spec file.
func IsTestFile(name string) bool {
	return strings.Contains(name, ".test.") || strings.Contains(name, ".spec.")
}

// IsSourceFile reports whether name has a scanned extension.
func IsSourceFile(name string) bool {
	return sourceExts[filepath.Ext(name)]
}

// ScanProject walks root and evaluates every included file. Only files with
// at least one issue appear in Results, truncated to the first MaxResults in
// traversal order; TotalFilesScanned, FilesWithIssues and TotalViolations
// always reflect the true totals.
func ScanProject(root string, evaluate EvaluateFunc, opts Options) (*engine.ProjectResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = engine.MaxProjectResults
	}

	result := &engine.ProjectResult{Results: []engine.CheckResult{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			scanLog.Printf("WARNING: %s: %v (skipped)", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			if SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if opts.Ignore != nil && opts.Ignore.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsSourceFile(d.Name()) {
			return nil
		}
		if !opts.IncludeTests && IsTestFile(d.Name()) {
			return nil
		}
		if opts.Ignore != nil && opts.Ignore.ShouldIgnore(rel, false) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			scanLog.Printf("WARNING: reading %s: %v (skipped)", rel, err)
			return nil
		}

		fileResult, err := evaluate(rel, string(data))
		if err != nil {
			scanLog.Printf("WARNING: evaluating %s: %v (skipped)", rel, err)
			return nil
		}

		result.TotalFilesScanned++
		result.TotalViolations += fileResult.TotalViolations
		if len(fileResult.Issues) > 0 {
			result.FilesWithIssues++
			if len(result.Results) < maxResults {
				result.Results = append(result.Results, fileResult)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	result.Summary = summarizeScan(result, maxResults)
	return result, nil
}

func summarizeScan(r *engine.ProjectResult, maxResults int) string {
	s := fmt.Sprintf("Scanned %d file(s): %d with issues, %d total violation(s)",
		r.TotalFilesScanned, r.FilesWithIssues, r.TotalViolations)
	if r.FilesWithIssues > len(r.Results) {
		s += fmt.Sprintf(" (showing first %d files)", maxResults)
	}
	return s
}
