// Package ignore provides gitignore-compatible matching for project-local
// scan exclusions.
//
// Patterns come from a project's .frontlintignore file. They can only add
// exclusions on top of the scanner's built-in denylist of generated and
// vendored directories. The denylist is always applied and is not negatable
// from here.
//
// Pattern syntax mirrors .gitignore:
//
//	# comment
//	*.stories.tsx    match files by suffix at any depth
//	sandbox/         match directories by name (trailing slash)
//	**/legacy/       match at any depth
//	!keep.ts         negate a previous pattern
//	/generated       anchored to the project root (leading slash)
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName is the project-local exclusion file the matcher reads.
const IgnoreFileName = ".frontlintignore"

// Matcher tests whether a path should be excluded from scanning.
type Matcher struct {
	rules []rule
}

type rule struct {
	pattern  string
	negation bool
	dirOnly  bool
	anchored bool
}

// New creates a Matcher from <projectRoot>/.frontlintignore. A missing file
// yields an empty matcher that excludes nothing.
func New(projectRoot string) (*Matcher, error) {
	m := &Matcher{}
	f, err := os.Open(filepath.Join(projectRoot, IgnoreFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.rules = append(m.rules, parsePattern(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewEmpty creates a Matcher with no rules; nothing is excluded.
func NewEmpty() *Matcher { return &Matcher{} }

// ShouldIgnore reports whether path (relative to the project root, forward
// slashes) is excluded. isDir must be true when path is a directory. Rules
// are evaluated in order and the last matching rule wins, so a negation can
// re-include a file from an earlier directory pattern.
func (m *Matcher) ShouldIgnore(path string, isDir bool) bool {
	path = strings.TrimSuffix(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return false
	}

	ignored, matched := false, false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.match(path) {
			ignored = !r.negation
			matched = true
		}
	}
	if ignored {
		return true
	}
	if matched {
		// Explicitly re-included; do not consult parent directories.
		return false
	}

	// A file under an ignored directory is ignored even when the caller
	// never asked about the directory itself.
	if !isDir {
		parts := strings.Split(path, "/")
		for i := 1; i < len(parts); i++ {
			if m.ShouldIgnore(strings.Join(parts[:i], "/"), true) {
				return true
			}
		}
	}
	return false
}

func parsePattern(pattern string) rule {
	r := rule{}
	if strings.HasPrefix(pattern, "!") {
		r.negation = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		r.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		r.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	}
	// A slash anywhere anchors the pattern to the root, per gitignore rules.
	if strings.Contains(pattern, "/") {
		r.anchored = true
	}
	r.pattern = pattern
	return r
}

func (r *rule) match(path string) bool {
	if r.anchored {
		ok, err := doublestar.Match(r.pattern, path)
		return err == nil && ok
	}
	// Unanchored: match the basename, or the pattern at any depth.
	if ok, err := doublestar.Match(r.pattern, basename(path)); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match("**/"+r.pattern, path)
	return err == nil && ok
}

func basename(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
