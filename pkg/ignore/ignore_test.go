package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func matcherFrom(patterns ...string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		m.rules = append(m.rules, parsePattern(p))
	}
	return m
}

func TestNewMissingFile(t *testing.T) {
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("missing ignore file should not error: %v", err)
	}
	if m.ShouldIgnore("src/app.ts", false) {
		t.Error("empty matcher should exclude nothing")
	}
}

func TestNewParsesFile(t *testing.T) {
	root := t.TempDir()
	content := "# stories are generated demos\n*.stories.tsx\n\nsandbox/\n!sandbox/keep.ts\n"
	if err := os.WriteFile(filepath.Join(root, IgnoreFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	m, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(m.rules) != 3 {
		t.Errorf("expected 3 rules (comments and blanks skipped), got %d", len(m.rules))
	}
	if !m.ShouldIgnore("src/Button.stories.tsx", false) {
		t.Error("expected *.stories.tsx to match at depth")
	}
}

func TestUnanchoredSuffixPattern(t *testing.T) {
	m := matcherFrom("*.stories.tsx")
	if !m.ShouldIgnore("Button.stories.tsx", false) {
		t.Error("expected match at root")
	}
	if !m.ShouldIgnore("src/ui/Button.stories.tsx", false) {
		t.Error("expected match at depth")
	}
	if m.ShouldIgnore("src/Button.tsx", false) {
		t.Error("unexpected match for non-story file")
	}
}

func TestDirOnlyPattern(t *testing.T) {
	m := matcherFrom("sandbox/")
	if !m.ShouldIgnore("sandbox", true) {
		t.Error("expected directory match")
	}
	if m.ShouldIgnore("sandbox", false) {
		t.Error("dir-only pattern should not match a file of the same name")
	}
	// Files under an ignored directory are ignored transitively.
	if !m.ShouldIgnore("sandbox/demo.ts", false) {
		t.Error("expected file under ignored directory to be ignored")
	}
}

func TestAnchoredPattern(t *testing.T) {
	m := matcherFrom("/generated")
	if !m.ShouldIgnore("generated", false) {
		t.Error("expected anchored match at root")
	}
	if m.ShouldIgnore("src/generated", false) {
		t.Error("anchored pattern should not match nested path")
	}
}

func TestSlashAnchorsPattern(t *testing.T) {
	m := matcherFrom("src/legacy/*.js")
	if !m.ShouldIgnore("src/legacy/old.js", false) {
		t.Error("expected path pattern to match from root")
	}
	if m.ShouldIgnore("apps/src/legacy/old.js", false) {
		t.Error("pattern with a slash should be anchored")
	}
}

func TestNegationReincludes(t *testing.T) {
	m := matcherFrom("*.stories.tsx", "!Button.stories.tsx")
	if m.ShouldIgnore("src/Button.stories.tsx", false) {
		t.Error("negation should re-include the file")
	}
	if !m.ShouldIgnore("src/Card.stories.tsx", false) {
		t.Error("other stories remain ignored")
	}
}

func TestLastMatchWins(t *testing.T) {
	m := matcherFrom("!keep.ts", "keep.ts")
	if !m.ShouldIgnore("keep.ts", false) {
		t.Error("later pattern should win over earlier negation")
	}
}

func TestDoubleStarDirPattern(t *testing.T) {
	m := matcherFrom("**/legacy/")
	if !m.ShouldIgnore("legacy", true) {
		t.Error("expected top-level match")
	}
	if !m.ShouldIgnore("src/deep/legacy", true) {
		t.Error("expected nested match")
	}
	if !m.ShouldIgnore("src/legacy/old.ts", false) {
		t.Error("expected file under nested ignored directory to be ignored")
	}
}
