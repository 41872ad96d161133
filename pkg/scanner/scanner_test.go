package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/ignore"
)

// flagAll reports one issue for every file containing the word "bad".
func flagAll(path, text string) (engine.CheckResult, error) {
	r := engine.CheckResult{File: path}
	if strings.Contains(text, "bad") {
		r.Issues = []engine.Issue{{Type: engine.IssueWarning, Message: "found bad", Line: 1}}
		r.TotalViolations = 1
	}
	return r, nil
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestScanProjectBasics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "bad")
	writeFile(t, root, "src/ok.tsx", "fine")
	writeFile(t, root, "README.md", "bad but not source")
	writeFile(t, root, "styles.css", "bad but not source")

	result, err := ScanProject(root, flagAll, Options{})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if result.TotalFilesScanned != 2 {
		t.Errorf("TotalFilesScanned = %d, want 2", result.TotalFilesScanned)
	}
	if result.FilesWithIssues != 1 {
		t.Errorf("FilesWithIssues = %d, want 1", result.FilesWithIssues)
	}
	if len(result.Results) != 1 || result.Results[0].File != "src/app.ts" {
		t.Errorf("unexpected results: %+v", result.Results)
	}
}

func TestScanProjectSkipsDenylistedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "bad")
	for name := range SkipDirs {
		writeFile(t, root, name+"/inner.ts", "bad")
	}

	result, err := ScanProject(root, flagAll, Options{})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1 (denylisted dirs scanned)", result.TotalFilesScanned)
	}
}

func TestScanProjectDenylistAppliesAtDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "packages/ui/node_modules/dep/index.js", "bad")
	writeFile(t, root, "packages/ui/src/Button.tsx", "bad")

	result, err := ScanProject(root, flagAll, Options{})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1", result.TotalFilesScanned)
	}
}

func TestScanProjectExcludesTestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "bad")
	writeFile(t, root, "src/app.test.ts", "bad")
	writeFile(t, root, "src/app.spec.tsx", "bad")

	result, err := ScanProject(root, flagAll, Options{})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1", result.TotalFilesScanned)
	}

	withTests, err := ScanProject(root, flagAll, Options{IncludeTests: true})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if withTests.TotalFilesScanned != 3 {
		t.Errorf("with IncludeTests TotalFilesScanned = %d, want 3", withTests.TotalFilesScanned)
	}
}

func TestScanProjectHonoursIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", "bad")
	writeFile(t, root, "src/Button.stories.tsx", "bad")
	writeFile(t, root, ignore.IgnoreFileName, "*.stories.tsx\n")

	matcher, err := ignore.New(root)
	if err != nil {
		t.Fatalf("ignore.New: %v", err)
	}
	result, err := ScanProject(root, flagAll, Options{Ignore: matcher})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1", result.TotalFilesScanned)
	}
}

func TestScanProjectResultCapKeepsCounters(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 8; i++ {
		writeFile(t, root, fmt.Sprintf("src/f%02d.ts", i), "bad")
	}

	result, err := ScanProject(root, flagAll, Options{MaxResults: 3})
	if err != nil {
		t.Fatalf("ScanProject: %v", err)
	}
	if len(result.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(result.Results))
	}
	if result.TotalFilesScanned != 8 || result.FilesWithIssues != 8 || result.TotalViolations != 8 {
		t.Errorf("counters capped: scanned=%d withIssues=%d violations=%d",
			result.TotalFilesScanned, result.FilesWithIssues, result.TotalViolations)
	}
	if !strings.Contains(result.Summary, "(showing first 3 files)") {
		t.Errorf("summary missing truncation note: %q", result.Summary)
	}
}

func TestScanProjectEvaluateErrorSkipsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/broken.ts", "bad")
	writeFile(t, root, "src/fine.ts", "bad")

	evaluate := func(path, text string) (engine.CheckResult, error) {
		if strings.Contains(path, "broken") {
			return engine.CheckResult{}, fmt.Errorf("boom")
		}
		return flagAll(path, text)
	}

	result, err := ScanProject(root, evaluate, Options{})
	if err != nil {
		t.Fatalf("per-file errors must not fail the scan: %v", err)
	}
	if result.TotalFilesScanned != 1 {
		t.Errorf("TotalFilesScanned = %d, want 1 (failed file skipped)", result.TotalFilesScanned)
	}
	if result.FilesWithIssues != 1 {
		t.Errorf("FilesWithIssues = %d, want 1", result.FilesWithIssues)
	}
}

func TestIsTestFile(t *testing.T) {
	cases := map[string]bool{
		"app.test.ts":    true,
		"app.spec.tsx":   true,
		"app.test.js":    true,
		"app.ts":         false,
		"testutils.ts":   false,
		"spectrum.tsx":   false,
		"my.test.old.ts": true,
	}
	for name, want := range cases {
		if got := IsTestFile(name); got != want {
			t.Errorf("IsTestFile(%q) = %t, want %t", name, got, want)
		}
	}
}

func TestIsSourceFile(t *testing.T) {
	for _, name := range []string{"a.ts", "a.tsx", "a.js", "a.jsx"} {
		if !IsSourceFile(name) {
			t.Errorf("IsSourceFile(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.css", "a.json", "a.md", "a.go", "a"} {
		if IsSourceFile(name) {
			t.Errorf("IsSourceFile(%q) = true, want false", name)
		}
	}
}
