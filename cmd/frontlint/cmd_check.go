package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/frontlint/frontlint/pkg/checker"
	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/framework"
	"github.com/frontlint/frontlint/pkg/ignore"
	"github.com/frontlint/frontlint/pkg/rules"
	"github.com/frontlint/frontlint/pkg/scanner"
)

// cmdCheck runs one category's rules (or all categories) against a single
// file or the whole project.
func cmdCheck(cfg *appConfig, args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		printCheckUsage()
		return nil
	}

	catFlag := parseFlag(args, "--category=")
	asJSON := hasFlag(args, "--json")
	includeTests := hasFlag(args, "--include-tests")
	target := positionalArg(args)

	var category rules.Category
	if catFlag != "" && catFlag != "all" {
		category = rules.Category(catFlag)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q (use security, accessibility, best-practices, code-quality, or all)", catFlag)
		}
	}

	// A file target is checked directly; anything else is a project scan
	// rooted there.
	if info, err := os.Stat(target); target != "" && err == nil && !info.IsDir() {
		root := cfg.resolveRoot("")
		suite := newSuite(cfg, root)
		return checkSingleFile(suite, root, target, category, asJSON)
	}

	root := cfg.resolveRoot(target)
	suite := newSuite(cfg, root)
	opts, err := scanOptions(root, includeTests)
	if err != nil {
		return err
	}

	var result *engine.ProjectResult
	if category == "" {
		result, err = suite.ScanProject(root, opts)
	} else {
		result, err = suite.Checker(category).ScanProject(root, opts)
	}
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}
	printProjectResult(result)
	return nil
}

func checkSingleFile(suite *checker.Suite, root, path string, category rules.Category, asJSON bool) error {
	var result engine.CheckResult
	if category == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		result = suite.CheckTextAll(root, path, string(data))
	} else {
		var err error
		result, err = suite.Checker(category).CheckFile(root, path)
		if err != nil {
			return err
		}
	}

	if asJSON {
		return printJSON(result)
	}
	printCheckResult(&result)
	return nil
}

// newSuite builds the loader, resolver, and checker suite for one
// invocation. The resolver is constructed fresh per top-level command so
// profile caching is scoped to the invocation.
func newSuite(cfg *appConfig, root string) *checker.Suite {
	loader := rules.NewLoader(cfg.overridePath(root))
	return checker.NewSuite(loader, framework.NewResolver())
}

func scanOptions(root string, includeTests bool) (scanner.Options, error) {
	matcher, err := ignore.New(root)
	if err != nil {
		return scanner.Options{}, fmt.Errorf("loading %s: %w", ignore.IgnoreFileName, err)
	}
	return scanner.Options{IncludeTests: includeTests, Ignore: matcher}, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printCheckResult(r *engine.CheckResult) {
	if len(r.Issues) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Line", "Level", "Issue", "Fix")
		for _, issue := range r.Issues {
			table.Append([]string{
				strconv.Itoa(issue.Line),
				string(issue.Type),
				truncate(issue.Message, 70),
				truncate(issue.Fix, 50),
			})
		}
		table.Render()
	}
	fmt.Printf("%s: %s\n", r.File, r.Summary)
	if r.Score != nil {
		fmt.Printf("Score: %d/100\n", *r.Score)
	}
}

func printProjectResult(r *engine.ProjectResult) {
	if len(r.Results) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("File", "Issues", "Summary")
		for _, fr := range r.Results {
			table.Append([]string{
				fr.File,
				strconv.Itoa(fr.TotalViolations),
				truncate(fr.Summary, 70),
			})
		}
		table.Render()
	}
	fmt.Println(r.Summary)
}

func printCheckUsage() {
	fmt.Print(`frontlint check - Run audit rules against a file or project

Usage:
  frontlint check [path] [flags]

A file path checks that single file; a directory (or no path) scans the
whole tree. Test files are skipped unless --include-tests is given.

Flags:
  --category=<c>    security, accessibility, best-practices, code-quality,
                    or all (default all)
  --include-tests   Also scan *.test.* and *.spec.* files
  --json            Emit the raw result as JSON
  --help, -h        Show this help
`)
}
