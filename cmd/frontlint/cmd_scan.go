package main

import (
	"fmt"

	"github.com/frontlint/frontlint/pkg/engine"
	"github.com/frontlint/frontlint/pkg/gitinfo"
	"github.com/frontlint/frontlint/pkg/history"
)

// cmdScan runs every category across the project and records the report in
// the scan history.
func cmdScan(cfg *appConfig, args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		printScanUsage()
		return nil
	}

	root := cfg.resolveRoot(positionalArg(args))
	suite := newSuite(cfg, root)
	opts, err := scanOptions(root, hasFlag(args, "--include-tests"))
	if err != nil {
		return err
	}

	result, err := suite.ScanProject(root, opts)
	if err != nil {
		return err
	}

	if hasFlag(args, "--json") {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printProjectResult(result)
	}

	if hasFlag(args, "--no-history") {
		return nil
	}
	if err := recordScan(cfg, root, result); err != nil {
		// History is a convenience; the scan itself succeeded.
		cliLog.Printf("WARNING: recording scan history: %v", err)
	}
	return nil
}

// recordScan persists a project result as a history report.
func recordScan(cfg *appConfig, root string, result *engine.ProjectResult) error {
	store, err := history.Open(cfg.historyPath(root))
	if err != nil {
		return err
	}
	defer store.Close()

	report := &history.Report{
		Root:              root,
		Commit:            gitinfo.Head(root),
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
	if err := store.Record(report); err != nil {
		return err
	}
	cliLog.Printf("recorded scan %s", report.ID)
	return nil
}

func printScanUsage() {
	fmt.Print(`frontlint scan - Audit the whole project and record a report

Usage:
  frontlint scan [path] [flags]

Runs all four categories across the tree rooted at path (default: the
workspace root) and appends the result to the scan history.

Flags:
  --include-tests   Also scan *.test.* and *.spec.* files
  --json            Emit the raw result as JSON
  --no-history      Skip recording the report
  --help, -h        Show this help
`)
}
