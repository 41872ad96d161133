package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/frontlint/frontlint/pkg/history"
)

// cmdHistory lists or searches recorded scan reports.
func cmdHistory(cfg *appConfig, args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		printHistoryUsage()
		return nil
	}

	root := cfg.resolveRoot(parseFlag(args, "--root="))
	store, err := history.Open(cfg.historyPath(root))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	limit := 20
	if v := parseFlag(args, "--limit="); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	var reports []*history.Report
	if len(args) > 0 && args[0] == "search" {
		query := positionalArg(args[1:])
		if query == "" {
			return fmt.Errorf("search query required")
		}
		reports, err = store.Search(query, limit)
	} else {
		reports, err = store.List(limit)
	}
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println("no recorded scans")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Time", "Commit", "Files", "Issues")
	for _, r := range reports {
		table.Append([]string{
			r.ID,
			r.Time.Format("2006-01-02 15:04"),
			r.Commit,
			strconv.Itoa(r.TotalFilesScanned),
			strconv.Itoa(r.TotalViolations),
		})
	}
	table.Render()
	return nil
}

func printHistoryUsage() {
	fmt.Print(`frontlint history - Inspect recorded scan reports

Usage:
  frontlint history [list] [--limit=<n>] [--root=<path>]
  frontlint history search <query> [--limit=<n>] [--root=<path>]

Search runs a full-text query over report summaries and issue messages.
`)
}
