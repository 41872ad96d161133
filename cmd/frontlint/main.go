// Package main provides the CLI for frontlint.
package main

import (
	"fmt"
	"os"

	"github.com/frontlint/frontlint/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	cfg := loadAppConfig()

	if err := runCommand(cfg, cmd, args); err != nil {
		fatal("%v", err)
	}
}

func runCommand(cfg *appConfig, cmd string, args []string) error {
	switch cmd {
	case "check":
		return cmdCheck(cfg, args)
	case "scan":
		return cmdScan(cfg, args)
	case "rules":
		return cmdRules(cfg, args)
	case "info":
		return cmdInfo(cfg, args)
	case "history":
		return cmdHistory(cfg, args)
	case "mcp":
		return cmdMCP(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "version", "-v", "--version":
		return cmdVersion(args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func cmdVersion(args []string) error {
	for _, arg := range args {
		if arg == "--json" {
			fmt.Println(version.JSON())
			return nil
		}
	}
	fmt.Println(version.String())
	return nil
}

func printUsage() {
	fmt.Printf(`frontlint %s - Static audit tools for front-end source trees

Usage:
  frontlint <command> [arguments]

Commands:
  check      Run one category's rules against a file or project
  scan       Run all categories across the project and record a report
  rules      List rules or flip their enabled state (list, enable, disable)
  info       Show the resolved framework profile
  history    List or search recorded scan reports (list, search)
  mcp        Start the MCP server over stdio
  version    Show version information
  help       Show this help

Environment Variables:
  FRONTLINT_WORKSPACE_ROOT  Project root used when no path argument is given
  FRONTLINT_OVERRIDE_DIR    Rule override directory (default .frontlint/rules)
  FRONTLINT_HISTORY_DIR     Scan history directory (default .frontlint/history)

Run 'frontlint <command> --help' for command-specific flags.
`, version.Short())
}
