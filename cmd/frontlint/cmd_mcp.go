// MCP server implementation for frontlint: the audit operations exposed as
// tools to an external agent over stdio JSON-RPC.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/frontlint/frontlint/internal/version"
	"github.com/frontlint/frontlint/pkg/checker"
	"github.com/frontlint/frontlint/pkg/framework"
	"github.com/frontlint/frontlint/pkg/history"
	"github.com/frontlint/frontlint/pkg/rules"
)

// mcpLog logs to stderr (stdout is reserved for MCP JSON-RPC protocol).
var mcpLog = log.New(os.Stderr, "[frontlint-mcp] ", log.Ltime)

// MCPServer holds the audit components shared by all tool handlers.
type MCPServer struct {
	root     string
	loader   *rules.Loader
	resolver *framework.Resolver
	suite    *checker.Suite
	history  *history.Store // nil when the store failed to open
	server   *mcp.Server
}

// cmdMCP starts the MCP server over stdio.
func cmdMCP(cfg *appConfig, args []string) error {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printMCPUsage()
			return nil
		}
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--root=") && arg != "--no-watch" {
			return fmt.Errorf("unknown flag: %s\n\nRun 'frontlint mcp --help' for usage", arg)
		}
	}

	startTime := time.Now()
	root := cfg.resolveRoot(parseFlag(args, "--root="))

	mcpLog.Printf("frontlint MCP server starting")
	mcpLog.Printf("version: %s", version.String())
	mcpLog.Printf("workspace root: %s", root)

	loader := rules.NewLoader(cfg.overridePath(root))
	resolver := framework.NewResolver()

	s := &MCPServer{
		root:     root,
		loader:   loader,
		resolver: resolver,
		suite:    checker.NewSuite(loader, resolver),
	}

	profile := resolver.Resolve(root)
	mcpLog.Printf("framework: %s (app router: %t, pages router: %t, typescript: %t)",
		profile.Framework, profile.HasAppRouter, profile.HasPagesRouter, profile.UsesTypeScript)

	if store, err := history.Open(cfg.historyPath(root)); err != nil {
		mcpLog.Printf("WARNING: failed to open history store: %v (history tools disabled)", err)
	} else {
		s.history = store
		defer store.Close()
	}

	// Hot reload of the override directory, so agents see edited overrides
	// without a restart.
	if !hasFlag(args, "--no-watch") {
		watcher, err := rules.NewWatcher(loader, 0)
		if err != nil {
			mcpLog.Printf("WARNING: override watcher unavailable: %v", err)
		} else if watcher != nil {
			defer watcher.Stop()
			mcpLog.Printf("watching rule overrides in %s", cfg.overridePath(root))
		}
	}

	mcpLog.Printf("MCP server ready in %v, listening on stdio", time.Since(startTime))
	return s.Run()
}

// Run registers all tools and serves over stdio.
func (s *MCPServer) Run() error {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "frontlint",
			Version: version.Short(),
		},
		nil, // default capabilities
	)
	s.server = srv

	s.registerCheckTools()
	s.registerRuleTools()
	s.registerFrameworkTools()
	s.registerHistoryTools()

	return srv.Run(context.Background(), &mcp.StdioTransport{})
}

func printMCPUsage() {
	fmt.Print(`frontlint mcp - Start MCP server for agent integration

Usage:
  frontlint mcp [flags]

Flags:
  --root=<path>  Workspace root (default: FRONTLINT_WORKSPACE_ROOT or cwd)
  --no-watch     Disable hot reload of the rule override directory
  --help, -h     Show this help

The MCP server communicates over stdio using JSON-RPC. Tool calls taking an
optional file argument audit that file; without one they scan the project.
`)
}
