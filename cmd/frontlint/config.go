package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

var cliLog = log.New(os.Stderr, "[frontlint] ", log.Ltime)

// appConfig is the process configuration: defaults overlaid with
// FRONTLINT_* environment variables.
type appConfig struct {
	WorkspaceRoot string
	OverrideDir   string
	HistoryDir    string
}

func loadAppConfig() *appConfig {
	k := koanf.New(".")

	_ = k.Load(confmap.Provider(map[string]interface{}{
		"workspace.root": "",
		"override.dir":   filepath.Join(".frontlint", "rules"),
		"history.dir":    filepath.Join(".frontlint", "history"),
	}, "."), nil)

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "FRONTLINT_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "FRONTLINT_"))
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil)
	if err != nil {
		cliLog.Printf("WARNING: reading environment configuration: %v", err)
	}

	return &appConfig{
		WorkspaceRoot: k.String("workspace.root"),
		OverrideDir:   k.String("override.dir"),
		HistoryDir:    k.String("history.dir"),
	}
}

// resolveRoot picks the project root: explicit argument, then
// FRONTLINT_WORKSPACE_ROOT, then the working directory.
func (c *appConfig) resolveRoot(arg string) string {
	root := arg
	if root == "" {
		root = c.WorkspaceRoot
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	return abs
}

// overridePath resolves the rule override directory against root.
func (c *appConfig) overridePath(root string) string {
	if filepath.IsAbs(c.OverrideDir) {
		return c.OverrideDir
	}
	return filepath.Join(root, c.OverrideDir)
}

// historyPath resolves the scan history directory against root.
func (c *appConfig) historyPath(root string) string {
	if filepath.IsAbs(c.HistoryDir) {
		return c.HistoryDir
	}
	return filepath.Join(root, c.HistoryDir)
}
