package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/frontlint/frontlint/pkg/framework"
	"github.com/frontlint/frontlint/pkg/rules"
)

// cmdRules lists rules or flips their enabled state.
func cmdRules(cfg *appConfig, args []string) error {
	if len(args) == 0 || hasFlag(args, "--help") || hasFlag(args, "-h") {
		printRulesUsage()
		return nil
	}

	root := cfg.resolveRoot(parseFlag(args, "--root="))
	loader := rules.NewLoader(cfg.overridePath(root))
	fw := resolveRulesFramework(args, root)

	sub := args[0]
	rest := args[1:]
	switch sub {
	case "list":
		return listRules(loader, fw, parseFlag(rest, "--category="))
	case "enable":
		return flipRule(loader, fw, rest, true)
	case "disable":
		return flipRule(loader, fw, rest, false)
	default:
		return fmt.Errorf("unknown rules subcommand: %s", sub)
	}
}

// resolveRulesFramework honours --framework, falling back to the project's
// detected framework.
func resolveRulesFramework(args []string, root string) string {
	if fw := parseFlag(args, "--framework="); fw != "" {
		return fw
	}
	return string(framework.Default.Resolve(root).Framework)
}

func listRules(loader *rules.Loader, fw, catFlag string) error {
	cats := rules.Categories
	if catFlag != "" {
		cat := rules.Category(catFlag)
		if !cat.Valid() {
			return fmt.Errorf("unknown category %q", catFlag)
		}
		cats = []rules.Category{cat}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Category", "Severity", "Enabled", "Title")
	total := 0
	for _, cat := range cats {
		for _, r := range loader.Load(fw, cat).Rules() {
			table.Append([]string{
				r.ID,
				string(r.Category),
				string(r.Severity),
				strconv.FormatBool(r.Enabled),
				truncate(r.Title, 50),
			})
			total++
		}
	}
	table.Render()
	fmt.Printf("%d rule(s) for %s\n", total, rules.NormalizeFramework(fw))
	return nil
}

func flipRule(loader *rules.Loader, fw string, args []string, enabled bool) error {
	id := positionalArg(args)
	if id == "" {
		return fmt.Errorf("rule id required")
	}
	cat := rules.Category(parseFlag(args, "--category="))
	if err := setRuleEnabled(loader, fw, cat, id, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("rule %s %s\n", id, state)
	return nil
}

// setRuleEnabled flips a rule, locating its category when none was given.
// An unknown rule id is an explicit failure, never a silent no-op.
func setRuleEnabled(loader *rules.Loader, fw string, cat rules.Category, id string, enabled bool) error {
	if cat != "" {
		if !cat.Valid() {
			return fmt.Errorf("unknown category %q", cat)
		}
		return loader.SetRuleEnabled(fw, cat, id, enabled)
	}
	for _, c := range rules.Categories {
		if _, ok := loader.Load(fw, c).ByID(id); ok {
			return loader.SetRuleEnabled(fw, c, id, enabled)
		}
	}
	return fmt.Errorf("%w: %s", rules.ErrRuleNotFound, id)
}

func printRulesUsage() {
	fmt.Print(`frontlint rules - Inspect and toggle audit rules

Usage:
  frontlint rules list [--category=<c>] [--framework=<f>]
  frontlint rules enable <rule-id> [--category=<c>] [--framework=<f>]
  frontlint rules disable <rule-id> [--category=<c>] [--framework=<f>]

Enable/disable writes to the project override directory so the change
survives restarts without touching the shipped defaults.

Flags:
  --framework=<f>   react or nextjs (default: detected from the project)
  --category=<c>    Restrict to one category
  --root=<path>     Project root (default: workspace root)
  --help, -h        Show this help
`)
}
