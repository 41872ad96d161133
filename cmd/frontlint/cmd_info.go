package main

import (
	"fmt"

	"github.com/frontlint/frontlint/pkg/framework"
)

// cmdInfo shows the resolved framework profile for the project.
func cmdInfo(cfg *appConfig, args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		fmt.Print(`frontlint info - Show the resolved framework profile

Usage:
  frontlint info [path] [--json]
`)
		return nil
	}

	root := cfg.resolveRoot(positionalArg(args))
	profile := framework.NewResolver().Resolve(root)

	if hasFlag(args, "--json") {
		return printJSON(profile)
	}

	fmt.Printf("Framework:   %s\n", profile.Framework)
	fmt.Printf("Bundler:     %s\n", profile.Bundler)
	fmt.Printf("TypeScript:  %t\n", profile.UsesTypeScript)
	if profile.Framework == framework.TypeNextJS {
		fmt.Printf("App Router:  %t\n", profile.HasAppRouter)
		fmt.Printf("Pages Router: %t\n", profile.HasPagesRouter)
	}
	return nil
}
