package main

import "testing"

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a very long string indeed", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := truncate("abc", 2); got != "abc" {
		t.Errorf("truncate below minimum should return input, got %q", got)
	}
}

func TestParseFlag(t *testing.T) {
	args := []string{"list", "--category=security", "--json"}
	if got := parseFlag(args, "--category="); got != "security" {
		t.Errorf("parseFlag = %q, want security", got)
	}
	if got := parseFlag(args, "--framework="); got != "" {
		t.Errorf("missing flag should be empty, got %q", got)
	}
}

func TestHasFlag(t *testing.T) {
	args := []string{"scan", "--json"}
	if !hasFlag(args, "--json") {
		t.Error("expected --json to be present")
	}
	if hasFlag(args, "--no-history") {
		t.Error("--no-history should be absent")
	}
}

func TestPositionalArg(t *testing.T) {
	if got := positionalArg([]string{"--json", "src/app.ts", "other"}); got != "src/app.ts" {
		t.Errorf("positionalArg = %q", got)
	}
	if got := positionalArg([]string{"--json"}); got != "" {
		t.Errorf("expected empty for flag-only args, got %q", got)
	}
}
