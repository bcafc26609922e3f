// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_FlagFormats(t *testing.T) {
	p := NewArgParser([]string{"upload", "report.pdf", "--category", "technical", "--json", "-m", "gpt-4o"})

	if p.Subcommand() != "upload" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Flag("category") != "technical" {
		t.Errorf("Flag(category) = %q", p.Flag("category"))
	}
	if !p.BoolFlag("json") {
		t.Error("BoolFlag(json) = false")
	}
	if p.Flag("m") != "gpt-4o" {
		t.Errorf("Flag(m) = %q", p.Flag("m"))
	}
	if p.Positional(1) != "report.pdf" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
}

func TestArgParser_EqualsForm(t *testing.T) {
	p := NewArgParser([]string{"--category=research", "--json=true", "--verbose=false"})

	if p.Flag("category") != "research" {
		t.Errorf("Flag(category) = %q", p.Flag("category"))
	}
	if !p.BoolFlag("json") {
		t.Error("explicit --json=true not honored")
	}
	if p.BoolFlag("verbose") {
		t.Error("explicit --verbose=false not honored")
	}
}

func TestArgParser_BooleanFlagsDoNotSwallowPositionals(t *testing.T) {
	p := NewArgParser([]string{"delete", "--confirm", "some-id"})

	if !p.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) = false")
	}
	if p.Positional(1) != "some-id" {
		t.Errorf("Positional(1) = %q, positional swallowed by boolean flag", p.Positional(1))
	}
}

func TestArgParser_Defaults(t *testing.T) {
	p := NewArgParser(nil)

	if p.Subcommand() != "" || p.PositionalCount() != 0 {
		t.Errorf("empty parser: subcommand=%q count=%d", p.Subcommand(), p.PositionalCount())
	}
	if p.FlagOrDefault("missing", "fallback") != "fallback" {
		t.Error("FlagOrDefault did not fall back")
	}
	if p.HasFlag("anything") {
		t.Error("HasFlag on empty parser")
	}
}

// =============================================================================
// COMMAND ROUTING TESTS
// =============================================================================

func TestParseArgs_CommandRouting(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		cmd  Command
		sub  string
	}{
		{"bare invocation defaults to chat", nil, CmdChat, ""},
		{"explicit chat", []string{"chat"}, CmdChat, ""},
		{"files list", []string{"files", "list"}, CmdFiles, "list"},
		{"files alias", []string{"uploads", "list"}, CmdFiles, "list"},
		{"kb", []string{"kb"}, CmdKB, ""},
		{"conversations alias", []string{"conversations", "clear"}, CmdConvs, "clear"},
		{"status short form", []string{"s"}, CmdStatus, ""},
		{"reset", []string{"reset", "--confirm"}, CmdReset, ""},
		{"version", []string{"version"}, CmdVersion, ""},
		{"unknown falls back to help", []string{"frobnicate"}, CmdHelp, ""},
		{"help flag wins", []string{"files", "--help"}, CmdHelp, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, args := ParseArgs(tc.raw)
			if cmd != tc.cmd {
				t.Errorf("command = %v, want %v", cmd, tc.cmd)
			}
			if args.Subcommand != tc.sub {
				t.Errorf("subcommand = %q, want %q", args.Subcommand, tc.sub)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	_, args := ParseArgs([]string{"files", "upload", "a.pdf", "--category", "business", "--confirm", "--json", "-q"})

	if args.Category != "business" {
		t.Errorf("Category = %q", args.Category)
	}
	if !args.Confirm || !args.JSON || !args.Quiet {
		t.Errorf("flags = %+v", args)
	}
	if len(args.Raw) != 2 || args.Raw[1] != "a.pdf" {
		t.Errorf("Raw = %v", args.Raw)
	}
}

func TestParseArgs_ModelFlag(t *testing.T) {
	_, args := ParseArgs([]string{"chat", "--model", "gpt-4o-mini"})
	if args.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", args.Model)
	}

	_, args = ParseArgs([]string{"chat", "-m", "llama3"})
	if args.Model != "llama3" {
		t.Errorf("short Model = %q", args.Model)
	}
}
