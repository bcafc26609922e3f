// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for ragdesk.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota // default
	CmdFiles
	CmdKB
	CmdConvs
	CmdConfig
	CmdStatus
	CmdReset
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Confirm bool // skip interactive confirmation prompts

	// Command-specific
	Subcommand string
	Model      string
	Category   string
	Meta       string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `ragdesk - terminal client for a retrieval-augmented document chat backend

It provides:
  - Interactive chat grounded in your uploaded documents
  - Document upload and lifecycle management
  - Knowledge base inspection
  - Durable local conversation history

Usage:
  ragdesk                          Start interactive chat (default)
  ragdesk chat                     Interactive chat
  ragdesk files [subcommand]       Manage uploaded files
  ragdesk kb [subcommand]          Inspect the backend knowledge base
  ragdesk convs [subcommand]       Manage conversations
  ragdesk config [show|path]       Configuration
  ragdesk status                   Check backend connectivity
  ragdesk reset                    Erase all local state
    --confirm                      Skip the confirmation prompt
  ragdesk version                  Show version information

Files Subcommands:
  ragdesk files list                      List tracked uploads
  ragdesk files upload FILE [FILE...]     Upload documents
    --category NAME                       Category for the batch
  ragdesk files delete ID                 Remove a record locally
  ragdesk files remove ID                 Delete from the backend too
  ragdesk files category ID NAME          Reassign an upload's category
  ragdesk files info ID                   Show backend document metadata
  ragdesk files download ID DEST          Fetch a document's original bytes

Knowledge Base Subcommands:
  ragdesk kb list                  Fetch and show backend files

Conversation Subcommands:
  ragdesk convs list               List conversations
  ragdesk convs clear              Delete all conversations
    --confirm                      Skip the confirmation prompt

Chat Commands (during chat):
  /help, /h           Show available commands
  /new                Start a new conversation
  /list               List conversations
  /switch ID          Switch to a conversation
  /clear              Clear the current conversation
  /history            Show conversation history
  /meta TEXT          Set meta information for retrieval
  /quit, /q           Exit chat
  Ctrl+D              Exit chat

Global Flags:
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output
  --json              Output in JSON format (where supported)
  --confirm           Skip confirmation prompts
  -m, --model NAME    Generation model for chat requests

Environment:
  RAGDESK_BACKEND_URL   Backend base URL (default http://127.0.0.1:8000)
  RAGDESK_DATA_DIR      Local state directory (default ~/.ragdesk/data)
  RAGDESK_STORE         Store backend: "file" or "sqlite"
`

// Parse parses os.Args and returns the command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument list. Split out from Parse for testing.
func ParseArgs(raw []string) (Command, Args) {
	args := Args{}

	// Peel off the command word first
	cmd := CmdChat
	rest := raw
	if len(raw) > 0 && !strings.HasPrefix(raw[0], "-") {
		switch raw[0] {
		case "chat":
			cmd = CmdChat
		case "files", "file", "uploads":
			cmd = CmdFiles
		case "kb", "knowledge":
			cmd = CmdKB
		case "convs", "conversations":
			cmd = CmdConvs
		case "config":
			cmd = CmdConfig
		case "status", "s":
			cmd = CmdStatus
		case "reset":
			cmd = CmdReset
		case "version":
			cmd = CmdVersion
		case "help":
			cmd = CmdHelp
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", raw[0])
			cmd = CmdHelp
		}
		rest = raw[1:]
	}

	parser := NewArgParser(rest)
	args.Subcommand = parser.Subcommand()
	args.Quiet = parser.BoolFlag("quiet") || parser.BoolFlag("q")
	args.Verbose = parser.BoolFlag("verbose") || parser.BoolFlag("v")
	args.JSON = parser.BoolFlag("json")
	args.Confirm = parser.BoolFlag("confirm") || parser.BoolFlag("y")
	args.Model = parser.FlagOrDefault("model", parser.Flag("m"))
	args.Category = parser.FlagOrDefault("category", parser.Flag("c"))
	args.Meta = parser.Flag("meta")
	args.Raw = parser.PositionalFrom(0)

	switch {
	case parser.BoolFlag("help") || parser.BoolFlag("h"):
		cmd = CmdHelp
	case parser.BoolFlag("version"):
		cmd = CmdVersion
	}

	return cmd, args
}

// HandleHelp prints usage information.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("ragdesk %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
