// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// kb.go - Knowledge base inspection command handler for the ragdesk CLI.
//
// Command: kb
// Short:   Inspect the backend knowledge base
//
// Examples:
//   ragdesk kb               List backend files
//   ragdesk kb list          Same
//   ragdesk kb list --json   Machine-readable listing
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// HandleKB dispatches the "kb" subcommands.
func HandleKB(app *App, args Args) error {
	switch args.Subcommand {
	case "", "list", "ls", "refresh":
		return kbList(app, args)
	default:
		return fmt.Errorf("unknown kb subcommand: %s (try list)", args.Subcommand)
	}
}

// kbList fetches the backend listing and prints it.
func kbList(app *App, args Args) error {
	app.KB.Refresh(context.Background())

	if msg := app.KB.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	files := app.KB.Files()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(files)
	}

	if len(files) == 0 {
		fmt.Println(DimStyle.Render("(knowledge base is empty)"))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Knowledge Base (%d files)", len(files))))
	for _, f := range files {
		fmt.Printf("%s  %s\n", DimStyle.Render(f.ID), ValueStyle.Render(f.Name))
	}
	return nil
}
