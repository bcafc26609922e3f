// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// convs.go - Conversation management command handler for the ragdesk CLI.
//
// Command: convs
// Short:   Manage stored conversations
//
// Examples:
//   ragdesk convs list               List conversations
//   ragdesk convs delete ID          Delete one conversation
//   ragdesk convs clear --confirm    Delete all conversations
package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// HandleConvs dispatches the "convs" subcommands.
func HandleConvs(app *App, args Args) error {
	switch args.Subcommand {
	case "", "list", "ls":
		return convsList(app, args)
	case "delete", "rm":
		return convsDelete(app, args)
	case "clear":
		return convsClear(app)
	default:
		return fmt.Errorf("unknown convs subcommand: %s (try list, delete, clear)", args.Subcommand)
	}
}

func convsList(app *App, args Args) error {
	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(app.Sessions.Conversations())
	}
	printConversations(app)
	return nil
}

func convsDelete(app *App, args Args) error {
	id := positionalAfterSubcommand(args)
	if id == "" {
		return fmt.Errorf("usage: ragdesk convs delete ID")
	}
	app.Sessions.DeleteConversation(id)
	fmt.Println(SuccessStyle.Render("deleted ") + DimStyle.Render(id))
	return nil
}

func convsClear(app *App) error {
	if !app.Sessions.ClearAllConversations() {
		fmt.Println(DimStyle.Render("Cancelled"))
		return nil
	}
	fmt.Println(SuccessStyle.Render("All conversations cleared"))
	return nil
}
