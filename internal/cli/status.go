// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status and config command handlers for the ragdesk CLI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/expansionlabs/ragdesk/internal/config"
	"github.com/expansionlabs/ragdesk/internal/docservice"
)

// HandleStatus checks backend connectivity and reports the local state.
func HandleStatus(app *App, args Args) error {
	fmt.Println(TitleStyle.Render("ragdesk status"))
	fmt.Println(Separator())

	fmt.Printf("%s %s\n", LabelStyle.Render("Backend"), app.Client.BaseURL())

	_, err := app.Client.List(context.Background())
	switch {
	case err == nil:
		fmt.Printf("%s %s\n", LabelStyle.Render("Reachable"), SuccessStyle.Render("yes"))
	case docservice.IsUnreachable(err):
		fmt.Printf("%s %s\n", LabelStyle.Render("Reachable"), ErrorStyle.Render("no"))
	default:
		fmt.Printf("%s %s\n", LabelStyle.Render("Reachable"), WarningStyle.Render(err.Error()))
	}

	fmt.Printf("%s %d\n", LabelStyle.Render("Conversations"), app.Sessions.Count())
	fmt.Printf("%s %d\n", LabelStyle.Render("Uploads"), len(app.Uploads.Files()))
	fmt.Printf("%s %s\n", LabelStyle.Render("Store"), app.Config.Storage.Backend)
	return nil
}

// HandleConfig shows the effective configuration.
func HandleConfig(cfg *config.Config, args Args) error {
	switch args.Subcommand {
	case "path":
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil

	case "", "show":
		if args.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}
		fmt.Println(TitleStyle.Render("ragdesk configuration"))
		fmt.Printf("%s %s\n", LabelStyle.Render("Backend URL"), cfg.Backend.URL)
		fmt.Printf("%s %ds / %ds\n", LabelStyle.Render("Timeouts"), cfg.Backend.TimeoutSecs, cfg.Backend.UploadTimeoutSecs)
		fmt.Printf("%s %s\n", LabelStyle.Render("Store"), cfg.Storage.Backend)
		dataDir, err := cfg.DataDir()
		if err == nil {
			fmt.Printf("%s %s\n", LabelStyle.Render("Data dir"), dataDir)
		}
		fmt.Printf("%s %ds\n", LabelStyle.Render("Completion"), cfg.Uploads.CompletionDelaySecs)
		fmt.Printf("%s top_k=%d model=%q temp=%.2f\n", LabelStyle.Render("Chat"), cfg.Chat.TopK, cfg.Chat.Model, cfg.Chat.Temperature)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s (try show, path)", args.Subcommand)
	}
}
