// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/expansionlabs/ragdesk/internal/store"
)

// HandleReset erases all locally stored state: the conversation snapshot
// and the upload records. The backend knowledge base is untouched.
func HandleReset(app *App, args Args) error {
	confirm := ConfirmWith(args.Confirm)
	if !confirm("erase all local conversations and upload records") {
		fmt.Println("Cancelled")
		return nil
	}

	if err := app.Store.Erase(store.CollectionConversations); err != nil {
		return fmt.Errorf("failed to erase conversations: %w", err)
	}
	if err := app.Store.Erase(store.CollectionUploadedFiles); err != nil {
		return fmt.Errorf("failed to erase upload records: %w", err)
	}

	fmt.Println(SuccessStyle.Render("Local state erased"))
	return nil
}
