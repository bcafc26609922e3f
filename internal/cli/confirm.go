// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation handling for destructive ragdesk commands.
//
// A single pattern for every destructive action:
//  1. --confirm flag present: proceed without prompting
//  2. stdin not a TTY: refuse (cannot prompt)
//  3. Otherwise: interactive yes/no prompt, default no
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Confirm asks the user to confirm a destructive action.
// Returns true only on an explicit "y" or "yes".
func Confirm(action string) bool {
	if !IsTTY() {
		fmt.Fprintf(os.Stderr, "Refusing to %s: not a terminal (pass --confirm to override)\n", action)
		return false
	}

	fmt.Printf("%s %s [y/N]: ", WarningStyle.Render("Confirm:"), action)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ConfirmWith honors a pre-supplied --confirm flag before prompting.
// This is the function wired into the session manager's confirmation gate.
func ConfirmWith(confirmFlag bool) func(action string) bool {
	return func(action string) bool {
		if confirmFlag {
			return true
		}
		return Confirm(action)
	}
}
