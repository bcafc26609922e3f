// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for the ragdesk CLI.
//
// Provides TTY detection for stdin/stdout, terminal width detection,
// and color output control. Colors are disabled for piped output and
// when NO_COLOR is set; FORCE_COLOR overrides detection.
package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
// Use this to determine if interactive prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
// Use this to determine if colored output should be used.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width used for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the current terminal width, clamped to
// [MinTerminalWidth, ...], or DefaultTerminalWidth if undetectable.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorProfileOnce sync.Once
	colorProfile     termenv.Profile
)

// GetColorProfile returns the termenv profile to use for output.
//
// Resolution order:
//  1. NO_COLOR set: colors disabled (https://no-color.org/)
//  2. FORCE_COLOR set: colors forced on
//  3. stdout not a TTY: colors disabled
//  4. Otherwise: whatever the terminal reports
func GetColorProfile() termenv.Profile {
	colorProfileOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorProfile = termenv.Ascii
		case os.Getenv("FORCE_COLOR") != "":
			colorProfile = termenv.ANSI256
		case !IsStdoutTTY():
			colorProfile = termenv.Ascii
		default:
			colorProfile = termenv.ColorProfile()
		}
	})
	return colorProfile
}

// ColorsEnabled returns true if colored output should be produced.
func ColorsEnabled() bool {
	return GetColorProfile() != termenv.Ascii
}
