// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the ragdesk command-line interface.
//
// Commands are parsed in cli.go, routed by main, and handled by the
// per-command files (chat.go, files.go, kb.go, convs.go, status.go).
// App (app.go) holds the wired stack shared by all handlers: the
// configuration, the durable store, the backend client, and the
// session, upload, and knowledge-base managers.
//
// Output is styled with lipgloss; colors are disabled automatically
// for non-TTY output and when NO_COLOR is set. Assistant responses
// are rendered as markdown with glamour when stdout is a terminal.
package cli
