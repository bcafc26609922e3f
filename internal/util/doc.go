// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for ragdesk: atomic file
// writes used by the snapshot store, and rune-aware string truncation used
// when deriving titles and rendering previews.
package util
