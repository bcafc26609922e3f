// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the durable local store: named collections holding
// full JSON snapshots.
//
// Two backends implement the Store interface:
//
//   - FileStore: one JSON file per collection with atomic replace-on-write
//   - SQLiteStore: one row per collection in a snapshots table
//
// The state managers treat the store as a dumb persistence surface. They
// always write the complete serialized collection, never diffs, so either
// backend can be swapped in without changing manager behavior. Backend
// selection lives in the config package.
package store
