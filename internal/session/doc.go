// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation session manager.
//
// The manager owns the in-memory conversation collection and the current
// conversation cursor, and persists the full collection as a JSON snapshot
// after every mutation. Initialization runs exactly once per process: it
// adopts the stored snapshot when one exists, otherwise it synthesizes a
// single fresh conversation, and it latches so that no persistence write
// can happen before the load completes.
//
// Invariants maintained here:
//
//   - the collection is never empty once initialization has completed
//   - at most one conversation id is current at any time
//   - the first user message of a conversation derives its title; later
//     messages never re-title it
package session
