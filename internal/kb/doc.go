// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kb provides the knowledge-base listing sync.
//
// The sync holds the client's only view of which documents the backend has
// actually ingested, independent of local upload history. The view is
// rebuilt wholesale on every fetch and is never persisted; entries keep no
// identity across fetches beyond the backend document id.
package kb
