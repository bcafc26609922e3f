// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and uploaded documents.
package model

import "time"

// =============================================================================
// KNOWLEDGE BASE FILE
// =============================================================================

// KnowledgeBaseFile is a derived view of a document the backend reports as
// ingested. It is rebuilt wholesale on every listing fetch and never
// persisted. DateAdded is the fetch instant: the backend does not report a
// creation time.
type KnowledgeBaseFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	DateAdded    time.Time `json:"date_added"`
}
