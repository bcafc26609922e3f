// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the durable local store: named collections holding
// full JSON snapshots.
package store

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a process-wide key-value persistence surface keyed by logical
// collection name. Every write replaces the collection's snapshot wholesale;
// there are no partial or incremental writes.
type Store interface {
	// Load returns the snapshot for a collection, or ErrNotFound if the
	// collection has never been saved.
	Load(collection string) ([]byte, error)

	// Save replaces the collection's snapshot.
	Save(collection string, data []byte) error

	// Erase removes a collection. Erasing an absent collection is not an
	// error.
	Erase(collection string) error

	// Close releases any resources held by the store.
	Close() error
}

// Collection names shared by the state managers. The two collections are
// independent: each manager persists only its own.
const (
	CollectionConversations = "conversations"
	CollectionUploadedFiles = "uploaded_files"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a collection has no stored snapshot.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &StoreError{Message: "collection not found"}

// StoreError represents a store-related error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
