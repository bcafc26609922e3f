// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the durable local store: named collections holding
// full JSON snapshots.
package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/expansionlabs/ragdesk/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists each collection as a JSON file under a base directory.
// Default location: ~/.ragdesk/data/.
type FileStore struct {
	// BaseDir is the directory holding one file per collection.
	BaseDir string
}

// NewFileStore creates a file store rooted at the default data directory.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".ragdesk", "data"))
}

// NewFileStoreWithDir creates a file store rooted at a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Load returns the snapshot for a collection.
func (s *FileStore) Load(collection string) ([]byte, error) {
	data, err := os.ReadFile(s.filePath(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save replaces the collection's snapshot.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (s *FileStore) Save(collection string, data []byte) error {
	return util.AtomicWriteFile(s.filePath(collection), data, 0644)
}

// Erase removes a collection.
func (s *FileStore) Erase(collection string) error {
	if err := os.Remove(s.filePath(collection)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// filePath returns the file path for a collection.
func (s *FileStore) filePath(collection string) string {
	// Collection names are internal constants, but sanitize anyway so a bad
	// name can never escape the base directory.
	name := strings.ReplaceAll(collection, string(os.PathSeparator), "_")
	return filepath.Join(s.BaseDir, name+".json")
}
