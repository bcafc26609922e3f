// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides the durable local store: named collections holding
// full JSON snapshots.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore persists collections as rows in a single snapshots table.
// Each row holds the full JSON snapshot for one collection, so the
// replace-on-mutation contract is a single upsert.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	collection TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// NewSQLiteStore opens (creating if needed) a snapshot database at the
// default location ~/.ragdesk/data/ragdesk.db.
func NewSQLiteStore() (*SQLiteStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStoreWithPath(filepath.Join(homeDir, ".ragdesk", "data", "ragdesk.db"))
}

// NewSQLiteStoreWithPath opens a snapshot database at a custom path.
func NewSQLiteStoreWithPath(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single writer: the store is in-process only.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the snapshot for a collection.
func (s *SQLiteStore) Load(collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM snapshots WHERE collection = ?`, collection,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save replaces the collection's snapshot.
func (s *SQLiteStore) Save(collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO snapshots (collection, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(collection) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, data, time.Now().UTC(),
	)
	return err
}

// Erase removes a collection.
func (s *SQLiteStore) Erase(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM snapshots WHERE collection = ?`, collection)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
