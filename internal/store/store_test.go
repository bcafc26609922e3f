// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// backends returns one open store per backend, each rooted in a fresh
// temporary directory.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}

	ss, err := NewSQLiteStoreWithPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStoreWithPath: %v", err)
	}

	return map[string]Store{"file": fs, "sqlite": ss}
}

// =============================================================================
// CONTRACT TESTS (BOTH BACKENDS)
// =============================================================================

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			payload := []byte(`[{"id":"conv_1","title":"New Chat"}]`)
			if err := st.Save(CollectionConversations, payload); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := st.Load(CollectionConversations)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if string(got) != string(payload) {
				t.Errorf("Load = %s, want %s", got, payload)
			}
		})
	}
}

func TestStore_LoadMissingCollection(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			_, err := st.Load("never_saved")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Load on missing collection = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_SaveReplacesSnapshot(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			if err := st.Save(CollectionUploadedFiles, []byte(`["old"]`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := st.Save(CollectionUploadedFiles, []byte(`["new"]`)); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := st.Load(CollectionUploadedFiles)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if string(got) != `["new"]` {
				t.Errorf("Load = %s, want replacement snapshot", got)
			}
		})
	}
}

func TestStore_Erase(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			if err := st.Save(CollectionConversations, []byte(`[]`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := st.Erase(CollectionConversations); err != nil {
				t.Fatalf("Erase: %v", err)
			}
			if _, err := st.Load(CollectionConversations); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after Erase = %v, want ErrNotFound", err)
			}

			// Erasing an absent collection is not an error
			if err := st.Erase(CollectionConversations); err != nil {
				t.Errorf("second Erase = %v, want nil", err)
			}
		})
	}
}

func TestStore_CollectionsAreIndependent(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			if err := st.Save(CollectionConversations, []byte(`["convs"]`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := st.Save(CollectionUploadedFiles, []byte(`["files"]`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := st.Erase(CollectionConversations); err != nil {
				t.Fatalf("Erase: %v", err)
			}

			got, err := st.Load(CollectionUploadedFiles)
			if err != nil || string(got) != `["files"]` {
				t.Errorf("sibling collection affected: %s, %v", got, err)
			}
		})
	}
}

// =============================================================================
// FILE STORE SPECIFICS
// =============================================================================

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	st, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}
	if err := st.Save(CollectionConversations, []byte(`["persisted"]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st.Close()

	reopened, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(CollectionConversations)
	if err != nil || string(got) != `["persisted"]` {
		t.Errorf("Load after reopen = %s, %v", got, err)
	}
}

func TestFileStore_SanitizesCollectionNames(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}
	defer st.Close()

	if err := st.Save("../escape", []byte(`[]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Nothing may be written outside the base directory
	if _, err := os.Stat(filepath.Join(dir, "..", "escape.json")); err == nil {
		t.Error("collection name escaped the base directory")
	}
}

// =============================================================================
// SQLITE STORE SPECIFICS
// =============================================================================

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	st, err := NewSQLiteStoreWithPath(path)
	if err != nil {
		t.Fatalf("NewSQLiteStoreWithPath: %v", err)
	}
	if err := st.Save(CollectionUploadedFiles, []byte(`["persisted"]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStoreWithPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(CollectionUploadedFiles)
	if err != nil || string(got) != `["persisted"]` {
		t.Errorf("Load after reopen = %s, %v", got, err)
	}
}
