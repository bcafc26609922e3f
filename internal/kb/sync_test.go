// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package kb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/expansionlabs/ragdesk/internal/docservice"
)

// listingServer serves /documents/files with the given entries, failing
// with a 500 while broken is set.
func listingServer(t *testing.T, entries *[]docservice.FileEntry, broken *int32) *docservice.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/files" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if atomic.LoadInt32(broken) != 0 {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "index offline"})
			return
		}
		json.NewEncoder(w).Encode(docservice.FileListResponse{
			Files:      *entries,
			TotalFiles: len(*entries),
		})
	}))
	t.Cleanup(srv.Close)

	return docservice.NewClientWithConfig(&docservice.ClientConfig{BaseURL: srv.URL})
}

func TestSync_FetchListing_ReplacesViewWholesale(t *testing.T) {
	entries := []docservice.FileEntry{
		{ID: "doc-1", Name: "report.pdf"},
		{ID: "doc-2", Name: "notes.md"},
	}
	var broken int32
	s := NewSync(listingServer(t, &entries, &broken))

	s.Refresh(context.Background())

	files := s.Files()
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].ID != "doc-1" || files[0].Name != "report.pdf" {
		t.Errorf("first entry = %+v", files[0])
	}
	if files[0].OriginalName != files[0].Name {
		t.Errorf("OriginalName = %q, want mirrored name", files[0].OriginalName)
	}
	if files[0].DateAdded.IsZero() {
		t.Error("DateAdded not stamped")
	}
	if s.Error() != "" {
		t.Errorf("Error = %q, want empty", s.Error())
	}

	// A second fetch with a shrunk inventory replaces, not merges
	entries = entries[:1]
	s.Refresh(context.Background())
	if s.Count() != 1 {
		t.Errorf("Count after shrink = %d, want 1", s.Count())
	}
}

func TestSync_FetchListing_FailureClearsView(t *testing.T) {
	entries := []docservice.FileEntry{{ID: "doc-1", Name: "report.pdf"}}
	var broken int32
	s := NewSync(listingServer(t, &entries, &broken))

	s.Refresh(context.Background())
	if s.Count() != 1 {
		t.Fatalf("seed fetch Count = %d", s.Count())
	}

	atomic.StoreInt32(&broken, 1)
	s.Refresh(context.Background())

	if s.Count() != 0 {
		t.Errorf("Count = %d after failed fetch, want cleared view", s.Count())
	}
	if s.Error() == "" {
		t.Error("failed fetch recorded no error message")
	}

	// Recovery: next successful fetch restores the view and clears the error
	atomic.StoreInt32(&broken, 0)
	s.Refresh(context.Background())
	if s.Count() != 1 || s.Error() != "" {
		t.Errorf("recovery: count=%d err=%q", s.Count(), s.Error())
	}
}

func TestSync_FetchListing_EmptyInventory(t *testing.T) {
	entries := []docservice.FileEntry{}
	var broken int32
	s := NewSync(listingServer(t, &entries, &broken))

	s.Refresh(context.Background())

	if s.Count() != 0 || s.Error() != "" {
		t.Errorf("empty inventory: count=%d err=%q", s.Count(), s.Error())
	}
	if s.Loading() {
		t.Error("Loading still true after fetch returned")
	}
}

func TestSync_Files_ReturnsCopy(t *testing.T) {
	entries := []docservice.FileEntry{{ID: "doc-1", Name: "report.pdf"}}
	var broken int32
	s := NewSync(listingServer(t, &entries, &broken))
	s.Refresh(context.Background())

	view := s.Files()
	view[0].Name = "mutated"

	if s.Files()[0].Name != "report.pdf" {
		t.Error("mutating the returned slice leaked into sync state")
	}
}
