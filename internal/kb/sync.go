// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kb provides the knowledge-base listing sync.
package kb

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/expansionlabs/ragdesk/internal/docservice"
	"github.com/expansionlabs/ragdesk/internal/model"
)

// =============================================================================
// LISTING SYNC
// =============================================================================

// Sync holds a derived, non-persisted view of the backend's document
// inventory. Every fetch replaces the view wholesale; a failed fetch clears
// it and records a human-readable error so a stale or partial listing is
// never shown as current.
type Sync struct {
	mu sync.Mutex

	files   []model.KnowledgeBaseFile
	loading bool
	errMsg  string

	client *docservice.Client
}

// NewSync creates a listing sync over the given client.
func NewSync(client *docservice.Client) *Sync {
	return &Sync{
		files:  make([]model.KnowledgeBaseFile, 0),
		client: client,
	}
}

// =============================================================================
// READ SURFACE
// =============================================================================

// Files returns the current view of the knowledge base.
func (s *Sync) Files() []model.KnowledgeBaseFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.KnowledgeBaseFile, len(s.files))
	copy(out, s.files)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Sync) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the message recorded by the last failed fetch, or "" after
// a successful one.
func (s *Sync) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Count returns the number of files in the current view.
func (s *Sync) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// =============================================================================
// FETCH
// =============================================================================

// Refresh re-runs the listing fetch. It is the externally exposed alias for
// FetchListing and should be invoked once at activation by the consumer.
func (s *Sync) Refresh(ctx context.Context) {
	s.FetchListing(ctx)
}

// FetchListing pulls the authoritative remote listing and replaces the held
// view. The backend reports no creation time, so DateAdded is stamped with
// the fetch instant.
func (s *Sync) FetchListing(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	resp, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.files = make([]model.KnowledgeBaseFile, 0)
		s.errMsg = "failed to load knowledge base files: " + err.Error()
		return
	}

	now := time.Now()
	view := make([]model.KnowledgeBaseFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		view = append(view, model.KnowledgeBaseFile{
			ID:           f.ID,
			Name:         f.Name,
			OriginalName: f.Name,
			DateAdded:    now,
		})
	}

	s.files = view
	s.errMsg = ""
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ListingRefreshedMsg signals that the knowledge-base view was replaced.
type ListingRefreshedMsg struct {
	Count int
	Err   string
}

// RefreshCmd runs a fetch and emits the refreshed view's summary.
func (s *Sync) RefreshCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s.FetchListing(ctx)
		return ListingRefreshedMsg{Count: s.Count(), Err: s.Error()}
	}
}
