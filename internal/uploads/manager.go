// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploads provides the upload lifecycle manager.
package uploads

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/expansionlabs/ragdesk/internal/docservice"
	"github.com/expansionlabs/ragdesk/internal/model"
	"github.com/expansionlabs/ragdesk/internal/store"
)

// DefaultCompletionDelay is how long after a successful upload a record's
// status flips from processing to completed.
const DefaultCompletionDelay = 3 * time.Second

// =============================================================================
// FILE INPUT
// =============================================================================

// FileInput is one file submitted for upload.
type FileInput struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// =============================================================================
// UPLOAD MANAGER
// =============================================================================

// Manager owns the uploaded-file collection. Uploads run strictly
// sequentially within one call; each file produces exactly one record,
// inserted at the head of the collection. Upload failures of either kind
// (transport or backend rejection) are absorbed into failed records and
// never returned to the caller.
//
// Every mutation persists the full collection snapshot unconditionally.
type Manager struct {
	mu sync.Mutex

	files     []model.UploadedFile
	uploading bool

	st        store.Store
	client    *docservice.Client
	scheduler *Scheduler
	delay     time.Duration
}

// NewManager creates an upload manager backed by the given store and
// document service client.
func NewManager(st store.Store, client *docservice.Client) *Manager {
	return &Manager{
		files:     make([]model.UploadedFile, 0),
		st:        st,
		client:    client,
		scheduler: NewScheduler(),
		delay:     DefaultCompletionDelay,
	}
}

// SetCompletionDelay overrides the processing-to-completed delay.
func (m *Manager) SetCompletionDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Load adopts the persisted uploaded-file collection. A missing or corrupt
// snapshot yields an empty collection; loading never fails.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.st.Load(store.CollectionUploadedFiles)
	if err != nil {
		return
	}

	var loaded []model.UploadedFile
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("uploads: discarding corrupt uploaded-file snapshot: %v", err)
		return
	}
	m.files = loaded
}

// Close cancels pending completion callbacks. Records already persisted
// keep their last status.
func (m *Manager) Close() {
	m.scheduler.CancelAll()
}

// =============================================================================
// READ SURFACE
// =============================================================================

// Files returns a snapshot of the collection, newest first.
func (m *Manager) Files() []model.UploadedFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.UploadedFile, len(m.files))
	copy(out, m.files)
	return out
}

// IsUploading reports whether an UploadFiles call is in flight.
func (m *Manager) IsUploading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploading
}

// GetByCategory returns the records whose category equals the filter.
// model.CategoryAll returns the full collection unfiltered.
func (m *Manager) GetByCategory(category model.FileCategory) []model.UploadedFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category == model.CategoryAll {
		out := make([]model.UploadedFile, len(m.files))
		copy(out, m.files)
		return out
	}

	out := make([]model.UploadedFile, 0)
	for _, f := range m.files {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// Get returns the record with the given local id.
func (m *Manager) Get(id string) (model.UploadedFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.files {
		if f.ID == id {
			return f, true
		}
	}
	return model.UploadedFile{}, false
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadFiles uploads each input in order, one at a time. Every input
// yields a record: successful uploads insert a processing record carrying
// the backend document id and schedule its completion; failures insert a
// terminal failed record with no document id. Errors are absorbed, never
// returned.
func (m *Manager) UploadFiles(ctx context.Context, inputs []FileInput, category model.FileCategory) {
	if !category.Valid() {
		category = model.CategoryGeneral
	}

	m.mu.Lock()
	m.uploading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.uploading = false
		m.mu.Unlock()
	}()

	// Strictly sequential: at most one outstanding backend request from
	// this call, and status bookkeeping stays trivially ordered.
	for _, in := range inputs {
		resp, err := m.client.Upload(ctx, in.Name, in.Reader, category.String())
		if err != nil {
			log.Printf("uploads: upload of %q failed: %v", in.Name, err)
			m.insert(model.NewFailedUpload(in.Name, in.Size, category))
			continue
		}

		size := resp.Size
		if size == 0 {
			size = in.Size
		}

		rec := model.NewUploadedFile(in.Name, size, category, resp.DocumentID)
		m.insert(rec)
		m.scheduleCompletion(rec.ID)
	}
}

// insert places a record at the head of the collection and persists.
func (m *Manager) insert(rec model.UploadedFile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files = append([]model.UploadedFile{rec}, m.files...)
	m.persistLocked()
}

// scheduleCompletion arranges the one-shot processing-to-completed
// transition for a record. The callback is correlated by local id, so it
// stays correct if the collection is reordered or other entries are
// deleted before it fires, and it no-ops if the record itself is gone.
func (m *Manager) scheduleCompletion(id string) {
	m.mu.Lock()
	delay := m.delay
	m.mu.Unlock()

	m.scheduler.Schedule(id, delay, func() {
		m.completeProcessing(id)
	})
}

// completeProcessing flips a record from processing to completed.
func (m *Manager) completeProcessing(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.files {
		if m.files[i].ID != id {
			continue
		}
		if !m.files[i].ProcessingStatus.CanTransition(model.StatusCompleted) {
			return
		}
		m.files[i].ProcessingStatus = model.StatusCompleted
		m.persistLocked()
		return
	}
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteFile removes the local record unconditionally. No backend call is
// made.
func (m *Manager) DeleteFile(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

// DeleteFileFromKnowledgeBase removes a record and, when it is correlated
// with a remote document, the backend copy too. The local record is removed
// only if the remote delete succeeds; on failure it is left intact so the
// local list never gets ahead of backend ground truth. Returns true if the
// record was removed locally.
func (m *Manager) DeleteFileFromKnowledgeBase(ctx context.Context, id string) bool {
	m.mu.Lock()
	var docID string
	found := false
	for _, f := range m.files {
		if f.ID == id {
			docID = f.DocumentID
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return false
	}

	// Records that never made it to the backend have nothing remote to
	// delete.
	if docID == "" {
		m.DeleteFile(id)
		return true
	}

	if err := m.client.Delete(ctx, docID); err != nil {
		log.Printf("uploads: remote delete of document %q failed: %v", docID, err)
		return false
	}

	m.DeleteFile(id)
	return true
}

// removeLocked deletes a record by id and persists. Must be called with
// the lock held.
func (m *Manager) removeLocked(id string) {
	for i, f := range m.files {
		if f.ID == id {
			m.files = append(m.files[:i], m.files[i+1:]...)
			m.persistLocked()
			return
		}
	}
}

// =============================================================================
// CATEGORY
// =============================================================================

// UpdateCategory edits a record's category in place, independent of its
// processing status.
func (m *Manager) UpdateCategory(id string, category model.FileCategory) {
	if !category.Valid() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.files {
		if m.files[i].ID == id {
			m.files[i].Category = category
			m.persistLocked()
			return
		}
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// UploadsChangedMsg signals that the uploaded-file collection changed.
type UploadsChangedMsg struct{}

// UploadCmd runs UploadFiles and emits a change message when the batch
// finishes.
func (m *Manager) UploadCmd(ctx context.Context, inputs []FileInput, category model.FileCategory) tea.Cmd {
	return func() tea.Msg {
		m.UploadFiles(ctx, inputs, category)
		return UploadsChangedMsg{}
	}
}

// DeleteRemoteCmd runs DeleteFileFromKnowledgeBase and emits a change
// message.
func (m *Manager) DeleteRemoteCmd(ctx context.Context, id string) tea.Cmd {
	return func() tea.Msg {
		m.DeleteFileFromKnowledgeBase(ctx, id)
		return UploadsChangedMsg{}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// persistLocked writes the full collection snapshot. Unlike the session
// manager there is no initialization latch: this manager never auto-seeds,
// so an early write can only ever persist what the user actually did. Must
// be called with the lock held.
func (m *Manager) persistLocked() {
	data, err := json.Marshal(m.files)
	if err != nil {
		log.Printf("uploads: failed to serialize uploaded files: %v", err)
		return
	}
	if err := m.st.Save(store.CollectionUploadedFiles, data); err != nil {
		log.Printf("uploads: failed to persist uploaded files: %v", err)
	}
}
