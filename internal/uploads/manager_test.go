// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/expansionlabs/ragdesk/internal/docservice"
	"github.com/expansionlabs/ragdesk/internal/model"
	"github.com/expansionlabs/ragdesk/internal/store"
)

// fakeBackend is an httptest server that accepts uploads and deletes.
// Files whose name starts with "bad" are rejected with a 500; deletes of
// document ids starting with "locked" fail.
func fakeBackend(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	var deleteCount int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/documents/upload":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("ParseMultipartForm: %v", err)
			}
			_, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("FormFile: %v", err)
			}

			if strings.HasPrefix(header.Filename, "bad") {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": "ingestion failed"})
				return
			}

			json.NewEncoder(w).Encode(docservice.DocumentResponse{
				DocumentID: "doc-" + header.Filename,
				Filename:   header.Filename,
				Size:       header.Size,
				Success:    true,
			})

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/documents/"):
			atomic.AddInt32(&deleteCount, 1)
			if strings.HasPrefix(strings.TrimPrefix(r.URL.Path, "/documents/"), "locked") {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": "delete refused"})
				return
			}
			json.NewEncoder(w).Encode(map[string]bool{"success": true})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &deleteCount
}

// newTestManager returns a manager wired to the fake backend with a short
// completion delay.
func newTestManager(t *testing.T) (*Manager, store.Store, *int32) {
	t.Helper()

	srv, deletes := fakeBackend(t)
	st, err := store.NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir: %v", err)
	}

	client := docservice.NewClientWithConfig(&docservice.ClientConfig{BaseURL: srv.URL})
	m := NewManager(st, client)
	m.SetCompletionDelay(20 * time.Millisecond)
	m.Load()
	t.Cleanup(m.Close)
	return m, st, deletes
}

func inputs(names ...string) []FileInput {
	out := make([]FileInput, 0, len(names))
	for _, n := range names {
		out = append(out, FileInput{Name: n, Size: int64(len(n)), Reader: strings.NewReader("content of " + n)})
	}
	return out
}

// waitForStatus polls until the record reaches the wanted status or the
// deadline passes.
func waitForStatus(t *testing.T, m *Manager, id string, want model.ProcessingStatus) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f, ok := m.Get(id); ok && f.ProcessingStatus == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	f, _ := m.Get(id)
	t.Fatalf("record %s stuck at %q, want %q", id, f.ProcessingStatus, want)
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestManager_UploadFiles_Success(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf", "b.pdf", "c.pdf"), model.CategoryTechnical)

	files := m.Files()
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3", len(files))
	}

	// Newest first: the last uploaded file sits at the head
	if files[0].Name != "c.pdf" || files[2].Name != "a.pdf" {
		t.Errorf("order = [%s %s %s]", files[0].Name, files[1].Name, files[2].Name)
	}

	seen := map[string]bool{}
	for _, f := range files {
		if seen[f.ID] {
			t.Errorf("duplicate record id %s", f.ID)
		}
		seen[f.ID] = true

		if !f.Success || f.ProcessingStatus != model.StatusProcessing {
			t.Errorf("record %s: success=%v status=%q", f.Name, f.Success, f.ProcessingStatus)
		}
		if f.DocumentID != "doc-"+f.Name {
			t.Errorf("record %s: document id %q", f.Name, f.DocumentID)
		}
		if f.Category != model.CategoryTechnical {
			t.Errorf("record %s: category %q", f.Name, f.Category)
		}
	}
}

func TestManager_UploadFiles_CompletionAfterDelay(t *testing.T) {
	m, st, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryGeneral)
	id := m.Files()[0].ID

	waitForStatus(t, m, id, model.StatusCompleted)

	// The flip is persisted, not just in memory
	data, err := st.Load(store.CollectionUploadedFiles)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var persisted []model.UploadedFile
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if persisted[0].ProcessingStatus != model.StatusCompleted {
		t.Errorf("persisted status = %q", persisted[0].ProcessingStatus)
	}
}

func TestManager_UploadFiles_FailureAbsorbed(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("bad.exe", "good.pdf"), model.CategoryGeneral)

	files := m.Files()
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want a record per input", len(files))
	}

	// Head is good.pdf (uploaded second), tail is the failure
	failed := files[1]
	if failed.Name != "bad.exe" {
		t.Fatalf("failed record = %+v", failed)
	}
	if failed.Success || failed.ProcessingStatus != model.StatusFailed {
		t.Errorf("failure not recorded: success=%v status=%q", failed.Success, failed.ProcessingStatus)
	}
	if failed.HasDocumentID() {
		t.Errorf("failed record carries document id %q", failed.DocumentID)
	}

	// Failed is terminal: no timer may flip it later
	time.Sleep(100 * time.Millisecond)
	got, _ := m.Get(failed.ID)
	if got.ProcessingStatus != model.StatusFailed {
		t.Errorf("failed record transitioned to %q", got.ProcessingStatus)
	}
}

func TestManager_UploadFiles_InvalidCategoryFallsBack(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.FileCategory("bogus"))

	if got := m.Files()[0].Category; got != model.CategoryGeneral {
		t.Errorf("category = %q, want fallback %q", got, model.CategoryGeneral)
	}
}

func TestManager_CompletionKeyedByID_SurvivesDeletes(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf", "b.pdf", "c.pdf"), model.CategoryGeneral)

	files := m.Files() // [c, b, a]
	target := files[1] // b.pdf

	// Delete the records around the target before the timers fire
	m.DeleteFile(files[0].ID)
	m.DeleteFile(files[2].ID)

	waitForStatus(t, m, target.ID, model.StatusCompleted)

	remaining := m.Files()
	if len(remaining) != 1 || remaining[0].ID != target.ID {
		t.Errorf("remaining = %+v", remaining)
	}
}

func TestManager_CompletionOfDeletedRecordIsNoOp(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryGeneral)
	id := m.Files()[0].ID

	m.DeleteFile(id)
	time.Sleep(100 * time.Millisecond)

	if len(m.Files()) != 0 {
		t.Errorf("deleted record resurfaced: %+v", m.Files())
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestManager_DeleteFile_LocalOnly(t *testing.T) {
	m, _, deletes := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryGeneral)
	id := m.Files()[0].ID

	m.DeleteFile(id)

	if len(m.Files()) != 0 {
		t.Error("record not removed")
	}
	if atomic.LoadInt32(deletes) != 0 {
		t.Error("local delete reached the backend")
	}
}

func TestManager_DeleteFromKnowledgeBase_RemoteSuccess(t *testing.T) {
	m, _, deletes := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryGeneral)
	id := m.Files()[0].ID

	if !m.DeleteFileFromKnowledgeBase(context.Background(), id) {
		t.Fatal("remote delete returned false")
	}
	if len(m.Files()) != 0 {
		t.Error("record not removed after remote delete")
	}
	if atomic.LoadInt32(deletes) != 1 {
		t.Errorf("backend delete calls = %d, want 1", atomic.LoadInt32(deletes))
	}
}

func TestManager_DeleteFromKnowledgeBase_RemoteFailureKeepsRecord(t *testing.T) {
	m, st, _ := newTestManager(t)

	// Seed a record whose document id triggers a backend delete failure
	rec := model.NewUploadedFile("held.pdf", 10, model.CategoryGeneral, "locked-1")
	data, _ := json.Marshal([]model.UploadedFile{rec})
	if err := st.Save(store.CollectionUploadedFiles, data); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.Load()

	if m.DeleteFileFromKnowledgeBase(context.Background(), rec.ID) {
		t.Fatal("failed remote delete returned true")
	}

	if _, ok := m.Get(rec.ID); !ok {
		t.Error("record removed despite backend failure")
	}
}

func TestManager_DeleteFromKnowledgeBase_NoDocumentID(t *testing.T) {
	m, _, deletes := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("bad.exe"), model.CategoryGeneral)
	id := m.Files()[0].ID

	if !m.DeleteFileFromKnowledgeBase(context.Background(), id) {
		t.Fatal("delete of uncorrelated record returned false")
	}
	if len(m.Files()) != 0 {
		t.Error("record not removed")
	}
	if atomic.LoadInt32(deletes) != 0 {
		t.Error("uncorrelated record triggered a backend delete")
	}
}

func TestManager_DeleteFromKnowledgeBase_UnknownID(t *testing.T) {
	m, _, _ := newTestManager(t)

	if m.DeleteFileFromKnowledgeBase(context.Background(), "missing") {
		t.Error("delete of unknown id returned true")
	}
}

// =============================================================================
// CATEGORY TESTS
// =============================================================================

func TestManager_GetByCategory(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryTechnical)
	m.UploadFiles(context.Background(), inputs("b.pdf"), model.CategoryResearch)

	if got := m.GetByCategory(model.CategoryTechnical); len(got) != 1 || got[0].Name != "a.pdf" {
		t.Errorf("technical = %+v", got)
	}
	if got := m.GetByCategory(model.CategoryAll); len(got) != 2 {
		t.Errorf("all = %d records, want 2", len(got))
	}
	if got := m.GetByCategory(model.CategoryBusiness); len(got) != 0 {
		t.Errorf("business = %+v, want empty", got)
	}
}

func TestManager_UpdateCategory(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.UploadFiles(context.Background(), inputs("a.pdf"), model.CategoryGeneral)
	id := m.Files()[0].ID

	m.UpdateCategory(id, model.CategoryResearch)
	if f, _ := m.Get(id); f.Category != model.CategoryResearch {
		t.Errorf("category = %q", f.Category)
	}

	// Invalid categories are rejected, including the all filter
	m.UpdateCategory(id, model.CategoryAll)
	m.UpdateCategory(id, "bogus")
	if f, _ := m.Get(id); f.Category != model.CategoryResearch {
		t.Errorf("invalid update changed category to %q", f.Category)
	}
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestManager_Load_AdoptsPersistedCollection(t *testing.T) {
	m, st, _ := newTestManager(t)

	rec := model.NewUploadedFile("kept.pdf", 42, model.CategoryBusiness, "doc-kept")
	data, _ := json.Marshal([]model.UploadedFile{rec})
	if err := st.Save(store.CollectionUploadedFiles, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m.Load()

	got, ok := m.Get(rec.ID)
	if !ok || got.Name != "kept.pdf" || got.DocumentID != "doc-kept" {
		t.Errorf("adopted record = %+v, %v", got, ok)
	}
}

func TestManager_Load_CorruptSnapshotYieldsEmpty(t *testing.T) {
	m, st, _ := newTestManager(t)

	if err := st.Save(store.CollectionUploadedFiles, []byte("[broken")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	m.Load()

	if len(m.Files()) != 0 {
		t.Errorf("files = %+v, want empty after corrupt snapshot", m.Files())
	}
}
