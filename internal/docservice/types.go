// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docservice provides the HTTP client for the document backend.
package docservice

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// UploadMetadata is the JSON payload sent in the multipart "metadata" field
// alongside the file bytes.
type UploadMetadata struct {
	Category string `json:"category"`
}

// DocumentResponse is the backend's response to upload and document-info
// requests.
type DocumentResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
}

// FileEntry is one document in the backend's file listing.
type FileEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileListResponse is the backend's response to a listing request.
type FileListResponse struct {
	Files      []FileEntry `json:"files"`
	TotalFiles int         `json:"total_files"`
}

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatMessage is a role/content pair in the chat history wire format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChunkResponse is a retrieved text chunk returned with a chat reply.
// Metadata may include "filename", "file_type", and "page_number".
type ChunkResponse struct {
	DocumentID string         `json:"document_id"`
	ChunkID    string         `json:"chunk_id"`
	Text       string         `json:"text"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ChatRequest asks the backend to answer a message with retrieval.
type ChatRequest struct {
	Message         string        `json:"message"`
	History         []ChatMessage `json:"history,omitempty"`
	TopK            int           `json:"top_k,omitempty"`
	Model           string        `json:"model,omitempty"`
	Temperature     float64       `json:"temperature"`
	MetaInformation string        `json:"meta_information,omitempty"`
}

// ChatResponse is the backend's answer plus its retrieval context.
type ChatResponse struct {
	Message         ChatMessage     `json:"message"`
	Chunks          []ChunkResponse `json:"chunks"`
	ExpandedQueries []string        `json:"expanded_queries"`
	Success         bool            `json:"success"`
}

// =============================================================================
// ERROR WIRE FORMAT
// =============================================================================

// backendError is the backend's error body ({"detail": "..."}).
type backendError struct {
	Detail string `json:"detail"`
}
