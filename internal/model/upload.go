// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and uploaded documents.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE CATEGORY
// =============================================================================

// FileCategory classifies an uploaded document.
type FileCategory string

const (
	CategoryGeneral   FileCategory = "general"
	CategoryTechnical FileCategory = "technical"
	CategoryBusiness  FileCategory = "business"
	CategoryResearch  FileCategory = "research"
	CategoryOther     FileCategory = "other"

	// CategoryAll is a filter value, not a storable category.
	CategoryAll FileCategory = "all"
)

// Categories lists every storable category, in display order.
func Categories() []FileCategory {
	return []FileCategory{
		CategoryGeneral,
		CategoryTechnical,
		CategoryBusiness,
		CategoryResearch,
		CategoryOther,
	}
}

// Valid reports whether c is a storable category.
func (c FileCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryTechnical, CategoryBusiness, CategoryResearch, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of the category.
func (c FileCategory) String() string {
	return string(c)
}

// =============================================================================
// PROCESSING STATUS
// =============================================================================

// ProcessingStatus is the client-side view of a document's backend ingestion
// stage. Status only moves forward: processing -> completed, or the terminal
// failed branch entered directly at insertion time. The pending value is
// declared for completeness but never entered by the upload manager.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// String returns the string representation of the status.
func (s ProcessingStatus) String() string {
	return string(s)
}

// Terminal reports whether the status admits no further transitions.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a forward move.
func (s ProcessingStatus) CanTransition(next ProcessingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCompleted || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// =============================================================================
// UPLOADED FILE
// =============================================================================

// UploadedFile is the local record of a document submitted to the backend.
// ID is generated locally and never changes; DocumentID is the backend's
// identifier, set exactly once on successful upload and absent on failure.
type UploadedFile struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Size             int64            `json:"size"`
	UploadDate       time.Time        `json:"upload_date"`
	Success          bool             `json:"success"`
	Category         FileCategory     `json:"category"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	DocumentID       string           `json:"document_id,omitempty"`
}

// NewUploadedFile creates a record for a successfully uploaded document.
func NewUploadedFile(name string, size int64, category FileCategory, documentID string) UploadedFile {
	return UploadedFile{
		ID:               uuid.New().String(),
		Name:             name,
		Size:             size,
		UploadDate:       time.Now(),
		Success:          true,
		Category:         category,
		ProcessingStatus: StatusProcessing,
		DocumentID:       documentID,
	}
}

// NewFailedUpload creates a record for an upload the backend rejected or
// that never reached it. Failed records carry no document id.
func NewFailedUpload(name string, size int64, category FileCategory) UploadedFile {
	return UploadedFile{
		ID:               uuid.New().String(),
		Name:             name,
		Size:             size,
		UploadDate:       time.Now(),
		Success:          false,
		Category:         category,
		ProcessingStatus: StatusFailed,
	}
}

// HasDocumentID reports whether the record is correlated with a remote
// document.
func (f UploadedFile) HasDocumentID() bool {
	return f.DocumentID != ""
}
