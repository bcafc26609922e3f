// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and uploaded documents.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CITATION TYPE
// =============================================================================

// Citation is a retrieved text fragment with provenance, attached to an
// assistant message. Metadata commonly carries "filename" and, for paged
// documents, "page_number".
type Citation struct {
	ChunkID    string         `json:"chunk_id"`
	DocumentID string         `json:"document_id"`
	Text       string         `json:"text"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Filename returns the source filename from the citation metadata, if any.
func (c Citation) Filename() string {
	if name, ok := c.Metadata["filename"].(string); ok {
		return name
	}
	return ""
}

// PageNumber returns the page number from the citation metadata and whether
// one was present. JSON numbers decode as float64.
func (c Citation) PageNumber() (int, bool) {
	switch v := c.Metadata["page_number"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Clone returns a copy with its own Metadata map. Metadata values are
// decoded JSON scalars, so a one-level copy is sufficient.
func (c Citation) Clone() Citation {
	out := c
	if c.Metadata != nil {
		out.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Retrieval context (for assistant messages)
	Sources         []Citation `json:"sources,omitempty"`
	ExpandedQueries []string   `json:"expanded_queries,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with retrieval context.
func NewAssistantMessage(content string, sources []Citation, expanded []string) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Sources = sources
	msg.ExpandedQueries = expanded
	return msg
}

// Clone returns a copy whose Sources, ExpandedQueries, and citation
// metadata maps do not alias the receiver's.
func (m Message) Clone() Message {
	out := m
	if m.Sources != nil {
		out.Sources = make([]Citation, len(m.Sources))
		for i, s := range m.Sources {
			out.Sources[i] = s.Clone()
		}
	}
	if m.ExpandedQueries != nil {
		out.ExpandedQueries = append([]string(nil), m.ExpandedQueries...)
	}
	return out
}

// HasSources returns true if the message carries citation records.
func (m Message) HasSources() bool {
	return len(m.Sources) > 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
