// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and uploaded documents.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/expansionlabs/ragdesk/internal/util"
)

// DefaultTitle is the fallback title for conversations without a usable one.
const DefaultTitle = "New Chat"

// TitleRuneLimit is the maximum number of runes taken from the first user
// message when deriving a conversation title.
const TitleRuneLimit = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	// Identity
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`

	// Messages
	Messages []Message `json:"messages"`

	// Free-form context sent alongside chat requests (optional)
	MetaInformation string `json:"meta_information,omitempty"`
}

// NewConversation creates a new conversation with a generated ID, the
// default title placeholder, and no messages.
func NewConversation() *Conversation {
	return &Conversation{
		ID:          generateConversationID(),
		Title:       DefaultTitle,
		LastUpdated: time.Now(),
		Messages:    make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes LastUpdated. If this is the
// first message and it came from the user, the title is derived from its
// content. Subsequent messages never re-title the conversation.
func (c *Conversation) AddMessage(msg Message) {
	first := len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	c.LastUpdated = time.Now()

	if first && msg.Role == RoleUser {
		c.Title = DeriveTitle(msg.Content)
	}
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// ClearHistory resets the conversation to a fresh state without changing
// its identity: no messages, default title, LastUpdated now.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]Message, 0)
	c.Title = DefaultTitle
	c.LastUpdated = time.Now()
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// SetTitle sets the conversation title, falling back to the default when the
// given title is empty after trimming.
func (c *Conversation) SetTitle(title string) {
	if strings.TrimSpace(title) == "" {
		c.Title = DefaultTitle
		return
	}
	c.Title = title
}

// SetMetaInformation replaces the conversation's meta information verbatim.
func (c *Conversation) SetMetaInformation(text string) {
	c.MetaInformation = text
}

// DeriveTitle builds a title from message content: the first TitleRuneLimit
// runes, with a single ellipsis rune appended when the content is longer.
// Empty-after-trim content yields the default title.
func DeriveTitle(content string) string {
	if strings.TrimSpace(content) == "" {
		return DefaultTitle
	}
	if util.RuneLen(content) <= TitleRuneLimit {
		return content
	}
	return util.TruncateRunesNoEllipsis(content, TitleRuneLimit) + "…"
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// Clone creates a deep copy of the conversation. Messages, their citation
// records, and expanded-query slices are all copied, so mutations to the
// clone never reach the original. This keeps snapshot persistence safe
// against later in-place edits.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:              c.ID,
		Title:           c.Title,
		LastUpdated:     c.LastUpdated,
		MetaInformation: c.MetaInformation,
		Messages:        make([]Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
