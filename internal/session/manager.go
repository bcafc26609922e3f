// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation session manager.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/expansionlabs/ragdesk/internal/model"
	"github.com/expansionlabs/ragdesk/internal/store"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// ConfirmFunc asks the surrounding UI layer to confirm a destructive
// action. It must return true only on an affirmative answer.
type ConfirmFunc func(action string) bool

// Manager owns the conversation collection and the "current conversation"
// cursor. After initialization the collection is never empty: deleting the
// last conversation immediately synthesizes a replacement.
//
// Every mutation persists the full collection snapshot to the durable
// store. Persistence failures are absorbed (logged), never propagated.
type Manager struct {
	mu sync.Mutex

	conversations []*model.Conversation
	currentID     string

	// initialized latches the one-time load protocol. Until it is set,
	// persistence writes are suppressed so an empty in-memory collection
	// can never overwrite a not-yet-loaded snapshot.
	initialized bool

	st      store.Store
	confirm ConfirmFunc
}

// NewManager creates a session manager backed by the given store.
func NewManager(st store.Store) *Manager {
	return &Manager{
		conversations: make([]*model.Conversation, 0),
		st:            st,
	}
}

// SetConfirmFunc injects the confirmation capability used by the
// destructive operations. With no func injected the gates are open, which
// is the right default for non-interactive callers and tests.
func (m *Manager) SetConfirmFunc(fn ConfirmFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirm = fn
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// Initialize runs the one-time load protocol: adopt the persisted snapshot
// if present and non-empty, otherwise synthesize a single new conversation.
// The first entry becomes current. Calling Initialize again is a no-op.
//
// A corrupt snapshot falls back to an empty collection rather than failing;
// initialization itself never returns an error for bad stored data. A
// snapshot that fails to read for any other reason also falls back, but
// suppresses the initial persistence write so the stored data survives.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}

	loadFailed := false
	data, err := m.st.Load(store.CollectionConversations)
	switch {
	case err == nil:
		var loaded []*model.Conversation
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr != nil {
			log.Printf("session: discarding corrupt conversation snapshot: %v", jsonErr)
		} else {
			m.conversations = loaded
		}
	case errors.Is(err, store.ErrNotFound):
		// First run: nothing to adopt.
	default:
		// The snapshot may exist but be unreadable right now. Start an
		// in-memory session and skip the initial write so a transient
		// read failure cannot overwrite stored history.
		log.Printf("session: conversation snapshot unreadable: %v", err)
		loadFailed = true
	}

	if len(m.conversations) == 0 {
		m.conversations = []*model.Conversation{model.NewConversation()}
	}
	m.currentID = m.conversations[0].ID
	m.initialized = true
	if !loadFailed {
		m.persistLocked()
	}
}

// Initialized reports whether the load protocol has completed.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// =============================================================================
// READ SURFACE
// =============================================================================

// Conversations returns a snapshot of the collection in insertion order.
// The returned conversations are deep copies; mutating them does not affect
// manager state.
func (m *Manager) Conversations() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Conversation, len(m.conversations))
	for i, c := range m.conversations {
		out[i] = c.Clone()
	}
	return out
}

// CurrentID returns the current conversation id.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Current returns a copy of the current conversation, or nil when the
// cursor references no known entry (possible after selecting an unknown
// id, which the contract deliberately permits).
func (m *Manager) Current() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.findLocked(m.currentID); c != nil {
		return c.Clone()
	}
	return nil
}

// Count returns the number of conversations.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateConversation appends a new conversation, makes it current, and
// returns its id.
func (m *Manager) CreateConversation() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := model.NewConversation()
	m.conversations = append(m.conversations, conv)
	m.currentID = conv.ID
	m.persistLocked()
	return conv.ID
}

// SelectConversation sets the current cursor. The id is not validated:
// selecting an unknown id is permitted and yields a nil Current view.
func (m *Manager) SelectConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentID = id
}

// UpdateTitle sets a conversation's title, falling back to the default
// when the given title is blank.
func (m *Manager) UpdateTitle(id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.findLocked(id); c != nil {
		c.SetTitle(title)
		m.persistLocked()
	}
}

// UpdateMetaInformation replaces a conversation's meta information
// verbatim.
func (m *Manager) UpdateMetaInformation(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.findLocked(id); c != nil {
		c.SetMetaInformation(text)
		m.persistLocked()
	}
}

// AddMessage appends a message to the target conversation and refreshes its
// LastUpdated. The first user message derives the title (see
// model.Conversation.AddMessage).
func (m *Manager) AddMessage(id string, msg model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.findLocked(id); c != nil {
		c.AddMessage(msg)
		m.persistLocked()
	}
}

// DeleteConversation removes a conversation. If it was current, current is
// reassigned to the first remaining entry; if none remain, a new
// conversation is synthesized so the collection never goes empty.
func (m *Manager) DeleteConversation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, c := range m.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.conversations = append(m.conversations[:idx], m.conversations[idx+1:]...)

	if len(m.conversations) == 0 {
		conv := model.NewConversation()
		m.conversations = []*model.Conversation{conv}
		m.currentID = conv.ID
	} else if m.currentID == id {
		m.currentID = m.conversations[0].ID
	}

	m.persistLocked()
}

// ClearAllConversations empties the collection and synthesizes one fresh
// conversation, behind the confirmation gate. Returns true if the clear was
// applied, false if the user declined.
func (m *Manager) ClearAllConversations() bool {
	// The gate may block on user input; run it outside the lock.
	if !m.confirmed("delete all conversations") {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conv := model.NewConversation()
	m.conversations = []*model.Conversation{conv}
	m.currentID = conv.ID
	m.persistLocked()
	return true
}

// ClearCurrentConversation resets the current conversation to an empty
// message history and the default title, behind the confirmation gate. The
// conversation itself is kept. Returns true if applied.
func (m *Manager) ClearCurrentConversation() bool {
	if m.Current() == nil {
		return false
	}

	if !m.confirmed("clear the current conversation") {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.findLocked(m.currentID)
	if c == nil {
		return false
	}
	c.ClearHistory()
	m.persistLocked()
	return true
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ConversationsChangedMsg signals that the collection or cursor changed and
// the rendering layer should re-read the manager.
type ConversationsChangedMsg struct {
	CurrentID string
}

// CreateCmd creates a conversation and emits a change message.
func (m *Manager) CreateCmd() tea.Cmd {
	return func() tea.Msg {
		id := m.CreateConversation()
		return ConversationsChangedMsg{CurrentID: id}
	}
}

// SelectCmd moves the cursor and emits a change message.
func (m *Manager) SelectCmd(id string) tea.Cmd {
	return func() tea.Msg {
		m.SelectConversation(id)
		return ConversationsChangedMsg{CurrentID: id}
	}
}

// DeleteCmd deletes a conversation and emits a change message.
func (m *Manager) DeleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		m.DeleteConversation(id)
		return ConversationsChangedMsg{CurrentID: m.CurrentID()}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// findLocked returns the conversation with the given id, or nil. Must be
// called with the lock held.
func (m *Manager) findLocked(id string) *model.Conversation {
	for _, c := range m.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// confirmed runs the injected confirmation gate, if any.
func (m *Manager) confirmed(action string) bool {
	m.mu.Lock()
	fn := m.confirm
	m.mu.Unlock()

	if fn == nil {
		return true
	}
	return fn(action)
}

// persistLocked writes the full collection snapshot. Suppressed until
// initialization completes. Must be called with the lock held.
func (m *Manager) persistLocked() {
	if !m.initialized {
		return
	}

	data, err := json.Marshal(m.conversations)
	if err != nil {
		log.Printf("session: failed to serialize conversations: %v", err)
		return
	}
	if err := m.st.Save(store.CollectionConversations, data); err != nil {
		log.Printf("session: failed to persist conversations: %v", err)
	}
}
