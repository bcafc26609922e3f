// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and uploaded documents.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, timestamp, and citations
//   - Citation: Retrieved text fragment with provenance attached to a reply
//   - UploadedFile: Local record of a document submitted to the backend
//   - KnowledgeBaseFile: Derived view of a backend-ingested document
//
// # Usage
//
// Create a new conversation and add a message:
//
//	conv := model.NewConversation()
//	conv.AddMessage(model.NewUserMessage("What does the contract say?"))
//
// The first user message determines the conversation title; later messages
// never change it.
package model
