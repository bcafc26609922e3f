// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploads provides the upload lifecycle manager.
//
// A record's status machine is small and forward-only:
//
//	processing -> completed   (timer-driven, scheduled at insertion)
//	failed                    (terminal, entered directly on upload error)
//
// The pending status declared in the model is never entered here; records
// go straight to processing on success or failed on error. Failed records
// always have Success=false and no document id; they are kept visible so
// the user can re-attempt the upload manually.
//
// The local id is the key for the delayed completion callback; the backend
// document id is the only correlation with remote documents and is set
// exactly once, at successful-upload time.
package uploads
