// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docservice provides the HTTP client for the document backend.
//
// The client wraps the backend's document operations (upload, delete, list,
// info, download) and its retrieval-augmented chat endpoint. It holds no
// local state; the state managers in session, uploads, and kb own all
// bookkeeping and absorb this package's errors into their collections.
//
// Errors are categorized by ErrorType so callers can distinguish transport
// failures (the backend was never reached) from backend rejections (the
// backend refused the request).
package docservice
