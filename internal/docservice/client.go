// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docservice provides the HTTP client for the document backend.
package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the document service client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeRejected
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable      = &ClientError{Type: ErrTypeUnreachable, Message: "document service is unreachable"}
	ErrTimeout          = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrDocumentNotFound = &ClientError{Type: ErrTypeNotFound, Message: "document not found"}
)

// IsUnreachable checks if an error indicates the backend is unreachable.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsRejected checks if an error is a backend rejection (the request reached
// the service and was refused).
func IsRejected(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeRejected
	}
	return false
}

// IsNotFound checks if an error is a document-not-found error.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, ErrDocumentNotFound)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the document service client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for metadata requests (default: 30s)
	Timeout time.Duration

	// UploadTimeout for multipart uploads, which can carry large files
	// (default: 2m)
	UploadTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:8000",
		Timeout:       30 * time.Second,
		UploadTimeout: 2 * time.Minute,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the document backend. It wraps the
// upload, delete, and list operations plus the document-info, download, and
// chat endpoints. The Client holds no local state and is safe for
// concurrent use.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	uploadClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = 2 * time.Minute
	}

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		uploadClient: &http.Client{Timeout: config.UploadTimeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload sends file bytes plus category metadata to the backend and returns
// the backend-assigned document information. A 2xx response whose body
// reports success=false is treated as a rejection.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, category string) (*DocumentResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build multipart body", Cause: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read file", Cause: err}
	}

	meta, err := json.Marshal(UploadMetadata{Category: category})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal metadata", Cause: err}
	}
	if err := writer.WriteField("metadata", string(meta)); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build multipart body", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build multipart body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/documents/upload", &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rejection(resp, "upload failed")
	}

	var result DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "backend reported unsuccessful upload"
		}
		return nil, &ClientError{Type: ErrTypeRejected, Message: msg}
	}

	return &result, nil
}

// UploadFile is a convenience wrapper that uploads a file from disk.
func (c *Client) UploadFile(ctx context.Context, path string, category string) (*DocumentResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to open file", Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to stat file", Cause: err}
	}

	resp, err := c.Upload(ctx, info.Name(), f, category)
	if err != nil {
		return nil, err
	}
	if resp.Size == 0 {
		resp.Size = info.Size()
	}
	return resp, nil
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a document from the backend by its document id.
func (c *Client) Delete(ctx context.Context, documentID string) error {
	endpoint := c.config.BaseURL + "/documents/" + url.PathEscape(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrDocumentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return rejection(resp, "delete failed")
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// =============================================================================
// LIST
// =============================================================================

// List retrieves the backend's authoritative inventory of ingested
// documents.
func (c *Client) List(ctx context.Context) (*FileListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/documents/files", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejection(resp, "list failed")
	}

	var result FileListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// DOCUMENT INFO & DOWNLOAD
// =============================================================================

// Get retrieves information about a single document.
func (c *Client) Get(ctx context.Context, documentID string) (*DocumentResponse, error) {
	endpoint := c.config.BaseURL + "/documents/" + url.PathEscape(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDocumentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, rejection(resp, "document info failed")
	}

	var result DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// Download fetches a document's original bytes and writes them to w.
// Returns the number of bytes written.
func (c *Client) Download(ctx context.Context, documentID string, w io.Writer) (int64, error) {
	endpoint := c.config.BaseURL + "/documents/download/" + url.PathEscape(documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, ErrTimeout
		}
		return 0, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrDocumentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, rejection(resp, "download failed")
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read document body", Cause: err}
	}
	return n, nil
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a user message with conversation history to the backend's
// retrieval-augmented chat endpoint.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// Retrieval plus generation can exceed the metadata timeout.
	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejection(resp, "chat request failed")
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// rejection builds a ClientError for a non-success HTTP status, pulling the
// backend's {"detail": ...} message when present.
func rejection(resp *http.Response, context string) *ClientError {
	var be backendError
	if err := json.NewDecoder(resp.Body).Decode(&be); err == nil && be.Detail != "" {
		return &ClientError{
			Type:    ErrTypeRejected,
			Message: fmt.Sprintf("%s: %s", context, be.Detail),
		}
	}
	return &ClientError{
		Type:    ErrTypeRejected,
		Message: context + ": " + resp.Status,
	}
}
