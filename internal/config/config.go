// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ragdesk.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.ragdesk/config.toml
//   - ~/.ragdesk/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ragdesk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Upload configuration
	Uploads UploadsConfig `toml:"uploads" json:"uploads"`

	// Chat configuration
	Chat ChatConfig `toml:"chat" json:"chat"`
}

// BackendConfig locates the document backend.
type BackendConfig struct {
	// URL is the backend base URL
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds metadata requests (list, delete, info)
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// UploadTimeoutSecs bounds multipart uploads and chat requests
	UploadTimeoutSecs int `toml:"upload_timeout_secs" json:"upload_timeout_secs"`
}

// StorageConfig selects and locates the durable local store.
type StorageConfig struct {
	// Backend is "file" or "sqlite"
	Backend string `toml:"backend" json:"backend"`
	// DataDir is the directory holding local state (empty = ~/.ragdesk/data)
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// UploadsConfig tunes the upload lifecycle manager.
type UploadsConfig struct {
	// CompletionDelaySecs is the delay before a processing record flips to
	// completed. Placeholder for a backend status-polling protocol.
	CompletionDelaySecs int `toml:"completion_delay_secs" json:"completion_delay_secs"`
	// DefaultCategory is used when an upload names no category
	DefaultCategory string `toml:"default_category" json:"default_category"`
}

// ChatConfig tunes retrieval-augmented chat requests.
type ChatConfig struct {
	// TopK is the number of chunks the backend retrieves per query
	TopK int `toml:"top_k" json:"top_k"`
	// Model is the generation model name the backend should use
	Model string `toml:"model" json:"model"`
	// Temperature is the sampling temperature
	Temperature float64 `toml:"temperature" json:"temperature"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:               "http://127.0.0.1:8000",
			TimeoutSecs:       30,
			UploadTimeoutSecs: 120,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Uploads: UploadsConfig{
			CompletionDelaySecs: 3,
			DefaultCategory:     "general",
		},
		Chat: ChatConfig{
			TopK:        3,
			Temperature: 0.0,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default locations, applies environment
// overrides, and validates. A missing config file is not an error; a
// malformed one is.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(dir)
}

// LoadFromDir is Load rooted at a custom directory.
func LoadFromDir(dir string) (*Config, error) {
	cfg := Default()

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
	case fileExists(jsonPath):
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigDir returns the ragdesk configuration directory (~/.ragdesk).
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ragdesk"), nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("RAGDESK_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("RAGDESK_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("RAGDESK_STORE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("RAGDESK_COMPLETION_DELAY_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Uploads.CompletionDelaySecs = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration, clamping recoverable values and
// rejecting unusable ones.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		return fmt.Errorf("invalid backend url %q: %w", c.Backend.URL, err)
	}

	switch c.Storage.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q (want \"file\" or \"sqlite\")", c.Storage.Backend)
	}

	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 30
	}
	if c.Backend.UploadTimeoutSecs <= 0 {
		c.Backend.UploadTimeoutSecs = 120
	}
	if c.Uploads.CompletionDelaySecs < 0 {
		c.Uploads.CompletionDelaySecs = 0
	}
	if c.Chat.TopK <= 0 {
		c.Chat.TopK = 3
	}
	if c.Chat.Temperature < 0 {
		c.Chat.Temperature = 0
	}

	return nil
}

// DataDir returns the resolved data directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ragdesk", "data"), nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration as TOML to the default location.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return c.SaveToDir(dir)
}

// SaveToDir writes the configuration as TOML to a custom directory.
func (c *Config) SaveToDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// =============================================================================
// HELPERS
// =============================================================================

// fileExists returns true if path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
