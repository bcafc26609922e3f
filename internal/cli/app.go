// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring for ragdesk CLI commands.
//
// Every command needs the same stack: configuration, a durable store,
// the backend client, and the three state managers layered on top.
// App builds that stack once and hands it to the command handlers.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/expansionlabs/ragdesk/internal/config"
	"github.com/expansionlabs/ragdesk/internal/docservice"
	"github.com/expansionlabs/ragdesk/internal/kb"
	"github.com/expansionlabs/ragdesk/internal/session"
	"github.com/expansionlabs/ragdesk/internal/store"
	"github.com/expansionlabs/ragdesk/internal/uploads"
)

// App bundles the wired-up managers for one CLI invocation.
type App struct {
	Config   *config.Config
	Store    store.Store
	Client   *docservice.Client
	Sessions *session.Manager
	Uploads  *uploads.Manager
	KB       *kb.Sync

	closeOnce sync.Once
}

// NewApp builds the full stack from configuration.
func NewApp(cfg *config.Config, args Args) (*App, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client := docservice.NewClientWithConfig(&docservice.ClientConfig{
		BaseURL:       cfg.Backend.URL,
		Timeout:       time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		UploadTimeout: time.Duration(cfg.Backend.UploadTimeoutSecs) * time.Second,
	})

	sessions := session.NewManager(st)
	sessions.SetConfirmFunc(ConfirmWith(args.Confirm))
	sessions.Initialize()

	ups := uploads.NewManager(st, client)
	ups.SetCompletionDelay(time.Duration(cfg.Uploads.CompletionDelaySecs) * time.Second)
	ups.Load()

	return &App{
		Config:   cfg,
		Store:    st,
		Client:   client,
		Sessions: sessions,
		Uploads:  ups,
		KB:       kb.NewSync(client),
	}, nil
}

// Close releases the store and cancels pending upload timers. Closing an
// already-closed App is a no-op.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.Uploads != nil {
			a.Uploads.Close()
		}
		if err := a.Store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close store: %v\n", err)
		}
	})
}

// openStore selects the store backend named in the configuration.
func openStore(cfg *config.Config) (store.Store, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		return store.NewSQLiteStoreWithPath(filepath.Join(dataDir, "ragdesk.db"))
	default:
		return store.NewFileStoreWithDir(dataDir)
	}
}
