// ragdesk - terminal client for a retrieval-augmented document chat backend.
//
// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/expansionlabs/ragdesk/internal/cli"
	"github.com/expansionlabs/ragdesk/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

// run owns the process lifecycle so deferred cleanup still executes on the
// error path; main converts its result into the exit status.
func run() int {
	cmd, args := cli.Parse()

	// Commands that need no wiring
	switch cmd {
	case cli.CmdHelp:
		cli.HandleHelp()
		return 0
	case cli.CmdVersion:
		cli.HandleVersion()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cmd == cli.CmdConfig {
		if err := cli.HandleConfig(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	app, err := cli.NewApp(cfg, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.Close()

	switch cmd {
	case cli.CmdChat:
		err = cli.HandleChat(app, args)
	case cli.CmdFiles:
		err = cli.HandleFiles(app, args)
	case cli.CmdKB:
		err = cli.HandleKB(app, args)
	case cli.CmdConvs:
		err = cli.HandleConvs(app, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(app, args)
	case cli.CmdReset:
		err = cli.HandleReset(app, args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
