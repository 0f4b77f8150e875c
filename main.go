// tatvax - a terminal client for the TatvaX multilingual learning assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/tatvax-tui/internal/cli"
	"github.com/jeranaias/tatvax-tui/internal/ui/chat"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCommand(cli.RootOptions{RunTUI: runTUI})
	code := cli.Execute(ctx, root, os.Stderr)
	stop()
	os.Exit(code)
}

// runTUI starts the full-screen interface when tatvax runs without a
// subcommand on a terminal.
func runTUI(ctx context.Context, app *cli.App) error {
	if err := cli.RequiresTTY("start the interface"); err != nil {
		return cli.NewCommandError("tatvax", "a terminal is required; use 'tatvax ask' in scripts", cli.ExitUsageError, err)
	}
	cfg := app.Config
	return chat.Run(ctx, chat.Options{
		Controller:     app.Controller,
		Player:         app.Player,
		Markdown:       app.Markdown,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Logger:         app.Logger,
		NoticeDuration: cfg.UI.NoticeDuration(),
		ShowTimestamps: cfg.UI.ShowTimestamps,
	}, app.ConfigPath)
}
