// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/playback"
)

// =============================================================================
// PROGRAM
// =============================================================================

// Run starts the TUI and blocks until the user quits or ctx ends. Playback
// transitions and config file changes are forwarded into the update loop.
// configPath may be empty, in which case the config file is not watched.
func Run(ctx context.Context, opts Options, configPath string) error {
	if opts.Controller == nil || opts.Player == nil {
		return fmt.Errorf("chat: controller and player are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Context = ctx

	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	unsubscribe := opts.Player.Subscribe(func(s playback.Snapshot) {
		p.Send(PlaybackMsg{Snapshot: s})
	})
	defer unsubscribe()

	if configPath != "" {
		w, err := config.Watch(configPath, opts.Logger, func(cfg *config.Config) {
			p.Send(ConfigReloadedMsg{Config: cfg})
		})
		if err != nil {
			// Hot reload is optional.
			opts.Logger.Warn("config watch unavailable", zap.String("path", configPath), zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal; not a failure.
		return nil
	}
	return err
}
