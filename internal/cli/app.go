// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/api"
	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/render"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// GlobalFlags are the persistent flags of the root command.
type GlobalFlags struct {
	ConfigPath string
	ServerURL  string
	Language   string
	NoColor    bool
}

// LoadConfig loads the config file (the one named by --config, or the
// default location) and applies flag overrides. A broken default config
// file is reported through warn and replaced by defaults; a broken explicit
// file is an error.
func LoadConfig(flags GlobalFlags, warn func(string)) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFromPath(flags.ConfigPath)
		if err != nil {
			return nil, NewCommandError("--config", flags.ConfigPath, ExitConfigError, err)
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil && warn != nil {
			warn(fmt.Sprintf("using defaults: %v", err))
		}
	}

	if flags.ServerURL != "" {
		cfg.Server.URL = flags.ServerURL
	}
	if flags.Language != "" {
		code, err := i18n.Normalize(flags.Language)
		if err != nil {
			return nil, NewCommandError("--lang", flags.Language, ExitUsageError, err)
		}
		cfg.Session.Language = code
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// APP
// =============================================================================

// App holds the wired components shared by the TUI, the REPL and the
// one-shot commands.
type App struct {
	Version string
	Config  *config.Config
	// ConfigPath is the file Config was read from, or "" for defaults.
	ConfigPath string
	Logger     *zap.Logger

	Client     *api.Client
	Controller *controller.Controller
	Player     *playback.Coordinator
	Markdown   *render.Terminal
	Printer    *Printer

	Out    io.Writer
	ErrOut io.Writer
}

// NewApp builds the API client, controller and playback coordinator from cfg.
func NewApp(cfg *config.Config, logger *zap.Logger, version string, out, errOut io.Writer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := controller.DefaultUserAgent(version)

	client := api.NewClient(cfg.Server.URL).
		WithTimeout(cfg.Server.Timeout()).
		WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst).
		WithMaxResponseSize(cfg.Server.MaxResponseBytes).
		WithUserAgent(userAgent).
		WithLogger(logger)

	ctrl := controller.New(client, controller.Options{
		Language:           cfg.Session.Language,
		FeedbackCloseDelay: cfg.UI.FeedbackCloseDelay(),
		UserAgent:          userAgent,
	}, logger)

	player := playback.New(client, playback.Options{
		PollInterval:  cfg.Audio.PollInterval(),
		MaxDuration:   cfg.Audio.MaxDuration(),
		ErrorRecovery: cfg.Audio.ErrorRecovery(),
	}, logger)

	markdown := render.NewTerminal(MarkdownStyle(cfg.UI.Theme))
	width := GetTerminalWidth()
	if cfg.UI.WordWrap > 0 && cfg.UI.WordWrap < width {
		width = cfg.UI.WordWrap
	}

	return &App{
		Version:    version,
		Config:     cfg,
		Logger:     logger,
		Client:     client,
		Controller: ctrl,
		Player:     player,
		Markdown:   markdown,
		Printer:    NewPrinter(out, errOut, markdown, width),
		Out:        out,
		ErrOut:     errOut,
	}
}

// Close stops background playback tracking.
func (a *App) Close() {
	a.Player.Close()
}

// Connect runs the startup bootstrap and fails when the server is
// unreachable.
func (a *App) Connect(ctx context.Context) error {
	a.Controller.Bootstrap(ctx)
	a.Controller.Notifications()
	if !a.Controller.Connected() {
		return NewCommandError("connect", controller.MsgConnectFailure+" at "+a.Client.BaseURL(), ExitNetworkError, nil)
	}
	return nil
}

// WaitForPlayback blocks until the coordinator leaves Loading/Playing or
// ctx is done.
func (a *App) WaitForPlayback(ctx context.Context) playback.Snapshot {
	done := make(chan playback.Snapshot, 1)
	unsubscribe := a.Player.Subscribe(func(s playback.Snapshot) {
		if s.State == playback.StateIdle || s.State == playback.StateError {
			select {
			case done <- s:
			default:
			}
		}
	})
	defer unsubscribe()

	if s := a.Player.Snapshot(); s.State == playback.StateIdle || s.State == playback.StateError {
		return s
	}
	select {
	case s := <-done:
		return s
	case <-ctx.Done():
		return a.Player.Snapshot()
	}
}
