// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions configures NewRootCommand.
type RootOptions struct {
	// RunTUI starts the full-screen interface. It runs when tatvax is called
	// without a subcommand.
	RunTUI func(ctx context.Context, app *App) error

	// Out and ErrOut default to os.Stdout and os.Stderr.
	Out    io.Writer
	ErrOut io.Writer

	// NoLogFile keeps the logger a no-op instead of opening the log file.
	NoLogFile bool
}

// env is the state shared by the commands of one invocation.
type env struct {
	opts  RootOptions
	flags GlobalFlags
	app   *App
}

// NewRootCommand builds the tatvax command tree.
func NewRootCommand(opts RootOptions) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:   "tatvax",
		Short: "TatvaX multilingual learning assistant",
		Long: `TatvaX: a multilingual learning and campus assistant for the terminal.

Usage modes:
  tatvax              Start the full-screen interface
  tatvax chat         Line-based chat with history
  tatvax <command>    Run a single command (see below)

The backend URL defaults to http://localhost:5000 and can be set with
--server, TATVAX_SERVER_URL or server.url in ~/.tatvax/config.toml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			if e.opts.RunTUI == nil {
				return chatREPL(cmd.Context(), e.app, replOptions{})
			}
			return e.opts.RunTUI(cmd.Context(), e.app)
		}),
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewCommandError(cmd.CommandPath(), "invalid flags", ExitUsageError, err)
	})
	root.SetOut(opts.Out)
	root.SetErr(opts.ErrOut)
	root.SetVersionTemplate("tatvax {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&e.flags.ConfigPath, "config", "", "config file (default ~/.tatvax/config.toml)")
	pf.StringVarP(&e.flags.ServerURL, "server", "s", "", "backend base URL")
	pf.StringVarP(&e.flags.Language, "lang", "l", "", "language code (en, hi, ta, te, bn, mr, gu, kn)")
	pf.BoolVar(&e.flags.NoColor, "no-color", false, "disable colored output")

	root.AddGroup(
		&cobra.Group{ID: "chat", Title: "Chat:"},
		&cobra.Group{ID: "info", Title: "Information:"},
		&cobra.Group{ID: "settings", Title: "Settings:"},
	)

	for _, c := range []*cobra.Command{chatCmd(e), askCmd(e), translateCmd(e), feedbackCmd(e), clearCmd(e)} {
		c.GroupID = "chat"
		root.AddCommand(c)
	}
	for _, c := range []*cobra.Command{subjectsCmd(e), languagesCmd(e), statusCmd(e), versionCmd(e)} {
		c.GroupID = "info"
		root.AddCommand(c)
	}
	cfgCmd := configCmd(e)
	cfgCmd.GroupID = "settings"
	root.AddCommand(cfgCmd)

	return root
}

// setup loads configuration, starts logging and wires the app.
func (e *env) setup(cmd *cobra.Command) error {
	if e.flags.NoColor {
		ForceColorsEnabled(false)
	} else {
		SetupColor()
	}

	printer := NewPrinter(e.opts.Out, e.opts.ErrOut, nil, 0)
	cfg, err := LoadConfig(e.flags, printer.Warn)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if !e.opts.NoLogFile {
		if err := logging.Init(cfg.Log); err != nil {
			printer.Warn("logging disabled: " + err.Error())
		} else {
			logger = logging.L()
		}
	}
	logger.Info("starting", zap.String("command", cmd.Name()), zap.String("version", Version), zap.String("server", cfg.Server.URL))

	e.app = NewApp(cfg, logger, Version, e.opts.Out, e.opts.ErrOut)
	e.app.ConfigPath = e.flags.ConfigPath
	if e.app.ConfigPath == "" {
		e.app.ConfigPath = config.FindConfigFile()
	}
	return nil
}

// wrap releases the app after fn returns, whether or not it failed. Cobra
// skips post-run hooks on error, so teardown cannot live there.
func (e *env) wrap(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.teardown()
		return fn(cmd, args)
	}
}

func (e *env) teardown() {
	if e.app != nil {
		e.app.Close()
		e.app = nil
	}
	if !e.opts.NoLogFile {
		_ = logging.Close()
	}
}

// Execute runs the root command with ctx and returns the process exit code.
// Errors not yet shown are printed to errOut.
func Execute(ctx context.Context, root *cobra.Command, errOut io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if !IsReported(err) {
		NewPrinter(errOut, errOut, nil, 0).Error(err.Error())
	}
	return ExitCode(err)
}
