// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// =============================================================================
// ASK
// =============================================================================

type askResult struct {
	Query     string `json:"query"`
	Response  string `json:"response"`
	AudioFile string `json:"audio_file,omitempty"`
	Mode      string `json:"mode"`
	Subject   string `json:"subject,omitempty"`
	Language  string `json:"language"`
}

func askCmd(e *env) *cobra.Command {
	var (
		subject  string
		play     bool
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Long: `Ask a single question. Without --subject the question goes to the
institutional assistant; with --subject it goes to that subject's tutor.

Examples:
  tatvax ask "What are the library hours?"
  tatvax ask --subject mathematics "What is a derivative?"
  tatvax ask -l hi --subject physics "गुरुत्वाकर्षण क्या है?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			ctx := cmd.Context()
			question := strings.Join(args, " ")

			return OutputJSON(app.Out, jsonMode, "ask", func() (interface{}, error) {
				if err := app.Connect(ctx); err != nil {
					return nil, err
				}
				if err := openChat(app.Controller, subject); err != nil {
					return nil, err
				}

				reply, err := app.Controller.SendText(ctx, question)
				if err != nil {
					return nil, err
				}
				// A failed request still appends the fixed failure reply but
				// records no exchange.
				if reply == nil || len(app.Controller.History()) == 0 {
					reason := "request failed"
					if reply != nil {
						reason = reply.Content
					}
					return nil, NewCommandError("ask", reason, ExitServerError, nil)
				}

				s := app.Controller.Session()
				res := askResult{
					Query:     question,
					Response:  reply.Content,
					AudioFile: reply.AudioRef,
					Mode:      s.Mode().String(),
					Subject:   s.Subject(),
					Language:  s.Language(),
				}
				if !jsonMode {
					app.Printer.Markdown(reply.Content)
				}
				if play && reply.HasAudio() {
					if err := playAndWait(cmd, app, reply.AudioRef); err != nil && !jsonMode {
						app.Printer.Warn("audio playback failed: " + err.Error())
					}
				}
				return res, nil
			})
		}),
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject key (see 'tatvax subjects')")
	cmd.Flags().BoolVar(&play, "play", false, "play the spoken answer on the server and wait for it")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

// openChat enters institutional mode, or subjects mode with the given
// subject selected.
func openChat(c *controller.Controller, subject string) error {
	if subject == "" {
		return c.EnterMode(session.ModeInstitutional)
	}
	if err := c.EnterMode(session.ModeSubjects); err != nil {
		return err
	}
	return c.SelectSubject(subject)
}

func playAndWait(cmd *cobra.Command, app *App, ref string) error {
	if err := app.Player.Play(cmd.Context(), ref); err != nil {
		return err
	}
	if snap := app.WaitForPlayback(cmd.Context()); snap.State == playback.StateError {
		return snap.Err
	}
	return nil
}

// =============================================================================
// TRANSLATE
// =============================================================================

func translateCmd(e *env) *cobra.Command {
	var (
		from     string
		to       string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text between supported languages",
		Long: `Translate text. The source language defaults to the session language.

Examples:
  tatvax translate --to hi "hello"
  tatvax translate --from ta --to en "வணக்கம்"`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			if from == "" {
				from = app.Config.Session.Language
			}
			return OutputJSON(app.Out, jsonMode, "translate", func() (interface{}, error) {
				res, err := app.Controller.Translate(cmd.Context(), strings.Join(args, " "), from, to)
				if err != nil {
					return nil, err
				}
				if res.Failed {
					return nil, NewCommandError("translate", res.Text, ExitServerError, nil)
				}
				if !jsonMode {
					app.Printer.Field(res.TargetName, res.Text)
				}
				return res, nil
			})
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "source language code")
	cmd.Flags().StringVar(&to, "to", "", "target language code")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// =============================================================================
// FEEDBACK
// =============================================================================

func feedbackCmd(e *env) *cobra.Command {
	var form controller.FeedbackForm

	cmd := &cobra.Command{
		Use:   "feedback <message>",
		Short: "Send feedback to the TatvaX team",
		Example: `  tatvax feedback --rating 5 "Very helpful for exam prep"
  tatvax feedback --name Asha --email asha@example.org "The Tamil voice is unclear"`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			form.Message = strings.Join(args, " ")
			res, err := app.Controller.SubmitFeedback(cmd.Context(), form)
			if err != nil {
				return err
			}
			if !res.OK {
				return NewCommandError("feedback", res.Message, ExitCode(res.Err), nil)
			}
			app.Printer.Success(res.Message)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&form.Rating, "rating", "r", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "your email")
	return cmd
}

// =============================================================================
// CLEAR
// =============================================================================

func clearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Ask the server to forget the conversation",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			if !app.Controller.ClearSession(cmd.Context()) {
				return NewCommandError("clear", controller.MsgClearFailure, ExitServerError, nil)
			}
			app.Printer.Success(controller.MsgClearSuccess)
			return nil
		}),
	}
}

// =============================================================================
// SUBJECTS / LANGUAGES
// =============================================================================

type subjectRow struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

func subjectsCmd(e *env) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List the subjects offered by the server",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			return OutputJSON(app.Out, jsonMode, "subjects", func() (interface{}, error) {
				if err := app.Connect(cmd.Context()); err != nil {
					return nil, err
				}
				var rows []subjectRow
				for _, s := range app.Controller.Subjects() {
					rows = append(rows, subjectRow{Key: s.Key, Name: s.Name, Description: s.Description, Icon: s.Icon})
				}
				if !jsonMode {
					app.Printer.Title("Subjects")
					for _, s := range rows {
						app.Printer.Field(s.Key, strings.TrimSpace(s.Icon+" "+s.Name))
						if s.Description != "" {
							app.Printer.Line("%s %s", strings.Repeat(" ", 18), s.Description)
						}
					}
				}
				return rows, nil
			})
		}),
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

type languageRow struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

func languagesCmd(e *env) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			return OutputJSON(app.Out, jsonMode, "languages", func() (interface{}, error) {
				current := app.Controller.Language()
				var rows []languageRow
				for _, l := range app.Controller.Languages() {
					rows = append(rows, languageRow{Code: l.Code, Name: l.Name, Current: l.Code == current})
				}
				if !jsonMode {
					app.Printer.Title("Languages")
					for _, r := range rows {
						marker := ""
						if r.Current {
							marker = " (current)"
						}
						app.Printer.Field(r.Code, r.Name+marker)
					}
				}
				return rows, nil
			})
		}),
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

// =============================================================================
// STATUS
// =============================================================================

type statusReport struct {
	Server            string   `json:"server"`
	Connected         bool     `json:"connected"`
	Version           string   `json:"version,omitempty"`
	AudioPlaying      bool     `json:"audio_playing"`
	ConversationCount int      `json:"conversation_count"`
	Languages         []string `json:"supported_languages,omitempty"`
	Error             string   `json:"error,omitempty"`
}

func statusCmd(e *env) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"s"},
		Short:   "Show backend status",
		Args:    cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			app := e.app
			report := statusReport{Server: app.Client.BaseURL()}
			status, err := app.Client.Status(cmd.Context())
			if err == nil {
				report.Connected = true
				report.Version = status.Version
				report.AudioPlaying = status.AudioPlaying
				report.ConversationCount = status.ConversationCount
				report.Languages = append([]string(nil), status.Languages...)
				sort.Strings(report.Languages)
			} else {
				report.Error = err.Error()
			}

			if jsonMode {
				if werr := NewJSONResponse("status", report).Write(app.Out); werr != nil {
					return werr
				}
			} else {
				p := app.Printer
				p.Title("TatvaX Status")
				p.Field("Server", report.Server)
				if report.Connected {
					p.Field("Connection", successColor.Sprint("connected"))
					if report.Version != "" {
						p.Field("Version", render.EscapeTerminal(report.Version))
					}
					p.Field("Audio playing", fmt.Sprintf("%t", report.AudioPlaying))
					p.Field("Conversations", fmt.Sprintf("%d", report.ConversationCount))
					if len(report.Languages) > 0 {
						p.Field("Languages", render.EscapeTerminal(strings.Join(report.Languages, ", ")))
					}
				} else {
					p.Field("Connection", errorColor.Sprint("unreachable"))
				}
			}
			if err != nil {
				if jsonMode {
					return fmt.Errorf("status: %w", errors.Join(errReported, err))
				}
				return err
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

// =============================================================================
// VERSION
// =============================================================================

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			p := e.app.Printer
			p.Line("tatvax %s", Version)
			p.Field("Commit", GitCommit)
			p.Field("Built", BuildDate)
			p.Field("Go", runtime.Version())
			p.Field("Platform", runtime.GOOS+"/"+runtime.GOARCH)
			var codes []string
			for _, l := range i18n.Supported() {
				codes = append(codes, l.Code)
			}
			p.Field("Languages", strings.Join(codes, ", "))
			return nil
		}),
	}
}
