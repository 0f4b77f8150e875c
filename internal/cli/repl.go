// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/export"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader is the line editor behind the REPL. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

func newLiner() LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)
	return line
}

var replCommands = []string{
	"/help", "/mode", "/subjects", "/subject", "/back", "/home", "/lang",
	"/translate", "/voice", "/play", "/stop", "/clear", "/history",
	"/feedback", "/export", "/status", "/quit",
}

func completeCommand(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

type replOptions struct {
	Subject       string
	Institutional bool
	// Reader overrides the terminal line editor.
	Reader LineReader
}

func chatCmd(e *env) *cobra.Command {
	var opts replOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive line-based chat",
		Long: `Start an interactive chat with line editing and input history.

Type a question to send it. Commands start with a slash; /help lists them.

Examples:
  tatvax chat
  tatvax chat --subject mathematics
  tatvax chat --institutional -l ta`,
		Args: cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			return chatREPL(cmd.Context(), e.app, opts)
		}),
	}
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "start in this subject's chat")
	cmd.Flags().BoolVar(&opts.Institutional, "institutional", false, "start in the institutional assistant")
	return cmd
}

func chatREPL(ctx context.Context, app *App, opts replOptions) error {
	reader := opts.Reader
	if reader == nil {
		if err := RequiresTTY("chat"); err != nil {
			return NewCommandError("chat", "a terminal is required", ExitUsageError, err)
		}
		reader = newLiner()
	}
	defer reader.Close()

	r := &repl{app: app, reader: reader}
	r.connect(ctx)

	switch {
	case opts.Subject != "":
		if err := openChat(app.Controller, opts.Subject); err != nil {
			return err
		}
	case opts.Institutional:
		if err := openChat(app.Controller, ""); err != nil {
			return err
		}
	}

	r.banner()
	return r.run(ctx)
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	app    *App
	reader LineReader
}

func (r *repl) ctrl() *controller.Controller { return r.app.Controller }
func (r *repl) p() *Printer                  { return r.app.Printer }

func (r *repl) connect(ctx context.Context) {
	r.ctrl().Bootstrap(ctx)
	r.flushNotices()
}

func (r *repl) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := r.reader.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.goodbye()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.reader.AppendHistory(input)

		quit, err := r.handle(ctx, input)
		if err != nil {
			r.p().Error(err.Error())
		}
		r.flushNotices()
		if quit {
			r.goodbye()
			return nil
		}
	}
}

func (r *repl) prompt() string {
	s := r.ctrl().Session()
	where := "home"
	switch {
	case s.Subject() != "":
		where = s.Subject()
	case s.Mode() != session.ModeUnset:
		where = s.Mode().String()
	}
	if r.ctrl().Listening() {
		where += " 🎤"
	}
	return fmt.Sprintf("tatvax (%s, %s)> ", where, s.Language())
}

func (r *repl) banner() {
	s := r.ctrl().Session()
	title, subtitle := s.Title()
	r.p().Title(title + " · " + subtitle)
	if r.ctrl().Screen() == session.ScreenChat {
		r.showLast()
		return
	}
	r.p().Line("Pick a mode with /mode subjects or /mode institutional, or /help for all commands.")
}

func (r *repl) goodbye() {
	s := r.ctrl().Session()
	r.p().Line("Goodbye. Session lasted %s.", session.FormatDuration(s.Duration()))
}

// handle runs one input line. It reports whether the REPL should exit.
func (r *repl) handle(ctx context.Context, input string) (bool, error) {
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return true, nil
	}
	if !strings.HasPrefix(input, "/") {
		return false, r.send(ctx, input)
	}

	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]
	c := r.ctrl()

	switch name {
	case "/quit", "/exit", "/q":
		return true, nil
	case "/help", "/h", "/?":
		r.help()
	case "/mode":
		if len(args) != 1 {
			return false, errors.New("usage: /mode subjects|institutional")
		}
		mode, err := session.ParseMode(args[0])
		if err != nil {
			return false, err
		}
		if err := c.EnterMode(mode); err != nil {
			return false, err
		}
		r.afterNavigate()
	case "/subjects":
		r.listSubjects()
	case "/subject":
		if len(args) != 1 {
			return false, errors.New("usage: /subject <key>")
		}
		if err := c.SelectSubject(strings.ToLower(args[0])); err != nil {
			return false, err
		}
		r.afterNavigate()
	case "/back":
		c.NavigateBack()
		r.afterNavigate()
	case "/home":
		c.NavigateHome()
		r.afterNavigate()
	case "/lang", "/language":
		if len(args) == 0 {
			r.listLanguages()
			return false, nil
		}
		if err := c.SetLanguage(args[0]); err != nil {
			return false, err
		}
		r.p().Success("Language: " + c.LanguageName(c.Language()))
	case "/translate", "/tr":
		return false, r.translate(ctx, args)
	case "/voice", "/v":
		return false, r.voice(ctx)
	case "/play":
		return false, r.play(ctx)
	case "/stop":
		if err := r.app.Player.Stop(ctx); err != nil {
			return false, fmt.Errorf("stop audio: %w", err)
		}
		r.p().Success("Audio stopped")
	case "/clear":
		if c.ClearSession(ctx) {
			r.showLast()
		}
	case "/history":
		r.history()
	case "/feedback":
		return false, r.feedback(ctx, args)
	case "/export":
		return false, r.export(args)
	case "/status":
		r.status()
	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (r *repl) send(ctx context.Context, input string) error {
	c := r.ctrl()
	call, err := c.StartText(input)
	if errors.Is(err, controller.ErrNotInChat) {
		return errors.New("no chat is open; use /mode institutional or /subject <key>")
	}
	if err != nil {
		return err
	}
	r.p().Line("%s", labelColor.Sprint(controller.OpSendText.Label()))
	if reply := c.FinishText(call, c.DoText(ctx, call)); reply != nil {
		r.p().Message(reply, r.app.Config.UI.ShowTimestamps)
	}
	return nil
}

func (r *repl) voice(ctx context.Context) error {
	c := r.ctrl()
	call, err := c.StartVoice()
	if errors.Is(err, controller.ErrVoiceStopped) {
		r.p().Line("Voice input stopped.")
		return nil
	}
	if err != nil {
		return err
	}
	r.p().Line("%s", labelColor.Sprint(controller.OpSendVoice.Label()+" speak into the server microphone"))

	before := len(c.Messages())
	c.FinishVoice(call, c.DoVoice(ctx, call))
	for _, m := range c.Messages()[before:] {
		r.p().Message(m, r.app.Config.UI.ShowTimestamps)
	}
	return nil
}

func (r *repl) play(ctx context.Context) error {
	last := r.ctrl().LastAudio()
	if last == nil {
		return playback.ErrNoAudio
	}
	if err := r.app.Player.Play(ctx, last.AudioRef); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	r.p().Success("Playing on the server (/stop to stop)")
	return nil
}

func (r *repl) translate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: /translate <target-lang> <text>")
	}
	c := r.ctrl()
	res, err := c.Translate(ctx, strings.Join(args[1:], " "), c.Language(), args[0])
	if err != nil {
		return err
	}
	if res.Failed {
		r.p().Error(res.Text)
		return nil
	}
	r.p().Field(res.TargetName, res.Text)
	return nil
}

func (r *repl) feedback(ctx context.Context, args []string) error {
	var form controller.FeedbackForm
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			form.Rating = n
			args = args[1:]
		}
	}
	form.Message = strings.Join(args, " ")
	res, err := r.ctrl().SubmitFeedback(ctx, form)
	if err != nil {
		return err
	}
	if !res.OK {
		r.app.Logger.Debug("feedback not accepted", zap.String("message", res.Message))
	}
	return nil
}

func (r *repl) export(args []string) error {
	format := "md"
	open := false
	for _, a := range args {
		if a == "--open" {
			open = true
			continue
		}
		format = a
	}
	c := r.ctrl()
	t := export.NewTranscript(c.Session(), c.Messages(), c.History())
	opts := export.DefaultOptions()
	opts.Theme = r.app.Config.UI.Theme
	opts.OpenAfterExport = open
	path, err := export.ExportFormat(t, format, opts)
	if err != nil {
		if path == "" {
			return err
		}
		r.p().Warn(err.Error())
	}
	r.p().Success("Exported to " + path)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func (r *repl) afterNavigate() {
	s := r.ctrl().Session()
	title, subtitle := s.Title()
	r.p().Title(title + " · " + subtitle)
	switch s.Screen() {
	case session.ScreenSubjects:
		r.listSubjects()
	case session.ScreenChat:
		r.showLast()
	default:
		r.p().Line("Pick a mode with /mode subjects or /mode institutional.")
	}
}

func (r *repl) showLast() {
	msgs := r.ctrl().Messages()
	if len(msgs) > 0 {
		r.p().Message(msgs[len(msgs)-1], r.app.Config.UI.ShowTimestamps)
	}
}

func (r *repl) listSubjects() {
	subjects := r.ctrl().Subjects()
	if len(subjects) == 0 {
		r.p().Warn("No subjects available (is the server reachable?)")
		return
	}
	for _, s := range subjects {
		r.p().Field(s.Key, strings.TrimSpace(s.Icon+" "+s.Name))
	}
	r.p().Line("Choose one with /subject <key>.")
}

func (r *repl) listLanguages() {
	current := r.ctrl().Language()
	for _, l := range r.ctrl().Languages() {
		name := l.Name
		if l.Code == current {
			name += " (current)"
		}
		r.p().Field(l.Code, name)
	}
}

func (r *repl) history() {
	exchanges := r.ctrl().History()
	if len(exchanges) == 0 {
		r.p().Line("No exchanges yet in this chat.")
		return
	}
	for i, ex := range exchanges {
		r.p().Line("%s %s", labelColor.Sprintf("%2d. %s", i+1, ex.Timestamp.Format("15:04")), ex.Query)
	}
}

func (r *repl) status() {
	c := r.ctrl()
	s := c.Session()
	p := r.p()
	p.Field("Session", s.ID())
	p.Field("Server", r.app.Client.BaseURL())
	p.Field("Connected", fmt.Sprintf("%t", c.Connected()))
	if v := c.ServerVersion(); v != "" {
		p.Field("Server version", v)
	}
	p.Field("Screen", s.Screen().String())
	if s.Mode() != session.ModeUnset {
		p.Field("Mode", s.Mode().String())
	}
	if s.Subject() != "" {
		p.Field("Subject", s.SubjectName())
	}
	p.Field("Language", c.LanguageName(s.Language()))
	p.Field("Messages", strconv.Itoa(len(c.Messages())))
	snap := r.app.Player.Snapshot()
	audio := snap.State.String()
	if snap.AudioRef != "" {
		audio += " (" + snap.AudioRef + ")"
	}
	p.Field("Audio", audio)
	p.Field("Session time", session.FormatDuration(s.Duration()))
	p.Field("Idle", session.FormatDuration(s.IdleTime()))
}

func (r *repl) flushNotices() {
	for _, n := range r.ctrl().Notifications() {
		if n.Kind == controller.NoticeError {
			r.p().Error(n.Text)
		} else {
			r.p().Success(n.Text)
		}
	}
}

func (r *repl) help() {
	p := r.p()
	p.Title("Commands")
	for _, row := range [][2]string{
		{"<text>", "send a question in the open chat"},
		{"/mode <m>", "subjects or institutional"},
		{"/subjects", "list subjects"},
		{"/subject <key>", "open a subject chat"},
		{"/back, /home", "navigate back or to the start"},
		{"/lang [code]", "list or change the language"},
		{"/translate <to> <t>", "translate text"},
		{"/voice", "ask by voice (server microphone)"},
		{"/play, /stop", "play or stop the last spoken answer"},
		{"/clear", "clear the conversation"},
		{"/history", "questions asked in this chat"},
		{"/feedback [1-5] <m>", "send feedback"},
		{"/export [md|html|json] [--open]", "save the conversation"},
		{"/status", "session and server state"},
		{"/quit", "exit"},
	} {
		p.Field(row[0], row[1])
	}
}
