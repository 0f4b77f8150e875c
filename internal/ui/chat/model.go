// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/session"
	"github.com/jeranaias/tatvax-tui/internal/ui/components"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the TUI to the session controller and playback coordinator.
type Options struct {
	Controller *controller.Controller
	Player     *playback.Coordinator
	Markdown   *render.Terminal
	Theme      *styles.Theme
	Logger     *zap.Logger

	// Context bounds every backend call started by the TUI.
	Context context.Context

	// NoticeDuration is how long a notification stays visible.
	NoticeDuration time.Duration
	ShowTimestamps bool
	// ExportDir receives Ctrl+E transcripts.
	ExportDir string
	// SkipBootstrap leaves the connectivity check to the caller.
	SkipBootstrap bool
}

type overlay int

const (
	overlayNone overlay = iota
	overlayTranslate
	overlayFeedback
	overlayLanguage
	overlayHelp
)

// landingChoices are the two modes offered on the landing screen.
var landingChoices = []session.Mode{session.ModeSubjects, session.ModeInstitutional}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the tatvax TUI. The controller it drives
// is only touched from Update.
type Model struct {
	ctrl     *controller.Controller
	player   *playback.Coordinator
	theme    *styles.Theme
	markdown *render.Terminal
	logger   *zap.Logger
	ctx      context.Context
	opts     Options

	width  int
	height int

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	// cursor is the selection on the landing and subject screens.
	cursor int

	overlay    overlay
	translate  translateForm
	feedback   feedbackForm
	langCursor int

	audio     playback.Snapshot
	toasts    []components.Toast
	nextToast int
}

// New creates the model.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("auto")
	}
	if opts.Markdown == nil {
		opts.Markdown = render.NewTerminal(render.StyleAuto)
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 3 * time.Second
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	input := textinput.New()
	input.Prompt = "› "
	input.PromptStyle = opts.Theme.InputPrompt
	input.CharLimit = 2000
	input.Placeholder = opts.Controller.Placeholder()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(opts.Theme.Spinner))

	m := Model{
		ctrl:     opts.Controller,
		player:   opts.Player,
		theme:    opts.Theme,
		markdown: opts.Markdown,
		logger:   opts.Logger.Named("tui"),
		ctx:      opts.Context,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  sp,
		width:    80,
		height:   24,
	}
	m.translate = newTranslateForm(m.ctrl.Language())
	m.feedback = newFeedbackForm()
	m.layout()
	return m
}

// Init starts the connectivity check and the cursor blink.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !m.opts.SkipBootstrap {
		call := m.ctrl.StartBootstrap()
		cmds = append(cmds, m.spinner.Tick, func() tea.Msg {
			return bootstrapDoneMsg{call: call, res: m.ctrl.DoBootstrap(m.ctx, call)}
		})
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.ctrl.Busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bootstrapDoneMsg:
		m.ctrl.FinishBootstrap(msg.call, msg.res)
		return m.settled()

	case textDoneMsg:
		m.ctrl.FinishText(msg.call, msg.res)
		return m.settled()

	case voiceDoneMsg:
		m.ctrl.FinishVoice(msg.call, msg.res)
		return m.settled()

	case translateDoneMsg:
		res := m.ctrl.FinishTranslate(msg.call, msg.res)
		if msg.call.ID == m.translate.callID {
			m.translate.result = &res
			m.translate.callID = ""
		}
		return m.settled()

	case feedbackDoneMsg:
		res := m.ctrl.FinishFeedback(msg.call, msg.err)
		m.feedback.submitting = false
		m.feedback.result = &res
		cmd := m.afterChange()
		if res.OK {
			gen := m.feedback.gen
			cmd = tea.Batch(cmd, tea.Tick(res.CloseAfter, func(time.Time) tea.Msg {
				return feedbackCloseMsg{gen: gen}
			}))
		}
		return m, cmd

	case feedbackCloseMsg:
		if m.overlay == overlayFeedback && msg.gen == m.feedback.gen {
			m.closeOverlay()
		}
		return m, nil

	case clearDoneMsg:
		m.ctrl.FinishClear(msg.call, msg.err)
		return m.settled()

	case PlaybackMsg:
		m.audio = msg.Snapshot
		m.refresh()
		return m, nil

	case playDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, playback.ErrNoAudio) {
			m.ctrl.Notify(controller.NoticeError, "Audio playback failed")
		}
		return m.settled()

	case stopDoneMsg:
		if msg.err != nil {
			m.ctrl.Notify(controller.NoticeError, "Failed to stop audio")
		}
		return m.settled()

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		m.layout()
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, nil
	}

	if m.overlay == overlayNone && m.ctrl.Screen() == session.ScreenChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// settled runs afterChange on m and returns it with cmds.
func (m Model) settled(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmd := m.afterChange()
	return m, tea.Batch(append(cmds, cmd)...)
}

// afterChange re-renders after controller state changed and turns queued
// notifications into toasts.
func (m *Model) afterChange() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.ctrl.Notifications() {
		m.nextToast++
		id := m.nextToast
		m.toasts = append(m.toasts, components.Toast{ID: id, Text: n.Text, Success: n.Kind == controller.NoticeSuccess})
		cmds = append(cmds, tea.Tick(m.opts.NoticeDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	if m.ctrl.Busy() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	m.input.Placeholder = m.ctrl.Placeholder()
	m.layout()
	return tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayTranslate:
		return m.handleTranslateKey(msg)
	case overlayFeedback:
		return m.handleFeedbackKey(msg)
	case overlayLanguage:
		return m.handleLanguageKey(msg)
	case overlayHelp:
		m.closeOverlay()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil
	case key.Matches(msg, m.keys.Translate):
		return m.openTranslate()
	case key.Matches(msg, m.keys.Feedback):
		return m.openFeedback()
	case key.Matches(msg, m.keys.Language):
		m.openLanguage()
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		return m, m.stopAudio()
	case key.Matches(msg, m.keys.Reconnect):
		return m.reconnect()
	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Screen() != session.ScreenLanding {
			m.ctrl.NavigateBack()
			m.cursor = 0
			m.input.Reset()
			return m.settled()
		}
		return m, nil
	}

	switch m.ctrl.Screen() {
	case session.ScreenLanding:
		return m.handleLandingKey(msg)
	case session.ScreenSubjects:
		return m.handleSubjectsKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampIndex(m.cursor-1, len(landingChoices))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampIndex(m.cursor+1, len(landingChoices))
	case msg.String() == "1" || msg.String() == "2":
		m.cursor = int(msg.String()[0] - '1')
		return m.enterMode(landingChoices[m.cursor])
	case key.Matches(msg, m.keys.Select):
		return m.enterMode(landingChoices[m.cursor])
	}
	return m, nil
}

func (m Model) enterMode(mode session.Mode) (tea.Model, tea.Cmd) {
	if err := m.ctrl.EnterMode(mode); err != nil {
		m.ctrl.Notify(controller.NoticeError, err.Error())
		return m.settled()
	}
	m.cursor = 0
	if mode == session.ModeInstitutional {
		m.input.Reset()
		cmd := m.input.Focus()
		return m.settled(cmd)
	}
	return m.settled()
}

func (m Model) handleSubjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	subjects := m.ctrl.Subjects()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampIndex(m.cursor-1, len(subjects))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampIndex(m.cursor+1, len(subjects))
	case key.Matches(msg, m.keys.Select):
		if len(subjects) == 0 {
			return m, nil
		}
		if err := m.ctrl.SelectSubject(subjects[m.cursor].Key); err != nil {
			m.ctrl.Notify(controller.NoticeError, err.Error())
			return m.settled()
		}
		m.input.Reset()
		cmd := m.input.Focus()
		return m.settled(cmd)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		return m.sendText()
	case key.Matches(msg, m.keys.Voice):
		return m.toggleVoice()
	case key.Matches(msg, m.keys.Play):
		return m.playLast()
	case key.Matches(msg, m.keys.Clear):
		call := m.ctrl.StartClear()
		return m.settled(func() tea.Msg {
			return clearDoneMsg{call: call, err: m.ctrl.DoClear(m.ctx, call)}
		})
	case key.Matches(msg, m.keys.Copy):
		m.copyLastAnswer()
		return m.settled()
	case key.Matches(msg, m.keys.Export):
		m.exportTranscript()
		return m.settled()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) sendText() (tea.Model, tea.Cmd) {
	call, err := m.ctrl.StartText(m.input.Value())
	if err != nil {
		// Empty input is ignored silently.
		if !errors.Is(err, controller.ErrEmptyMessage) {
			m.ctrl.Notify(controller.NoticeError, err.Error())
		}
		return m.settled()
	}
	m.input.Reset()
	cmd := m.afterChange()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmd, func() tea.Msg {
		return textDoneMsg{call: call, res: m.ctrl.DoText(m.ctx, call)}
	})
}

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	call, err := m.ctrl.StartVoice()
	if errors.Is(err, controller.ErrVoiceStopped) {
		return m.settled()
	}
	if err != nil {
		m.ctrl.Notify(controller.NoticeError, err.Error())
		return m.settled()
	}
	return m.settled(func() tea.Msg {
		return voiceDoneMsg{call: call, res: m.ctrl.DoVoice(m.ctx, call)}
	})
}

func (m Model) playLast() (tea.Model, tea.Cmd) {
	last := m.ctrl.LastAudio()
	if last == nil {
		m.ctrl.Notify(controller.NoticeError, "No audio to play")
		return m.settled()
	}
	ref := last.AudioRef
	player := m.player
	ctx := m.ctx
	return m, func() tea.Msg {
		return playDoneMsg{err: player.Play(ctx, ref)}
	}
}

func (m Model) stopAudio() tea.Cmd {
	player := m.player
	ctx := m.ctx
	return func() tea.Msg {
		return stopDoneMsg{err: player.Stop(ctx)}
	}
}

func (m Model) reconnect() (tea.Model, tea.Cmd) {
	if m.ctrl.Pending(controller.OpBootstrap) {
		return m, nil
	}
	call := m.ctrl.StartBootstrap()
	ctrl := m.ctrl
	ctx := m.ctx
	return m.settled(func() tea.Msg {
		return bootstrapDoneMsg{call: call, res: ctrl.DoBootstrap(ctx, call)}
	})
}

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed heights of the chat screen chrome.
const (
	headerHeight    = 3
	inputHeight     = 3
	indicatorHeight = 1
	statusHeight    = 1
)

// layout sizes the viewport and input to the window and re-renders the
// message list.
func (m *Model) layout() {
	vh := m.height - headerHeight - inputHeight - indicatorHeight - statusHeight - len(m.toasts)
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = vh

	// Border, padding and prompt.
	iw := m.width - 4 - len([]rune(m.input.Prompt))
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw
	m.refresh()
}

// refresh rebuilds the message list, keeping the view pinned to the bottom
// when it already was.
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) closeOverlay() {
	m.overlay = overlayNone
	if m.ctrl.Screen() == session.ScreenChat {
		m.input.Focus()
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return n - 1
	}
	if i >= n {
		return 0
	}
	return i
}
