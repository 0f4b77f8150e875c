// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tatvax-tui/internal/config"
	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/export"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

// =============================================================================
// TRANSLATE OVERLAY
// =============================================================================

const (
	translateFieldText = iota
	translateFieldSource
	translateFieldTarget
	translateFieldCount
)

type translateForm struct {
	text   textinput.Model
	source int
	target int
	focus  int

	// callID is the pending request; empty when idle.
	callID string
	result *controller.TranslationResult
}

// newTranslateForm translates from English into the session language, or
// into Hindi when the session is English.
func newTranslateForm(language string) translateForm {
	ti := textinput.New()
	ti.Placeholder = "Text to translate"
	ti.CharLimit = 2000
	ti.Prompt = ""

	f := translateForm{text: ti, target: languageIndex("hi")}
	if language != "en" {
		f.target = languageIndex(language)
	}
	return f
}

func languageIndex(code string) int {
	for i, l := range i18n.Supported() {
		if l.Code == code {
			return i
		}
	}
	return 0
}

func languageAt(i int) i18n.Language {
	langs := i18n.Supported()
	return langs[clampIndex(i, len(langs))]
}

func (m Model) openTranslate() (tea.Model, tea.Cmd) {
	m.overlay = overlayTranslate
	m.translate.focus = translateFieldText
	m.translate.result = nil
	m.input.Blur()
	return m, m.translate.text.Focus()
}

func (m Model) handleTranslateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.translate
	n := len(i18n.Supported())

	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeOverlay()
		return m, nil
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		step := 1
		if key.Matches(msg, m.keys.PrevField) {
			step = translateFieldCount - 1
		}
		f.focus = (f.focus + step) % translateFieldCount
		if f.focus == translateFieldText {
			return m, f.text.Focus()
		}
		f.text.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Swap):
		f.source, f.target = f.target, f.source
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if f.callID != "" {
			return m, nil
		}
		call, err := m.ctrl.StartTranslate(f.text.Value(), languageAt(f.source).Code, languageAt(f.target).Code)
		if err != nil {
			m.ctrl.Notify(controller.NoticeError, err.Error())
			return m.settled()
		}
		f.callID = call.ID
		f.result = nil
		return m.settled(func() tea.Msg {
			return translateDoneMsg{call: call, res: m.ctrl.DoTranslate(m.ctx, call)}
		})
	}

	switch f.focus {
	case translateFieldSource, translateFieldTarget:
		idx := &f.source
		if f.focus == translateFieldTarget {
			idx = &f.target
		}
		switch {
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
			*idx = clampIndex(*idx-1, n)
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
			*idx = clampIndex(*idx+1, n)
		}
		return m, nil
	}

	var cmd tea.Cmd
	f.text, cmd = f.text.Update(msg)
	return m, cmd
}

// =============================================================================
// FEEDBACK OVERLAY
// =============================================================================

const (
	feedbackFieldRating = iota
	feedbackFieldName
	feedbackFieldEmail
	feedbackFieldMessage
	feedbackFieldCount
)

type feedbackForm struct {
	rating  int
	name    textinput.Model
	email   textinput.Model
	message textinput.Model
	focus   int

	submitting bool
	result     *controller.FeedbackResult
	// gen increments on every open so a stale auto-close is ignored.
	gen int
}

func newFeedbackForm() feedbackForm {
	mk := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Prompt = ""
		return ti
	}
	return feedbackForm{
		name:    mk(controller.FeedbackAnonymous, 100),
		email:   mk(controller.FeedbackNotProvided, 200),
		message: mk("Tell us what worked and what did not", 2000),
	}
}

func (f *feedbackForm) input(field int) *textinput.Model {
	switch field {
	case feedbackFieldName:
		return &f.name
	case feedbackFieldEmail:
		return &f.email
	case feedbackFieldMessage:
		return &f.message
	default:
		return nil
	}
}

func (f *feedbackForm) setFocus(field int) tea.Cmd {
	f.focus = field
	var cmd tea.Cmd
	for i := feedbackFieldName; i < feedbackFieldCount; i++ {
		in := f.input(i)
		if i == field {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (m Model) openFeedback() (tea.Model, tea.Cmd) {
	gen := m.feedback.gen + 1
	m.feedback = newFeedbackForm()
	m.feedback.gen = gen
	m.overlay = overlayFeedback
	m.input.Blur()
	return m, m.feedback.setFocus(feedbackFieldMessage)
}

func (m Model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.feedback

	if key.Matches(msg, m.keys.Back) {
		m.closeOverlay()
		return m, nil
	}
	// The form is disabled while submitting and after a success.
	if f.submitting || (f.result != nil && f.result.OK) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, f.setFocus((f.focus + 1) % feedbackFieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.setFocus((f.focus + feedbackFieldCount - 1) % feedbackFieldCount)
	case key.Matches(msg, m.keys.Select):
		call, err := m.ctrl.StartFeedback(controller.FeedbackForm{
			Rating:  f.rating,
			Name:    f.name.Value(),
			Email:   f.email.Value(),
			Message: f.message.Value(),
		})
		if err != nil {
			f.result = &controller.FeedbackResult{Message: err.Error(), Err: err}
			return m, nil
		}
		f.submitting = true
		f.result = nil
		return m.settled(func() tea.Msg {
			return feedbackDoneMsg{call: call, err: m.ctrl.DoFeedback(m.ctx, call)}
		})
	}

	if f.focus == feedbackFieldRating {
		switch s := msg.String(); {
		case len(s) == 1 && s[0] >= '0' && s[0] <= '5':
			f.rating, _ = strconv.Atoi(s)
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Down):
			if f.rating > 0 {
				f.rating--
			}
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Up):
			if f.rating < 5 {
				f.rating++
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	in := f.input(f.focus)
	*in, cmd = in.Update(msg)
	return m, cmd
}

// =============================================================================
// LANGUAGE PICKER
// =============================================================================

func (m *Model) openLanguage() {
	m.overlay = overlayLanguage
	m.langCursor = languageIndex(m.ctrl.Language())
	m.input.Blur()
}

func (m Model) handleLanguageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(i18n.Supported())
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeOverlay()
	case key.Matches(msg, m.keys.Up):
		m.langCursor = clampIndex(m.langCursor-1, n)
	case key.Matches(msg, m.keys.Down):
		m.langCursor = clampIndex(m.langCursor+1, n)
	case key.Matches(msg, m.keys.Select):
		lang := languageAt(m.langCursor)
		if err := m.ctrl.SetLanguage(lang.Code); err != nil {
			m.ctrl.Notify(controller.NoticeError, err.Error())
		} else {
			m.ctrl.Notify(controller.NoticeSuccess, "Language: "+lang.Name)
		}
		m.closeOverlay()
		return m.settled()
	}
	return m, nil
}

// =============================================================================
// CLIPBOARD, EXPORT AND CONFIG
// =============================================================================

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func (m *Model) copyLastAnswer() {
	last := m.ctrl.LastAnswer()
	if last == nil {
		m.ctrl.Notify(controller.NoticeError, "Nothing to copy")
		return
	}
	if err := clipboardWrite(last.Content); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.ctrl.Notify(controller.NoticeError, "Clipboard unavailable")
		return
	}
	m.ctrl.Notify(controller.NoticeSuccess, "Answer copied")
}

func (m *Model) exportTranscript() {
	s := m.ctrl.Session()
	t := export.NewTranscript(s, m.ctrl.Messages(), m.ctrl.History())
	opts := export.DefaultOptions()
	opts.OutputDir = m.opts.ExportDir
	path, err := export.ExportFormat(t, "md", opts)
	if err != nil {
		m.logger.Warn("export failed", zap.Error(err))
		m.ctrl.Notify(controller.NoticeError, "Export failed")
		return
	}
	m.ctrl.Notify(controller.NoticeSuccess, fmt.Sprintf("Saved %s", path))
}

// applyConfig takes the settings that can change while running. Server and
// session settings need a restart.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.opts.ShowTimestamps = cfg.UI.ShowTimestamps
	if d := cfg.UI.NoticeDuration(); d > 0 {
		m.opts.NoticeDuration = d
	}
	if cfg.UI.Theme != "" {
		m.theme = styles.NewTheme(cfg.UI.Theme)
		m.theme.SetSize(m.width, m.height)
		m.input.PromptStyle = m.theme.InputPrompt
		m.spinner.Style = m.theme.Spinner
	}
	m.logger.Info("config reloaded", zap.String("theme", cfg.UI.Theme))
	m.layout()
}
