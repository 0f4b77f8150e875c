// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tatvax-tui/internal/controller"
	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/session"
	"github.com/jeranaias/tatvax-tui/internal/ui/components"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
	"github.com/jeranaias/tatvax-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.overlay {
	case overlayTranslate:
		b.WriteString(m.renderTranslate())
	case overlayFeedback:
		b.WriteString(m.renderFeedback())
	case overlayLanguage:
		b.WriteString(m.renderLanguagePicker())
	case overlayHelp:
		b.WriteString(m.renderHelp())
	default:
		b.WriteString(m.renderBody())
	}
	b.WriteString("\n")

	if line := m.renderIndicators(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if toasts := components.RenderToasts(m.toasts, m.width); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.ctrl.Session()
	h := components.NewHeader(m.theme)
	h.Title, h.Subtitle = s.Title()
	h.Connected = m.ctrl.Connected()
	h.Connecting = m.ctrl.Pending(controller.OpBootstrap)
	h.Width = m.width
	return h.View()
}

func (m Model) renderBody() string {
	switch m.ctrl.Screen() {
	case session.ScreenLanding:
		return m.renderLanding()
	case session.ScreenSubjects:
		return m.renderSubjects()
	default:
		return m.viewport.View() + "\n" + m.renderInput()
	}
}

// =============================================================================
// LANDING AND SUBJECTS
// =============================================================================

func (m Model) renderLanding() string {
	items := []struct{ title, desc string }{
		{"Subject Learning", "Pick a subject and ask questions about it"},
		{"Institutional Assistant", "FAQ and information about the institution"},
	}
	var b strings.Builder
	b.WriteString(m.theme.MenuHint.Render("Choose a mode"))
	b.WriteString("\n\n")
	for i, it := range items {
		b.WriteString(m.menuLine(fmt.Sprintf("%d. %s", i+1, it.title), it.desc, "", i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.MenuHint.Render("↑/↓ select · Enter open · Ctrl+G language · F1 help"))
	return b.String()
}

func (m Model) renderSubjects() string {
	subjects := m.ctrl.Subjects()
	var b strings.Builder
	b.WriteString(m.theme.MenuHint.Render("Choose a subject"))
	b.WriteString("\n\n")
	if len(subjects) == 0 {
		b.WriteString(m.theme.Muted.Render("No subjects available. Press Ctrl+R to reconnect."))
		b.WriteString("\n")
	}
	for i, s := range subjects {
		title := s.Name
		if s.Icon != "" {
			title = s.Icon + " " + title
		}
		b.WriteString(m.menuLine(title, s.Description, s.Color, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.MenuHint.Render("↑/↓ select · Enter open · Esc back"))
	return b.String()
}

func (m Model) menuLine(title, desc, color string, selected bool) string {
	style := m.theme.MenuItem
	marker := "  "
	if selected {
		style = m.theme.MenuItemSelected
		marker = "› "
	}
	if color != "" {
		style = style.Foreground(styles.SubjectColor(color))
	}
	line := marker + style.Render(title)
	if desc != "" && m.theme.GetLayoutMode() != styles.LayoutNarrow {
		room := m.width - lipgloss.Width(line) - 4
		if room > 10 {
			line += "  " + m.theme.MenuDesc.Render(util.TruncateWidth(desc, room))
		}
	}
	return line
}

// =============================================================================
// CHAT
// =============================================================================

// renderMessages renders the log in order. Rendering is a pure function of
// the log, so it is rebuilt in full on every change.
func (m Model) renderMessages() string {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return ""
	}
	playing := ""
	if m.audio.State == playback.StatePlaying || m.audio.State == playback.StateLoading {
		playing = m.audio.AudioRef
	}
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		bubble := components.NewMessageBubble(msg, m.theme, m.markdown)
		bubble.Width = m.width
		bubble.ShowTimestamp = m.opts.ShowTimestamps
		bubble.Playing = playing != "" && msg.AudioRef == playing
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer.Width(m.width - 2)
	if m.ctrl.Listening() {
		return style.Render(m.theme.Listening.Render("● Listening... press Ctrl+V to stop"))
	}
	return style.Render(m.input.View())
}

func (m Model) renderIndicators() string {
	inds := m.ctrl.Indicators()
	if len(inds) == 0 {
		return ""
	}
	labels := make([]string, len(inds))
	for i, ind := range inds {
		labels[i] = ind.Label
	}
	return m.spinner.View() + " " + m.theme.Indicator.Render(strings.Join(labels, " · "))
}

func (m Model) renderStatusBar() string {
	sb := components.NewStatusBar(m.theme)
	sb.Language = i18n.DisplayName(m.ctrl.Language())
	sb.Audio = m.audio
	sb.Listening = m.ctrl.Listening()
	sb.Width = m.width
	sb.Shortcuts = m.shortcuts()
	return sb.View()
}

func (m Model) shortcuts() []components.Shortcut {
	switch {
	case m.overlay == overlayTranslate:
		return []components.Shortcut{{Key: "Enter", Desc: "translate"}, {Key: "Tab", Desc: "field"}, {Key: "C-w", Desc: "swap"}, {Key: "Esc", Desc: "close"}}
	case m.overlay == overlayFeedback:
		return []components.Shortcut{{Key: "Enter", Desc: "submit"}, {Key: "Tab", Desc: "field"}, {Key: "Esc", Desc: "close"}}
	case m.overlay != overlayNone:
		return []components.Shortcut{{Key: "Enter", Desc: "select"}, {Key: "Esc", Desc: "close"}}
	case m.ctrl.Screen() == session.ScreenChat:
		return []components.Shortcut{
			{Key: "Enter", Desc: "send"}, {Key: "C-v", Desc: "voice"}, {Key: "C-p", Desc: "play"}, {Key: "C-s", Desc: "stop"},
			{Key: "C-k", Desc: "translate"}, {Key: "C-f", Desc: "feedback"}, {Key: "C-l", Desc: "clear"}, {Key: "Esc", Desc: "back"}, {Key: "F1", Desc: "help"},
		}
	default:
		return []components.Shortcut{{Key: "Enter", Desc: "select"}, {Key: "C-g", Desc: "language"}, {Key: "C-f", Desc: "feedback"}, {Key: "F1", Desc: "help"}, {Key: "C-c", Desc: "quit"}}
	}
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) overlayBox(title, body string) string {
	w := m.width - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	content := m.theme.OverlayTitle.Render(title) + "\n\n" + body
	box := m.theme.OverlayBox.Width(w).Render(content)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}

func (m Model) fieldLabel(text string, focused bool) string {
	if focused {
		return m.theme.FieldLabelFocused.Render("› " + text)
	}
	return m.theme.FieldLabel.Render("  " + text)
}

func (m Model) renderTranslate() string {
	f := m.translate
	var b strings.Builder
	b.WriteString(m.fieldLabel("Text", f.focus == translateFieldText))
	b.WriteString("\n  ")
	b.WriteString(f.text.View())
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel("From  ◂ "+languageAt(f.source).Name+" ▸", f.focus == translateFieldSource))
	b.WriteString("\n")
	b.WriteString(m.fieldLabel("To    ◂ "+languageAt(f.target).Name+" ▸", f.focus == translateFieldTarget))
	b.WriteString("\n")

	switch {
	case f.callID != "":
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.theme.Indicator.Render("Translating..."))
	case f.result != nil:
		b.WriteString("\n")
		if f.result.Failed {
			b.WriteString(m.theme.ResultBox.Render(m.theme.ErrorStyle.Render(f.result.Text)))
		} else {
			head := m.theme.Muted.Render(f.result.TargetName)
			b.WriteString(m.theme.ResultBox.Render(head + "\n" + render.EscapeTerminal(f.result.Text)))
		}
	}
	return m.overlayBox("Translate", b.String())
}

func (m Model) renderFeedback() string {
	f := m.feedback
	var b strings.Builder

	stars := strings.Repeat("★", f.rating) + strings.Repeat("☆", 5-f.rating)
	rating := stars
	if f.rating == 0 {
		rating += "  (not rated)"
	}
	b.WriteString(m.fieldLabel("Rating  "+rating, f.focus == feedbackFieldRating))
	b.WriteString("\n")
	for _, field := range []struct {
		label string
		id    int
	}{{"Name", feedbackFieldName}, {"Email", feedbackFieldEmail}, {"Message", feedbackFieldMessage}} {
		b.WriteString(m.fieldLabel(field.label, f.focus == field.id))
		b.WriteString("\n  ")
		in := f.input(field.id)
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	switch {
	case f.submitting:
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.theme.Indicator.Render("Submitting..."))
	case f.result != nil:
		b.WriteString("\n")
		b.WriteString(styles.RenderStatus(f.result.OK, f.result.Message))
	}
	return m.overlayBox("Feedback", b.String())
}

func (m Model) renderLanguagePicker() string {
	var b strings.Builder
	current := m.ctrl.Language()
	for i, l := range i18n.Supported() {
		name := l.Name
		if l.Code == current {
			name += " ✓"
		}
		b.WriteString(m.menuLine(name, "", "", i == m.langCursor))
		b.WriteString("\n")
	}
	return m.overlayBox("Language", strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	h.Width = m.width - 8
	return m.overlayBox("Keys", h.View(m.keys)+"\n\n"+m.theme.Muted.Render("Press any key to close"))
}
