// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

func testTheme(width int) *styles.Theme {
	theme := styles.NewTheme("dark")
	theme.SetSize(width, 30)
	return theme
}

func TestHeader_ShowsTitleAndState(t *testing.T) {
	theme := testTheme(100)
	h := NewHeader(theme)
	h.Width = 100
	h.Title = "Mathematics"
	h.Subtitle = "Subject Learning Mode"
	h.Connected = true

	view := h.View()
	assert.Contains(t, view, "TatvaX")
	assert.Contains(t, view, "Mathematics")
	assert.Contains(t, view, "Subject Learning Mode")
	assert.Contains(t, view, "online")

	h.Connected = false
	assert.Contains(t, h.View(), "offline")
	h.Connecting = true
	assert.Contains(t, h.View(), "connecting")
}

func TestHeader_NarrowDropsSubtitle(t *testing.T) {
	theme := testTheme(40)
	h := NewHeader(theme)
	h.Width = 40
	h.Title = "Institutional Assistant"
	h.Subtitle = "FAQ & Information"

	view := h.View()
	assert.NotContains(t, view, "FAQ")
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestMessageBubble_UserTextIsEscaped(t *testing.T) {
	theme := testTheme(80)
	msg := model.NewMessage(model.SenderUser, "hi \x1b[31mred\x1b[0m **not bold**", "")
	b := NewMessageBubble(msg, theme, render.NewTerminal(render.StylePlain))

	view := b.View()
	assert.NotContains(t, view, "\x1b[31m")
	assert.Contains(t, view, "**not bold**")
	assert.Contains(t, view, "You")
}

func TestMessageBubble_AssistantControlSequencesDropped(t *testing.T) {
	theme := testTheme(80)
	msg := model.NewMessage(model.SenderAssistant, "Answer \x1b]52;c;ZXZpbA==\x07 here \x1b]0;title\x07", "")
	b := NewMessageBubble(msg, theme, render.NewTerminal(render.StylePlain))

	view := b.View()
	assert.NotContains(t, view, "\x1b]")
	assert.NotContains(t, view, "ZXZpbA==")
	assert.Contains(t, view, "Answer")
}

func TestMessageBubble_AssistantAudioBadge(t *testing.T) {
	theme := testTheme(80)
	msg := model.NewMessage(model.SenderAssistant, "A *derivative* measures change.", "reply_001.mp3")
	b := NewMessageBubble(msg, theme, render.NewTerminal(render.StylePlain))

	view := b.View()
	assert.Contains(t, view, "derivative")
	assert.Contains(t, view, "Ctrl+P")

	b.Playing = true
	assert.Contains(t, b.View(), "playing")
}

func TestStatusBar_DropsShortcutsThatDoNotFit(t *testing.T) {
	theme := testTheme(50)
	s := NewStatusBar(theme)
	s.Width = 50
	s.Language = "English"
	s.Shortcuts = []Shortcut{
		{"Enter", "send"}, {"Ctrl+K", "translate"}, {"Ctrl+F", "feedback"},
		{"Ctrl+L", "clear"}, {"Esc", "back"},
	}

	view := s.View()
	assert.Contains(t, view, "English")
	assert.Contains(t, view, "Enter")
	assert.NotContains(t, view, "Esc back")
	assert.LessOrEqual(t, lipgloss.Width(view), 50)
}

func TestStatusBar_AudioAndListening(t *testing.T) {
	theme := testTheme(100)
	s := NewStatusBar(theme)
	s.Width = 100
	s.Language = "हिंदी (Hindi)"
	s.Listening = true
	s.Audio = playback.Snapshot{State: playback.StatePlaying, AudioRef: "a.mp3"}

	view := s.View()
	assert.Contains(t, view, "listening")
	assert.Contains(t, view, "playing")
}

func TestAudioLabel(t *testing.T) {
	assert.Equal(t, "", AudioLabel(playback.Snapshot{}))
	assert.Equal(t, "loading audio", AudioLabel(playback.Snapshot{State: playback.StateLoading}))
	assert.Equal(t, "audio error", AudioLabel(playback.Snapshot{State: playback.StateError}))
}

func TestRenderToasts(t *testing.T) {
	assert.Empty(t, RenderToasts(nil, 80))

	out := RenderToasts([]Toast{
		{ID: 1, Text: "Chat cleared successfully", Success: true},
		{ID: 2, Text: "Failed to clear chat"},
	}, 80)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], styles.StatusIndicators.Success)
	assert.Contains(t, lines[1], styles.StatusIndicators.Error)
}
