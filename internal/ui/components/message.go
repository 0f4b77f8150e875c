// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one conversation message.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	// Playing marks the message whose audio is currently playing.
	Playing bool

	theme    *styles.Theme
	markdown *render.Terminal
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg *model.Message, theme *styles.Theme, markdown *render.Terminal) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		markdown:      markdown,
	}
}

// View renders the label line and the bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

func (b *MessageBubble) label() string {
	var name string
	if b.Message.IsUser() {
		name = b.theme.UserLabel.Render(b.Message.Sender.DisplayName())
	} else {
		name = b.theme.AssistantLabel.Render(b.Message.Sender.DisplayName())
	}
	if b.ShowTimestamp {
		name += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	if b.Message.HasAudio() {
		badge := "♪ Ctrl+P"
		if b.Playing {
			badge = "♪ playing"
		}
		name += " " + b.theme.AudioBadge.Render(badge)
	}
	return name
}

// bubbleWidth leaves room for the margin on the opposite side.
func (b *MessageBubble) bubbleWidth() int {
	w := b.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	text := render.EscapeTerminal(b.Message.Content)
	bubble := b.theme.UserBubble.Width(b.bubbleWidth()).Render(text)
	return indent(b.label(), 4) + "\n" + bubble
}

func (b *MessageBubble) renderAssistant() string {
	// Bubble border and padding take four cells.
	body := b.markdown.Render(b.Message.Content, b.bubbleWidth()-4)
	bubble := b.theme.AssistantBubble.Width(b.bubbleWidth()).Render(body)
	return b.label() + "\n" + bubble
}

func indent(s string, n int) string {
	return strings.Repeat(" ", n) + s
}
