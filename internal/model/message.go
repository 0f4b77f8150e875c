// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies the author of a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "TatvaX"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the conversation log.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// AudioRef is the server-side audio artifact for this message. Only
	// assistant messages carry one.
	AudioRef string `json:"audio_ref,omitempty"`
}

// NewMessage creates a message stamped with a fresh ID and the current time.
// An audio reference on a user message is dropped.
func NewMessage(sender Sender, content, audioRef string) *Message {
	if sender != SenderAssistant {
		audioRef = ""
	}
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
		AudioRef:  audioRef,
	}
}

// HasAudio reports whether the message can be played back.
func (m *Message) HasAudio() bool {
	return m.AudioRef != ""
}

// IsUser reports whether the user authored the message.
func (m *Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Preview returns content truncated to maxLen runes.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
