// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message log of one session. It is append-only
// while the session lives and is only ever cleared as a whole.
type Conversation struct {
	messages  []*Message
	history   []Exchange
	updatedAt time.Time
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		messages:  make([]*Message, 0, 16),
		updatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE LOG
// =============================================================================

// Append adds a message at the end of the log and returns it.
func (c *Conversation) Append(sender Sender, content, audioRef string) *Message {
	msg := NewMessage(sender, content, audioRef)
	c.messages = append(c.messages, msg)
	c.updatedAt = msg.Timestamp
	return msg
}

// Clear empties the log and the exchange history.
func (c *Conversation) Clear() {
	c.messages = make([]*Message, 0, 16)
	c.history = nil
	c.updatedAt = time.Now()
}

// Messages returns the log in append order. The slice is a copy; the
// messages themselves are shared.
func (c *Conversation) Messages() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// LastAssistant returns the most recent assistant message.
func (c *Conversation) LastAssistant() *Message {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == SenderAssistant {
			return c.messages[i]
		}
	}
	return nil
}

// LastAudio returns the most recent message that carries an audio reference.
func (c *Conversation) LastAudio() *Message {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].HasAudio() {
			return c.messages[i]
		}
	}
	return nil
}

// UpdatedAt returns the time of the last mutation.
func (c *Conversation) UpdatedAt() time.Time {
	return c.updatedAt
}

// =============================================================================
// EXCHANGE HISTORY
// =============================================================================

// Exchange is a successful query/response pair. It is context for feedback
// and transcripts only; rendering never reads it.
type Exchange struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Mode      string    `json:"mode"`
	Subject   string    `json:"subject,omitempty"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordExchange appends to the side history.
func (c *Conversation) RecordExchange(e Exchange) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.history = append(c.history, e)
}

// History returns a copy of the recorded exchanges.
func (c *Conversation) History() []Exchange {
	out := make([]Exchange, len(c.history))
	copy(out, c.history)
	return out
}
