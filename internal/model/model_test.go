// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_AssignsIdentity(t *testing.T) {
	a := NewMessage(SenderUser, "hi", "")
	b := NewMessage(SenderUser, "hi", "")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestNewMessage_AudioOnlyOnAssistant(t *testing.T) {
	user := NewMessage(SenderUser, "hi", "clip.mp3")
	bot := NewMessage(SenderAssistant, "hello", "clip.mp3")

	assert.False(t, user.HasAudio())
	assert.True(t, bot.HasAudio())
	assert.Equal(t, "clip.mp3", bot.AudioRef)
}

func TestMessage_Preview(t *testing.T) {
	msg := NewMessage(SenderAssistant, "नमस्ते दुनिया", "")
	assert.Equal(t, "नमस्ते दुनिया", msg.Preview(50))
	assert.Len(t, []rune(msg.Preview(6)), 6)
}

func TestSender_DisplayName(t *testing.T) {
	assert.Equal(t, "You", SenderUser.DisplayName())
	assert.Equal(t, "TatvaX", SenderAssistant.DisplayName())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 50; i++ {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderAssistant
		}
		conv.Append(sender, fmt.Sprintf("msg-%d", i), "")
	}

	msgs := conv.Messages()
	require.Len(t, msgs, 50)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), m.Content)
	}
}

func TestConversation_ClearAlwaysEmpties(t *testing.T) {
	for _, n := range []int{0, 1, 10, 500} {
		t.Run(fmt.Sprintf("%d messages", n), func(t *testing.T) {
			conv := NewConversation()
			for i := 0; i < n; i++ {
				conv.Append(SenderUser, "x", "")
			}
			conv.RecordExchange(Exchange{Query: "q", Response: "r"})

			conv.Clear()

			assert.True(t, conv.IsEmpty())
			assert.Empty(t, conv.Messages())
			assert.Empty(t, conv.History())
			assert.Nil(t, conv.Last())
		})
	}
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	conv := NewConversation()
	conv.Append(SenderUser, "one", "")

	msgs := conv.Messages()
	msgs[0] = nil

	require.NotNil(t, conv.Messages()[0])
	assert.Equal(t, 1, conv.Len())
}

func TestConversation_LastLookups(t *testing.T) {
	conv := NewConversation()
	assert.Nil(t, conv.LastAssistant())
	assert.Nil(t, conv.LastAudio())

	conv.Append(SenderAssistant, "welcome", "")
	conv.Append(SenderUser, "question", "")
	conv.Append(SenderAssistant, "answer", "a.mp3")
	conv.Append(SenderUser, "follow-up", "")

	assert.Equal(t, "follow-up", conv.Last().Content)
	assert.Equal(t, "answer", conv.LastAssistant().Content)
	assert.Equal(t, "a.mp3", conv.LastAudio().AudioRef)
}

func TestConversation_RecordExchangeStampsTime(t *testing.T) {
	conv := NewConversation()
	conv.RecordExchange(Exchange{Query: "q", Response: "r", Mode: "subjects"})

	hist := conv.History()
	require.Len(t, hist, 1)
	assert.False(t, hist[0].Timestamp.IsZero())
	assert.Equal(t, "subjects", hist[0].Mode)
}
