// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Sender: who authored a message (user or assistant)
//   - Message: one entry of the log with content, optional audio reference and timestamp
//   - Conversation: the append-only message log owned by one session
//   - Exchange: a successful query/response pair kept as side history
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.SenderUser, "What is a derivative?", "")
//	conv.Append(model.SenderAssistant, "A derivative is...", "resp_123.mp3")
//
// The log is never edited in place: messages are appended, or the whole log is
// cleared. Renderers iterate Messages() and always reproduce the same order.
package model
