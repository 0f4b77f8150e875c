// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the tatvax TUI.

Components are plain structs with a View method; they hold no Bubble Tea
state of their own and are rebuilt by the chat model on every frame.

  - Header (header.go) - brand, chat title and subtitle, connection state
  - MessageBubble (message.go) - one conversation message
  - StatusBar (statusbar.go) - language, audio state and shortcuts
  - Toasts (toast.go) - transient success and error notices

Assistant content is rendered as Markdown through render.Terminal; user
content is passed through render.EscapeTerminal and never interpreted.
*/
package components
