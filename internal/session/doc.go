// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the navigation state of a tatvax session.
//
// A Session records the chat mode, language, chosen subject and current
// screen. It knows nothing about the conversation log or the network; the
// controller package combines it with those.
//
// # Key Types
//
//   - Session: Mode, language, subject and screen with their transitions
//   - Mode: subjects or institutional (or unset on the landing screen)
//   - Screen: landing, subjects list or chat
//
// # Invariants
//
// Screen == ScreenChat implies a mode is set and, in subjects mode, a
// subject is chosen. Subject is non-empty only in subjects mode. Validate
// reports violations.
package session
