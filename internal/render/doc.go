// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns conversation text into displayable output.
//
// Assistant messages are Markdown and are rendered either for the terminal
// (glamour) or as sanitized HTML (goldmark, then bluemonday). User messages
// are never interpreted: EscapeTerminal strips escape and control sequences
// and EscapeHTML entity-escapes them.
package render
