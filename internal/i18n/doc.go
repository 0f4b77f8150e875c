// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the static, per-language text the client shows without
// asking the backend: language display names, input placeholders and the
// welcome messages for each chat mode.
//
// Every lookup falls back to the English entry when the requested language
// has none. That fallback is policy, not an error.
//
//	code, err := i18n.Normalize("hi-IN") // "hi"
//	text := i18n.SubjectWelcome("Mathematics", code)
package i18n
