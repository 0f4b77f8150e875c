// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// A Transcript is captured from the session and conversation log with
// NewTranscript and rendered by an Exporter:
//
//   - Markdown: YAML frontmatter, assistant Markdown kept, user text quoted
//   - HTML: standalone page, assistant Markdown rendered and sanitized
//   - JSON: the full transcript
//
// # Usage
//
//	t := export.NewTranscript(ctrl.Session(), ctrl.Messages(), ctrl.History())
//	path, err := export.ExportFormat(t, "html", export.DefaultOptions())
package export
