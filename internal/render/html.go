// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// =============================================================================
// HTML MARKDOWN
// =============================================================================

var (
	// Single newlines become <br>, matching chat-style input.
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	// UGC policy keeps paragraphs, lists, emphasis, code, blockquotes, tables
	// and safe links; scripts, styles and event handlers are removed.
	policy = bluemonday.UGCPolicy()
)

// HTML converts assistant Markdown to sanitized HTML.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// EscapeHTML makes user-authored text inert for HTML: markup characters are
// entity-escaped and newlines become <br>.
func EscapeHTML(s string) string {
	escaped := html.EscapeString(EscapeTerminal(s))
	return strings.ReplaceAll(escaped, "\n", "<br>\n")
}
