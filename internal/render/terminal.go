// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// =============================================================================
// TERMINAL MARKDOWN
// =============================================================================

// Glamour style names accepted by NewTerminal besides "auto".
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Terminal renders Markdown to ANSI text with glamour. Renderers are built
// lazily per wrap width so that a resizing TUI does not rebuild one on every
// frame. Safe for concurrent use.
type Terminal struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewTerminal creates a terminal renderer for the given glamour style.
func NewTerminal(style string) *Terminal {
	switch style {
	case StyleDark, StyleLight, StylePlain:
	default:
		style = StyleAuto
	}
	return &Terminal{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Style returns the glamour style in use.
func (t *Terminal) Style() string {
	return t.style
}

func (t *Terminal) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.renderers[width]; ok {
		return r, nil
	}

	styleOpt := glamour.WithStandardStyle(t.style)
	if t.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	t.renderers[width] = r
	return r, nil
}

// Render renders Markdown wrapped at width. Escape sequences in the input
// are removed first since glamour copies them through. When rendering fails
// the escaped input is returned, so a message is always displayable.
func (t *Terminal) Render(markdown string, width int) string {
	markdown = EscapeTerminal(markdown)
	r, err := t.renderer(width)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// ESCAPING
// =============================================================================

// EscapeTerminal makes user-authored text inert for a terminal: ANSI escape
// sequences are removed and other control characters dropped, except
// newlines and tabs.
func EscapeTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
