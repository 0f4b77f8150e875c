// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
	"github.com/jeranaias/tatvax-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header is the title bar shown above every screen.
type Header struct {
	Title     string
	Subtitle  string
	Connected bool
	// Connecting is set while the startup check is pending.
	Connecting bool
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a header with the brand as its title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "TatvaX", Width: 80, theme: theme}
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	// Border and padding take four cells.
	inner := width - 4

	brand := h.theme.HeaderBrand.Render("TatvaX")
	var state string
	switch {
	case h.Connecting:
		state = h.theme.WarningStyle.Render("connecting")
	case h.Connected:
		state = h.theme.SuccessStyle.Render("online")
	default:
		state = h.theme.ErrorStyle.Render("offline")
	}

	title := h.theme.HeaderTitle.Render(util.TruncateWidth(h.Title, inner/2))
	left := brand + "  " + title
	if h.Subtitle != "" && h.theme.GetLayoutMode() != styles.LayoutNarrow {
		left += "  " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(state)
	if gap < 1 {
		left = brand + "  " + title
		gap = inner - lipgloss.Width(left) - lipgloss.Width(state)
	}
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + state
	return h.theme.Header.Width(width - 2).Render(line)
}
