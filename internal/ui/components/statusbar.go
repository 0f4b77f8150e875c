// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tatvax-tui/internal/playback"
	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: language, audio state and key hints.
type StatusBar struct {
	Language  string
	Audio     playback.Snapshot
	Listening bool
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// AudioLabel describes the playback state for display.
func AudioLabel(s playback.Snapshot) string {
	switch s.State {
	case playback.StateLoading:
		return "loading audio"
	case playback.StatePlaying:
		return "playing"
	case playback.StateError:
		return "audio error"
	default:
		return ""
	}
}

// View renders the status bar at full width. Shortcuts that do not fit are
// dropped from the end.
func (s *StatusBar) View() string {
	t := s.theme
	sep := t.ShortcutDesc.Render(" · ")

	left := []string{t.StatusValue.Render(s.Language)}
	if s.Listening {
		left = append(left, t.Listening.Background(styles.SurfaceDim).Render("● listening"))
	}
	if label := AudioLabel(s.Audio); label != "" {
		style := t.StatusValue
		switch s.Audio.State {
		case playback.StateError:
			style = t.ErrorStyle.Background(styles.SurfaceDim)
		case playback.StatePlaying:
			style = t.SuccessStyle.Background(styles.SurfaceDim)
		}
		left = append(left, style.Render("♪ "+label))
	}
	leftText := strings.Join(left, sep)

	// Padding takes two cells.
	room := s.Width - 2 - lipgloss.Width(leftText) - 2
	var hints []string
	for _, sc := range s.Shortcuts {
		hint := t.ShortcutKey.Render(sc.Key) + t.ShortcutDesc.Render(" "+sc.Desc)
		w := lipgloss.Width(hint)
		if len(hints) > 0 {
			w += lipgloss.Width(sep)
		}
		if w > room {
			break
		}
		room -= w
		hints = append(hints, hint)
	}
	rightText := strings.Join(hints, sep)

	gap := s.Width - 2 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if gap < 1 {
		gap = 1
	}
	filler := lipgloss.NewStyle().Background(styles.SurfaceDim).Width(gap).Render("")
	return t.StatusBar.Width(s.Width).Render(leftText + filler + rightText)
}
