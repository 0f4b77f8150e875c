// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/tatvax-tui/internal/ui/styles"
	"github.com/jeranaias/tatvax-tui/internal/util"
)

// =============================================================================
// TOASTS
// =============================================================================

// Toast is one transient notice.
type Toast struct {
	ID      int
	Text    string
	Success bool
}

// RenderToasts renders the visible notices, newest last, one per line.
func RenderToasts(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		// The indicator takes up to five cells.
		text := util.TruncateWidth(t.Text, width-5)
		lines = append(lines, styles.RenderStatus(t.Success, text))
	}
	return strings.Join(lines, "\n")
}
