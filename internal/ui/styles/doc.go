// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the tatvax TUI.

All colors are Lip Gloss AdaptiveColor values; NewTheme decides between the
light and dark variants from the configured theme or, for "auto", from the
terminal background reported by termenv.

# Colors (colors.go)

  - Saffron - brand, titles, selected menu items
  - Indigo  - assistant messages and overlays
  - Teal    - user messages
  - Emerald, Rose, Amber - success, error, pending

SubjectColor maps a subject's catalog color to a terminal color.

# Theme (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	header := theme.Header.Width(width - 2).Render(title)

Status messages carry an ASCII indicator as well as a color so they remain
readable without color:

	styles.RenderSuccess("Chat cleared successfully") // "[OK] Chat cleared successfully"
*/
package styles
