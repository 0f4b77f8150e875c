// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page. Assistant
// Markdown is rendered and sanitized; user text is escaped.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(fmt.Sprintf("<html lang=\"%s\">\n", html.EscapeString(t.Language)))
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(t.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"tatvax-tui\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.renderHeader(t))

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		body, err := e.renderMessage(msg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(body)
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>TatvaX</strong> on %s</p>\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(t *Transcript) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(t.Title)))
	if t.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("            <p class=\"subtitle\">%s</p>\n", html.EscapeString(t.Subtitle)))
	}
	if e.options.IncludeMetadata {
		sb.WriteString("            <div class=\"metadata\">\n")
		if t.Mode != "" {
			sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Mode:</strong> %s</span>\n", html.EscapeString(t.Mode)))
		}
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Language:</strong> %s</span>\n",
			html.EscapeString(i18n.DisplayName(t.Language))))
		if !t.StartedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Started:</strong> %s</span>\n", formatTimestamp(t.StartedAt)))
		}
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(t.Messages)))
		sb.WriteString("            </div>\n")
	}
	sb.WriteString("        </header>\n")
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.Message) (string, error) {
	var content string
	if msg.IsUser() {
		content = "<p>" + render.EscapeHTML(strings.TrimSpace(msg.Content)) + "</p>\n"
	} else {
		rendered, err := render.HTML(msg.Content)
		if err != nil {
			return "", err
		}
		content = rendered
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", msg.Sender))
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", msg.Sender.DisplayName()))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(content)
	sb.WriteString("                </div>\n")
	if msg.HasAudio() {
		sb.WriteString(fmt.Sprintf("                <div class=\"audio-ref\">Audio: <code>%s</code></div>\n", html.EscapeString(msg.AudioRef)))
	}
	sb.WriteString("            </div>\n")
	return sb.String(), nil
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .light-theme {
            --bg: #f5f7fb; --panel: #ffffff; --text: #1f2937; --muted: #6b7280;
            --border: #e5e7eb; --user-bg: #4f46e5; --user-text: #ffffff;
            --bot-bg: #f3f4f6; --code-bg: #eef0f4; --accent: #4f46e5;
        }

        .dark-theme {
            --bg: #111827; --panel: #1f2937; --text: #e5e7eb; --muted: #9ca3af;
            --border: #374151; --user-bg: #6366f1; --user-text: #ffffff;
            --bot-bg: #273244; --code-bg: #111827; --accent: #a5b4fc;
        }

        body {
            font-family: -apple-system, "Segoe UI", "Noto Sans", "Noto Sans Devanagari", "Noto Sans Tamil", sans-serif;
            line-height: 1.6; color: var(--text); background: var(--bg); padding: 20px;
        }

        .container { max-width: 860px; margin: 0 auto; background: var(--panel); border-radius: 12px; overflow: hidden; }
        .header { padding: 28px 32px; border-bottom: 1px solid var(--border); }
        .header h1 { font-size: 26px; color: var(--accent); }
        .subtitle { color: var(--muted); margin-bottom: 12px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--muted); }

        .conversation { padding: 24px 32px; display: flex; flex-direction: column; gap: 16px; }
        .message { max-width: 80%; padding: 12px 16px; border-radius: 12px; }
        .user-message { align-self: flex-end; background: var(--user-bg); color: var(--user-text); }
        .assistant-message { align-self: flex-start; background: var(--bot-bg); }
        .message-header { display: flex; justify-content: space-between; gap: 12px; font-size: 12px; opacity: 0.8; margin-bottom: 4px; }
        .role-label { font-weight: 600; }
        .message-content p { margin: 0.4em 0; }
        .message-content ul, .message-content ol { padding-left: 1.4em; }
        .message-content pre { background: var(--code-bg); padding: 10px; border-radius: 6px; overflow-x: auto; }
        .message-content code { font-family: "SF Mono", "Fira Code", monospace; font-size: 0.92em; }
        .audio-ref { font-size: 12px; color: var(--muted); margin-top: 6px; }

        .footer { padding: 16px 32px; border-top: 1px solid var(--border); font-size: 13px; color: var(--muted); text-align: center; }
    </style>
`
