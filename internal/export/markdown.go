// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

type frontmatter struct {
	Title     string `yaml:"title"`
	Session   string `yaml:"session,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	Subject   string `yaml:"subject,omitempty"`
	Language  string `yaml:"language"`
	Started   string `yaml:"started,omitempty"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	now := e.options.now()

	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm := frontmatter{
			Title:     t.Title,
			Session:   t.SessionID,
			Mode:      t.Mode,
			Subject:   t.Subject,
			Language:  t.Language,
			Messages:  len(t.Messages),
			Exported:  now.Format(time.RFC3339),
			Generator: "tatvax-tui",
		}
		if !t.StartedAt.IsZero() {
			fm.Started = t.StartedAt.Format(time.RFC3339)
		}
		out, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(out)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(t.Title)))
	if t.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("*%s*\n\n", escapeMarkdown(t.Subtitle)))
	}

	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		if t.Mode != "" {
			sb.WriteString(fmt.Sprintf("- **Mode**: %s\n", t.Mode))
		}
		if t.Subject != "" {
			sb.WriteString(fmt.Sprintf("- **Subject**: %s\n", escapeMarkdown(t.Subject)))
		}
		sb.WriteString(fmt.Sprintf("- **Language**: %s\n", i18n.DisplayName(t.Language)))
		if !t.StartedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("- **Started**: %s\n", formatTimestamp(t.StartedAt)))
		}
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(t.Messages)))
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Conversation\n\n")

	for i, msg := range t.Messages {
		label := msg.Sender.DisplayName()
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(e.formatMessageContent(msg))
		sb.WriteString("\n\n")

		if msg.HasAudio() {
			sb.WriteString(fmt.Sprintf("<sub>Audio: `%s`</sub>\n\n", msg.AudioRef))
		}

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from TatvaX on %s*\n", now.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatMessageContent keeps assistant Markdown as it is. User text is quoted
// so that anything Markdown-like in it is not interpreted.
func (e *MarkdownExporter) formatMessageContent(msg *model.Message) string {
	content := strings.TrimSpace(render.EscapeTerminal(msg.Content))
	if !msg.IsUser() {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = "> " + escapeMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"#", `\#`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"<", `\<`,
	">", `\>`,
)

// escapeMarkdown escapes characters that would change formatting.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
