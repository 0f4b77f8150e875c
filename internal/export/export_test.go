// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/session"
)

var exportTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func testOptions(t *testing.T) *Options {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()
	opts.Now = func() time.Time { return exportTime }
	return opts
}

func testTranscript(t *testing.T) *Transcript {
	t.Helper()
	s := session.New("en")
	require.NoError(t, s.EnterMode(session.ModeSubjects))
	require.NoError(t, s.SelectSubject("mathematics", "Mathematics"))

	conv := model.NewConversation()
	conv.Append(model.SenderAssistant, s.Welcome(), "")
	conv.Append(model.SenderUser, "What is <b>a</b> derivative? *really*", "")
	conv.Append(model.SenderAssistant, "A **derivative** measures change.\n\n<script>alert(1)</script>", "resp_42.mp3")
	return NewTranscript(*s, conv.Messages(), conv.History())
}

func TestNewTranscript(t *testing.T) {
	tr := testTranscript(t)

	assert.Equal(t, "Mathematics", tr.Title)
	assert.Equal(t, "Subject Learning Mode", tr.Subtitle)
	assert.Equal(t, "subjects", tr.Mode)
	assert.Equal(t, "mathematics", tr.Subject)
	assert.Equal(t, "en", tr.Language)
	assert.NotEmpty(t, tr.SessionID)
	assert.Len(t, tr.Messages, 3)
}

func TestExport_EmptyTranscript(t *testing.T) {
	for _, format := range []string{"md", "html", "json"} {
		exporter, err := New(format, nil)
		require.NoError(t, err)

		_, err = exporter.Export(&Transcript{Title: "x"})
		assert.ErrorIs(t, err, ErrEmptyTranscript, format)

		_, err = exporter.Export(nil)
		assert.ErrorIs(t, err, ErrEmptyTranscript, format)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("pdf", nil)
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(t)).Export(testTranscript(t))
	require.NoError(t, err)
	md := string(out)

	require.True(t, strings.HasPrefix(md, "---\n"))
	end := strings.Index(md[4:], "---\n")
	require.Positive(t, end)
	var fm frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(md[4:4+end]), &fm))
	assert.Equal(t, "Mathematics", fm.Title)
	assert.NotEmpty(t, fm.Session)
	assert.Equal(t, "mathematics", fm.Subject)
	assert.Equal(t, 3, fm.Messages)
	assert.Equal(t, "2025-03-14T09:30:00Z", fm.Exported)

	assert.Contains(t, md, "# Mathematics")
	assert.Contains(t, md, "### You")
	assert.Contains(t, md, "### TatvaX")
	assert.Contains(t, md, `> What is \<b\>a\</b\> derivative? \*really\*`)
	assert.Contains(t, md, "A **derivative** measures change.")
	assert.Contains(t, md, "Audio: `resp_42.mp3`")
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	opts := testOptions(t)
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(testTranscript(t))
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# Mathematics"))
	assert.NotContains(t, md, "Session Information")
	assert.NotContains(t, md, "<sub>09:")
}

func TestHTMLExporter(t *testing.T) {
	out, err := NewHTMLExporter(testOptions(t)).Export(testTranscript(t))
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>Mathematics</title>")
	assert.Contains(t, page, `class="light-theme"`)
	assert.Contains(t, page, "What is &lt;b&gt;a&lt;/b&gt; derivative?")
	assert.Contains(t, page, "<strong>derivative</strong>")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "resp_42.mp3")
	assert.Contains(t, page, "March 14, 2025")
}

func TestHTMLExporter_DarkTheme(t *testing.T) {
	opts := testOptions(t)
	opts.Theme = "dark"

	out, err := NewHTMLExporter(opts).Export(testTranscript(t))
	require.NoError(t, err)
	assert.Contains(t, string(out), `class="dark-theme"`)
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(testTranscript(t))
	require.NoError(t, err)

	var decoded Transcript
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Mathematics", decoded.Title)
	require.Len(t, decoded.Messages, 3)
	assert.Equal(t, model.SenderUser, decoded.Messages[1].Sender)
	assert.Equal(t, "resp_42.mp3", decoded.Messages[2].AudioRef)
}

func TestExportFormat_WritesFile(t *testing.T) {
	opts := testOptions(t)

	path, err := ExportFormat(testTranscript(t), "markdown", opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(opts.OutputDir, "tatvax_subjects_mathematics_20250314_093000.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Mathematics")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"physics", "physics"},
		{"a/b:c", "a-b-c"},
		{"two words", "two_words"},
		{"", "chat"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sanitizeFilename(tc.in), tc.in)
	}
}
