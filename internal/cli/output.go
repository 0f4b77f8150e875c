// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jeranaias/tatvax-tui/internal/model"
	"github.com/jeranaias/tatvax-tui/internal/render"
	"github.com/jeranaias/tatvax-tui/internal/util"
)

// =============================================================================
// PRINTER
// =============================================================================

// Printer writes plain (non-TUI) output. Colors come from fatih/color and
// are switched off globally by SetupColor when stdout is not a terminal.
type Printer struct {
	out      io.Writer
	errOut   io.Writer
	markdown *render.Terminal
	width    int
}

// NewPrinter creates a printer that renders Markdown at the given width.
func NewPrinter(out, errOut io.Writer, markdown *render.Terminal, width int) *Printer {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	return &Printer{out: out, errOut: errOut, markdown: markdown, width: width}
}

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgHiBlack)
	userColor    = color.New(color.FgBlue, color.Bold)
	botColor     = color.New(color.FgMagenta, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// Title prints a heading with an underline.
func (p *Printer) Title(text string) {
	titleColor.Fprintln(p.out, text)
	fmt.Fprintln(p.out, strings.Repeat("─", util.StringWidth(text)))
}

// Field prints "label  value" with the label padded to 18 cells.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", labelColor.Sprint(util.PadRight(label, 18)), value)
}

// Line prints text as is.
func (p *Printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a confirmation.
func (p *Printer) Success(text string) {
	fmt.Fprintf(p.out, "%s %s\n", successColor.Sprint("✓"), text)
}

// Warn prints a warning to the error stream.
func (p *Printer) Warn(text string) {
	fmt.Fprintf(p.errOut, "%s %s\n", warnColor.Sprint("!"), text)
}

// Error prints an error to the error stream.
func (p *Printer) Error(text string) {
	fmt.Fprintf(p.errOut, "%s %s\n", errorColor.Sprint("✗"), text)
}

// Markdown renders assistant Markdown for the terminal.
func (p *Printer) Markdown(md string) {
	fmt.Fprintln(p.out, p.markdown.Render(md, p.width))
}

// Message prints one conversation message. User text is escaped; assistant
// text is rendered as Markdown.
func (p *Printer) Message(msg *model.Message, showTime bool) {
	header := botColor.Sprint(msg.Sender.DisplayName())
	if msg.IsUser() {
		header = userColor.Sprint(msg.Sender.DisplayName())
	}
	if showTime {
		header += " " + labelColor.Sprint(msg.Timestamp.Format("15:04"))
	}
	if msg.HasAudio() {
		header += " " + labelColor.Sprint("♪")
	}
	fmt.Fprintln(p.out, header)

	if msg.IsUser() {
		fmt.Fprintln(p.out, WrapText(render.EscapeTerminal(msg.Content), p.width))
	} else {
		p.Markdown(msg.Content)
	}
	fmt.Fprintln(p.out)
}
