// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package printer lays out format IR into text.
//
// The algorithm is the classic Wadler/Prettier one: every group is
// printed flat when its content fits in the remaining line width, and
// broken otherwise. Groups containing a hard line are always broken.
// Indentation is written lazily so lines never end in whitespace, and
// consecutive hard lines collapse to one line break.
package printer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
)

// Options controls layout.
type Options struct {
	UseTabs     bool
	IndentWidth int
	LineWidth   int
	CRLF        bool
}

// FromConfig derives printer options from formatter options.
func FromConfig(o config.Options) Options {
	return Options{
		UseTabs:     o.UseTabs(),
		IndentWidth: o.IndentWidth,
		LineWidth:   o.LineWidth,
		CRLF:        o.LineEnding == config.LineEndingCRLF,
	}
}

// Printed is the laid-out text.
type Printed struct {
	Code string
}

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	indent int
	mode   mode
	elem   ir.Element
}

type printer struct {
	opts   Options
	broken map[*ir.Group]bool

	out strings.Builder
	// column is the display width of the current line, pending
	// indentation included.
	column int
	// pendingIndent is the indentation level owed to the current line;
	// it is written before the first text.
	pendingIndent int
	atLineStart   bool
	pendingSpace  bool
	// newlines counts the line breaks at the end of the output.
	newlines int

	suffixes []command
}

// Print lays out e.
//
// # Description
//
// Print never fails: malformed IR (nil elements) prints nothing. Text is
// measured in display cells, so wide runes count double.
//
// # Inputs
//
//   - e: The IR to print.
//   - opts: Indentation, width and line ending. Non-positive widths fall
//     back to 2 and 80.
//
// # Outputs
//
//   - Printed: The text, using the requested line ending.
//
// # Thread Safety
//
// Safe for concurrent use; each call owns its state.
func Print(e ir.Element, opts Options) Printed {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 2
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 80
	}
	p := &printer{opts: opts, broken: make(map[*ir.Group]bool), atLineStart: true}
	propagateBreaks(e, p.broken)
	p.run(e)

	code := p.out.String()
	if opts.CRLF {
		code = strings.ReplaceAll(code, "\n", "\r\n")
	}
	return Printed{Code: code}
}

// propagateBreaks marks every group that must break and reports whether e
// forces its enclosing group to break.
func propagateBreaks(e ir.Element, broken map[*ir.Group]bool) bool {
	switch v := e.(type) {
	case ir.Line:
		return v.Mode == ir.LineHard || v.Mode == ir.LineEmpty
	case ir.Comment:
		return v.Block && strings.Contains(v.Text, "\n")
	case ir.Verbatim:
		return strings.Contains(v.Text, "\n")
	case *ir.Group:
		inner := propagateBreaks(v.Content, broken)
		if inner || v.ShouldBreak {
			broken[v] = true
		}
		return inner || v.ShouldBreak
	case ir.Indent:
		return propagateBreaks(v.Content, broken)
	case ir.LineSuffix:
		propagateBreaks(v.Content, broken)
		return false
	case ir.IfBreak:
		b := propagateBreaks(v.Break, broken)
		f := propagateBreaks(v.Flat, broken)
		return b || f
	case ir.List:
		forced := false
		for _, child := range v.Elements {
			if propagateBreaks(child, broken) {
				forced = true
			}
		}
		return forced
	}
	return false
}

func (p *printer) run(root ir.Element) {
	stack := []command{{indent: 0, mode: modeBreak, elem: root}}
	for len(stack) > 0 {
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := cmd.elem.(type) {
		case nil, ir.Empty:
		case ir.Text:
			p.writeText(v.Value)
		case ir.Verbatim:
			p.writeText(v.Text)
		case ir.Comment:
			p.writeText(v.Text)
		case ir.Space:
			if !p.atLineStart {
				p.pendingSpace = true
			}
		case ir.List:
			for i := len(v.Elements) - 1; i >= 0; i-- {
				stack = append(stack, command{cmd.indent, cmd.mode, v.Elements[i]})
			}
		case ir.Indent:
			stack = append(stack, command{cmd.indent + 1, cmd.mode, v.Content})
		case *ir.Group:
			m := modeFlat
			if cmd.mode == modeBreak {
				if p.broken[v] || !p.fits(command{cmd.indent, modeFlat, v.Content}, stack) {
					m = modeBreak
				}
			}
			stack = append(stack, command{cmd.indent, m, v.Content})
		case ir.IfBreak:
			branch := v.Flat
			if cmd.mode == modeBreak {
				branch = v.Break
			}
			stack = append(stack, command{cmd.indent, cmd.mode, branch})
		case ir.LineSuffix:
			p.suffixes = append(p.suffixes, command{cmd.indent, cmd.mode, v.Content})
		case ir.Line:
			if cmd.mode == modeFlat && (v.Mode == ir.LineSoft || v.Mode == ir.LineSoftOrSpace) {
				if v.Mode == ir.LineSoftOrSpace && !p.atLineStart {
					p.pendingSpace = true
				}
				continue
			}
			if len(p.suffixes) > 0 {
				stack = append(stack, cmd)
				for i := len(p.suffixes) - 1; i >= 0; i-- {
					stack = append(stack, p.suffixes[i])
				}
				p.suffixes = p.suffixes[:0]
				continue
			}
			p.newline(cmd.indent, v.Mode == ir.LineEmpty)
		}

		if len(stack) == 0 && len(p.suffixes) > 0 {
			for i := len(p.suffixes) - 1; i >= 0; i-- {
				stack = append(stack, p.suffixes[i])
			}
			p.suffixes = p.suffixes[:0]
		}
	}
}

// newline ends the current line. Repeated hard lines do not stack; an
// empty line guarantees exactly one blank line.
func (p *printer) newline(indent int, blank bool) {
	p.pendingSpace = false
	want := 1
	if blank {
		want = 2
	}
	if p.out.Len() == 0 {
		p.pendingIndent = indent
		return
	}
	for p.newlines < want {
		p.out.WriteByte('\n')
		p.newlines++
	}
	p.pendingIndent = indent
	p.atLineStart = true
	p.column = indent * p.opts.IndentWidth
}

func (p *printer) writeText(text string) {
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if p.atLineStart {
		if p.opts.UseTabs {
			p.out.WriteString(strings.Repeat("\t", p.pendingIndent))
		} else {
			p.out.WriteString(strings.Repeat(" ", p.pendingIndent*p.opts.IndentWidth))
		}
		p.column = p.pendingIndent * p.opts.IndentWidth
		p.atLineStart = false
	} else if p.pendingSpace {
		p.out.WriteByte(' ')
		p.column++
	}
	p.pendingSpace = false

	p.out.WriteString(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.column = runewidth.StringWidth(text[i+1:])
		p.newlines = 0
		if i == len(text)-1 {
			p.newlines = 1
		}
		return
	}
	p.column += runewidth.StringWidth(text)
	p.newlines = 0
}

// fits reports whether next, printed in its mode, and the commands after
// it up to the first line break fit in the remaining width.
func (p *printer) fits(next command, rest []command) bool {
	width := p.opts.LineWidth - p.column
	if p.atLineStart {
		width = p.opts.LineWidth - p.pendingIndent*p.opts.IndentWidth
	} else if p.pendingSpace {
		width--
	}
	stack := []command{next}
	restIdx := len(rest)

	for width >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			stack = append(stack, rest[restIdx])
			continue
		}
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if text, ok := textOf(cmd.elem); ok {
			w, done := measure(text)
			if done {
				return width >= w
			}
			width -= w
			continue
		}

		switch v := cmd.elem.(type) {
		case ir.Space:
			width--
		case ir.List:
			for i := len(v.Elements) - 1; i >= 0; i-- {
				stack = append(stack, command{cmd.indent, cmd.mode, v.Elements[i]})
			}
		case ir.Indent:
			stack = append(stack, command{cmd.indent + 1, cmd.mode, v.Content})
		case *ir.Group:
			m := cmd.mode
			if p.broken[v] {
				m = modeBreak
			}
			stack = append(stack, command{cmd.indent, m, v.Content})
		case ir.IfBreak:
			branch := v.Flat
			if cmd.mode == modeBreak {
				branch = v.Break
			}
			stack = append(stack, command{cmd.indent, cmd.mode, branch})
		case ir.Line:
			if cmd.mode == modeBreak || v.Mode == ir.LineHard || v.Mode == ir.LineEmpty {
				return true
			}
			if v.Mode == ir.LineSoftOrSpace {
				width--
			}
		}
	}
	return false
}

func textOf(e ir.Element) (string, bool) {
	switch v := e.(type) {
	case ir.Text:
		return v.Value, true
	case ir.Verbatim:
		return v.Text, true
	case ir.Comment:
		return v.Text, true
	}
	return "", false
}

// measure returns the display width of text up to its first line break
// and whether a line break was found.
func measure(text string) (int, bool) {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return runewidth.StringWidth(strings.TrimSuffix(text[:i], "\r")), true
	}
	return runewidth.StringWidth(text), false
}
