// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formatter

import (
	"strings"

	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// =============================================================================
// Items
// =============================================================================

// listItem formats one list item, falling back to its source text when
// the item cannot be formatted or its IR would drop text.
func (f *Formatter) listItem(n *syntax.Node) ir.Element {
	if el, ok := f.FormatNode(n); ok && preserves(n, el) {
		return el
	}
	return ir.VerbatimText(verbatimText(n))
}

// verbatimText returns n's source from its first to its last
// non-whitespace token. Unlike TrimmedText it keeps comments at either
// end.
func verbatimText(n *syntax.Node) string {
	return trimmedSource(n.Tokens())
}

// trimmedSource joins tokens, dropping whitespace tokens at either end.
func trimmedSource(tokens []*syntax.Token) string {
	first, last := -1, -1
	for i, tok := range tokens {
		if tok.Kind() != syntax.KindWhitespace {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range tokens[first : last+1] {
		sb.WriteString(tok.Text())
	}
	return sb.String()
}

// =============================================================================
// Line lists: statements, class members, switch clauses
// =============================================================================

type lineState uint8

const (
	lineStart lineState = iota
	afterItem
	afterLineComment
	afterBlockComment
)

// sourceLine is a run of list children not separated by a line break.
type sourceLine struct {
	// newlines counts the line breaks before the run.
	newlines int
	children []syntax.Element
}

func sourceLines(children []syntax.Element) []sourceLine {
	var (
		lines []sourceLine
		cur   sourceLine
	)
	for _, child := range children {
		if tok, ok := child.AsToken(); ok && tok.Kind() == syntax.KindWhitespace {
			if n := strings.Count(tok.Text(), "\n"); n > 0 {
				if len(cur.children) > 0 {
					lines = append(lines, cur)
					cur = sourceLine{}
				}
				cur.newlines += n
				continue
			}
		}
		cur.children = append(cur.children, child)
	}
	if len(cur.children) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// formatLine formats the nodes of line. It fails when any node or stray
// token on the line cannot be formatted without losing text, in which
// case the whole line is kept as written.
func (f *Formatter) formatLine(line sourceLine) ([]ir.Element, bool) {
	items := make([]ir.Element, len(line.children))
	for i, child := range line.children {
		if n, ok := child.AsNode(); ok {
			if n.Kind() == syntax.KindEmptyStatement {
				continue
			}
			el, ok := f.FormatNode(n)
			if !ok || !preserves(n, el) {
				return nil, false
			}
			items[i] = el
			continue
		}
		tok, _ := child.AsToken()
		switch tok.Kind() {
		case syntax.KindWhitespace, syntax.KindSemicolon, syntax.KindComment:
		default:
			return nil, false
		}
	}
	return items, true
}

func lineSource(line sourceLine) string {
	var tokens []*syntax.Token
	for _, child := range line.children {
		if n, ok := child.AsNode(); ok {
			tokens = append(tokens, n.Tokens()...)
		} else if tok, ok := child.AsToken(); ok {
			tokens = append(tokens, tok)
		}
	}
	return trimmedSource(tokens)
}

// lineList formats the children of a statement-like list, one item per
// line. Blank lines between items collapse to one; comments keep their
// line; stray semicolons and empty statements are dropped. A source line
// holding anything unformattable is printed verbatim as a whole, so its
// neighbours on that line are never split from it. The second result
// reports whether anything was printed.
func (f *Formatter) lineList(list *syntax.Node) (ir.Element, bool) {
	if list == nil {
		return ir.EmptyElement(), false
	}
	var (
		parts    []ir.Element
		newlines int
		state    = lineStart
	)
	separate := func() {
		switch {
		case state == lineStart:
		case state == afterBlockComment && newlines == 0:
			parts = append(parts, ir.SpaceToken())
		case newlines >= 2:
			parts = append(parts, ir.EmptyLine())
		default:
			parts = append(parts, ir.HardLine())
		}
	}

	for _, line := range sourceLines(list.Children()) {
		newlines += line.newlines
		items, ok := f.formatLine(line)
		if !ok {
			separate()
			parts = append(parts, ir.VerbatimText(lineSource(line)))
			state, newlines = afterItem, 0
			continue
		}

		for i, child := range line.children {
			tok, isToken := child.AsToken()
			if !isToken {
				if items[i] == nil {
					continue
				}
				separate()
				parts = append(parts, items[i])
				state, newlines = afterItem, 0
				continue
			}
			switch tok.Kind() {
			case syntax.KindWhitespace, syntax.KindSemicolon:
				continue
			}
			if state == afterItem && newlines == 0 {
				parts = append(parts, trailingComment(tok))
				if !isBlockComment(tok) {
					state = afterLineComment
				}
			} else {
				separate()
				parts = append(parts, commentElement(tok))
				state = afterBlockComment
				if !isBlockComment(tok) {
					state = afterLineComment
				}
			}
			newlines = 0
		}
	}
	return ir.Concat(parts...), len(parts) > 0
}

// braced wraps a line list in braces, one item per indented line. An
// empty list prints as {}.
func (f *Formatter) braced(list *syntax.Node) ir.Element {
	content, ok := f.lineList(list)
	if !ok {
		return ir.Token("{}")
	}
	return ir.Concat(
		ir.Token("{"),
		ir.Indented(ir.Concat(ir.HardLine(), content)),
		ir.HardLine(),
		ir.Token("}"),
	)
}

// =============================================================================
// Comma lists: arguments, parameters, arrays, objects, specifiers
// =============================================================================

type commaList struct {
	items []ir.Element
	// dangling holds comments of a list without items.
	dangling   []ir.Element
	forceBreak bool
	// endsInHole is set when the last element is an elision, which needs
	// an explicit trailing comma to survive.
	endsInHole bool
	endsInRest bool
}

// commaItems splits a comma-separated list into items. Comments on the
// line of an item stay with it; other comments lead the next item.
func (f *Formatter) commaItems(list *syntax.Node) commaList {
	var (
		out      commaList
		pending  []*syntax.Token
		newlines int
		haveItem bool
	)
	if list == nil {
		return out
	}
	for _, child := range list.Children() {
		tok, isToken := child.AsToken()
		switch {
		case isToken && tok.Kind() == syntax.KindWhitespace:
			newlines += strings.Count(tok.Text(), "\n")

		case isToken && tok.Kind() == syntax.KindComment:
			if len(out.items) > 0 && newlines == 0 && len(pending) == 0 {
				last := len(out.items) - 1
				out.items[last] = ir.Concat(out.items[last], trailingComment(tok))
				if !isBlockComment(tok) {
					out.forceBreak = true
				}
			} else {
				pending = append(pending, tok)
			}
			newlines = 0

		case isToken && tok.Kind() == syntax.KindComma:
			if !haveItem {
				out.items = append(out.items, ir.EmptyElement())
				out.endsInHole, out.endsInRest = true, false
			}
			haveItem, newlines = false, 0

		default:
			var el ir.Element
			rest := false
			if n, ok := child.AsNode(); ok {
				el = f.listItem(n)
				rest = n.Kind() == syntax.KindRestPattern
			} else {
				el = ir.VerbatimText(tok.Text())
			}
			if len(pending) > 0 {
				lead := leadingCommentRun(pending)
				el = ir.Concat(append(lead, el)...)
				pending = nil
			}
			out.items = append(out.items, el)
			out.endsInHole, out.endsInRest = false, rest
			haveItem, newlines = true, 0
		}
	}

	for _, tok := range pending {
		if !isBlockComment(tok) {
			out.forceBreak = true
		}
		if len(out.items) == 0 {
			out.dangling = append(out.dangling, commentElement(tok))
			if !isBlockComment(tok) {
				out.dangling = append(out.dangling, ir.HardLine())
			}
			continue
		}
		last := len(out.items) - 1
		out.items[last] = ir.Concat(out.items[last], trailingComment(tok))
	}
	return out
}

// leadingCommentRun converts comments that precede an item.
func leadingCommentRun(comments []*syntax.Token) []ir.Element {
	out := make([]ir.Element, 0, 2*len(comments))
	for _, tok := range comments {
		out = append(out, commentElement(tok))
		if isBlockComment(tok) {
			out = append(out, ir.SpaceToken())
		} else {
			out = append(out, ir.HardLine())
		}
	}
	return out
}

type delimitedStyle struct {
	// spaced puts bracket spacing inside the delimiters when enabled.
	spaced bool
	// es5 marks lists where ES5 allows a trailing comma.
	es5 bool
	// expand forces one item per line.
	expand bool
}

// delimited formats a comma list between open and close. The group
// breaks to one item per line when it does not fit.
func (f *Formatter) delimited(open, close string, list *syntax.Node, style delimitedStyle) ir.Element {
	cl := f.commaItems(list)
	if len(cl.items) == 0 {
		if len(cl.dangling) == 0 {
			return ir.Token(open + close)
		}
		return &ir.Group{
			Content:     ir.Concat(ir.Token(open), ir.SoftBlockIndent(ir.Concat(cl.dangling...)), ir.Token(close)),
			ShouldBreak: cl.forceBreak,
		}
	}

	content := []ir.Element{ir.Join(ir.Concat(ir.Token(","), ir.SoftLineOrSpace()), cl.items)}
	switch {
	case cl.endsInHole:
		content = append(content, ir.Token(","))
	case f.trailingComma(style.es5) && !cl.endsInRest:
		content = append(content, ir.IfBreakOnly(ir.Token(",")))
	}

	inner := ir.SoftBlockIndent(ir.Concat(content...))
	if style.spaced && f.opts.BracketSpacing {
		inner = ir.SoftBlockIndentWithSpace(ir.Concat(content...))
	}
	return &ir.Group{
		Content:     ir.Concat(ir.Token(open), inner, ir.Token(close)),
		ShouldBreak: cl.forceBreak || style.expand,
	}
}

// trailingComma reports whether broken lists of this class end in a comma.
func (f *Formatter) trailingComma(es5 bool) bool {
	switch f.opts.TrailingComma {
	case config.TrailingCommaAll:
		return true
	case config.TrailingCommaES5:
		return es5
	}
	return false
}

// startsExpanded reports whether the source puts a line break between
// the opening delimiter and the first item of list.
func startsExpanded(list *syntax.Node) bool {
	for _, child := range list.Children() {
		tok, ok := child.AsToken()
		if !ok || !tok.Kind().IsTrivia() {
			return false
		}
		if tok.Kind() == syntax.KindWhitespace && strings.Contains(tok.Text(), "\n") {
			return true
		}
	}
	return false
}
