// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package formatter converts typed syntax trees into format IR.
//
// Each node kind has a routine that reads the node through its typed
// view and assembles IR. Optional children that are absent contribute an
// empty element; a routine whose anchoring keyword is missing returns
// absent. Absence propagates upward until it reaches a statement or
// member list, where the offending item is kept verbatim.
//
// # Comments
//
// A comment is printed by whichever element follows it among its
// siblings: FormatNode and FormatToken prepend the comments directly
// before the element they format. Comments that are children of a
// list-grouping node are placed by the list formatters instead. Any item
// whose IR does not carry all of its source text (comments included) is
// replaced by its original text.
//
// # Thread Safety
//
// A Formatter holds only options and reads a static rule table. It is
// safe for concurrent use.
package formatter

import (
	"github.com/AleutianAI/AleutianFmt/services/format/ast"
	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// Formatter is the per-run conversion context.
type Formatter struct {
	opts config.Options
}

// New returns a formatter using opts.
func New(opts config.Options) *Formatter {
	return &Formatter{opts: opts}
}

// Options returns the formatter's options.
func (f *Formatter) Options() config.Options {
	return f.opts
}

// formatFunc is a routine adapted to untyped dispatch.
type formatFunc func(n *syntax.Node, f *Formatter) (ir.Element, bool)

// rules maps node kinds to routines. It is filled in init because the
// routines themselves dispatch through it.
var rules map[syntax.Kind]formatFunc

// rule adapts a typed routine to untyped dispatch. The cast cannot fail
// for kinds the routine was registered under, but a mismatch still
// reports absent rather than panicking.
func rule[N ast.AstNode[N]](fn func(N, *Formatter) (ir.Element, bool)) formatFunc {
	return func(n *syntax.Node, f *Formatter) (ir.Element, bool) {
		typed, ok := ast.Cast[N](n)
		if !ok {
			return nil, false
		}
		return fn(typed, f)
	}
}

func register(fn formatFunc, kinds ...syntax.Kind) {
	for _, k := range kinds {
		rules[k] = fn
	}
}

// HasRule reports whether nodes of kind k have a formatting routine.
func HasRule(k syntax.Kind) bool {
	_, ok := rules[k]
	return ok
}

// FormatNode converts n to IR.
//
// # Description
//
// Dispatches on n's kind. Comments immediately preceding n among its
// siblings are emitted first, unless n is a list item (the list
// formatter owns those). Comments after n's last significant child are
// appended.
//
// # Outputs
//
//   - ir.Element: The IR for n.
//   - bool: False when n is nil, has no routine (unknown, error or
//     unsupported productions) or its routine reported absent.
func (f *Formatter) FormatNode(n *syntax.Node) (ir.Element, bool) {
	if n == nil {
		return nil, false
	}
	fn, ok := rules[n.Kind()]
	if !ok {
		return nil, false
	}
	body, ok := fn(n, f)
	if !ok {
		return nil, false
	}

	var lead []ir.Element
	if parent := n.Parent(); parent != nil && parent.Kind() != syntax.KindList {
		lead = leadingComments(parent, n.Index())
	}
	trail := trailingComments(n)
	if len(lead) == 0 && len(trail) == 0 {
		return body, true
	}
	parts := make([]ir.Element, 0, len(lead)+1+len(trail))
	parts = append(parts, lead...)
	parts = append(parts, body)
	parts = append(parts, trail...)
	return ir.Concat(parts...), true
}

// FormatToken converts a token to its exact text, preceded by the
// comments that directly precede it among its siblings.
func (f *Formatter) FormatToken(t *syntax.Token) (ir.Element, bool) {
	if t == nil {
		return nil, false
	}
	text := ir.Token(t.Text())
	parent := t.Parent()
	if parent == nil || parent.Kind() == syntax.KindList {
		return text, true
	}
	lead := leadingComments(parent, t.Index())
	if len(lead) == 0 {
		return text, true
	}
	return ir.Concat(append(lead, text)...), true
}

// FormatElement converts a node or token.
func (f *Formatter) FormatElement(e syntax.Element) (ir.Element, bool) {
	if n, ok := e.AsNode(); ok {
		return f.FormatNode(n)
	}
	if t, ok := e.AsToken(); ok {
		return f.FormatToken(t)
	}
	return nil, false
}

// FormatRoot converts a whole tree and terminates it with a line break.
func (f *Formatter) FormatRoot(tree *syntax.Tree) (ir.Element, bool) {
	if tree == nil {
		return nil, false
	}
	body, ok := f.FormatNode(tree.Root())
	if !ok {
		return nil, false
	}
	return ir.Concat(body, ir.HardLine()), true
}

// token formats the first child token of parent with the given kind,
// or prints fallback when the token is missing.
func (f *Formatter) token(parent *syntax.Node, kind syntax.Kind, fallback string) ir.Element {
	if tok, ok := ast.Token(parent, kind); ok {
		el, _ := f.FormatToken(tok)
		return el
	}
	return ir.Token(fallback)
}

// optionalToken formats tok when present and prints nothing otherwise.
func (f *Formatter) optionalToken(tok *syntax.Token, ok bool) ir.Element {
	if !ok {
		return ir.EmptyElement()
	}
	el, _ := f.FormatToken(tok)
	return el
}

// node formats the node behind a typed view.
func (f *Formatter) node(n interface{ Syntax() *syntax.Node }) (ir.Element, bool) {
	return f.FormatNode(n.Syntax())
}
