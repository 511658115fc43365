// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast provides typed, zero-copy views over the concrete syntax tree.
//
// Every grammar production has a named view type (ContinueStatement,
// CallExpression, ...) that wraps a *syntax.Node without copying it.
// Casting is a kind check: Cast[T] succeeds iff T.CanCast reports true
// for the node's kind, and the resulting view shares identity with the
// CST node it came from.
//
// # Optional fields
//
// Source under edit is frequently broken, so every structural accessor
// returns (T, bool). A missing, malformed or wrongly-kinded child is
// reported as absent; no accessor panics or returns an error. The single
// exception is List, which panics with ErrMissingList when a list
// production has no list-grouping child: the parser always materialises
// that node, so its absence is a programmer error.
//
// # Building blocks
//
// All accessors reduce to four primitives:
//
//	Child[N](parent)          first direct child castable to N
//	Children[N](parent)       lazy single-pass cursor over castable children
//	List[N](parent)           typed view of the list-grouping child
//	Token(parent, kind)       first direct child token of a kind
//
// # Thread Safety
//
// Views are immutable values over an immutable tree and are safe for
// concurrent use. A view must not outlive the tree it was cast from.
package ast

import (
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// AstNode is the constraint satisfied by every typed node view.
//
// CanCast must be a pure function of the kind and must agree with Cast.
// The unexported wrap method keeps the set of views closed to this
// package.
type AstNode[N any] interface {
	CanCast(kind syntax.Kind) bool
	Syntax() *syntax.Node
	wrap(n *syntax.Node) N
}

// AstToken is the constraint satisfied by every typed token view.
type AstToken[T any] interface {
	CanCast(kind syntax.Kind) bool
	Syntax() *syntax.Token
	wrap(t *syntax.Token) T
}

// Cast views n as N. It returns absent for nil nodes and for nodes whose
// kind N does not claim.
func Cast[N AstNode[N]](n *syntax.Node) (N, bool) {
	var zero N
	if n == nil || !zero.CanCast(n.Kind()) {
		return zero, false
	}
	return zero.wrap(n), true
}

// CastToken views t as T. It returns absent for nil tokens and for tokens
// whose kind T does not claim.
func CastToken[T AstToken[T]](t *syntax.Token) (T, bool) {
	var zero T
	if t == nil || !zero.CanCast(t.Kind()) {
		return zero, false
	}
	return zero.wrap(t), true
}

// node is embedded by every view. It holds the only reference to the
// underlying CST node.
type node struct {
	raw *syntax.Node
}

// Syntax returns the underlying CST node.
func (n node) Syntax() *syntax.Node {
	return n.raw
}

// Kind returns the kind of the underlying CST node.
func (n node) Kind() syntax.Kind {
	if n.raw == nil {
		return syntax.KindTombstone
	}
	return n.raw.Kind()
}

// Text returns the node's text without leading and trailing trivia.
func (n node) Text() string {
	if n.raw == nil {
		return ""
	}
	return n.raw.TrimmedText()
}

// Range returns the node's range without leading and trailing trivia.
func (n node) Range() syntax.TextRange {
	if n.raw == nil {
		return syntax.TextRange{}
	}
	return n.raw.TrimmedRange()
}

// token is embedded by every token view.
type token struct {
	raw *syntax.Token
}

// Syntax returns the underlying CST token.
func (t token) Syntax() *syntax.Token {
	return t.raw
}

// Kind returns the kind of the underlying CST token.
func (t token) Kind() syntax.Kind {
	if t.raw == nil {
		return syntax.KindTombstone
	}
	return t.raw.Kind()
}

// Text returns the token's exact text. Tokens carry no trivia, so the
// trimmed and full texts coincide.
func (t token) Text() string {
	if t.raw == nil {
		return ""
	}
	return t.raw.Text()
}

// Range returns the token's range.
func (t token) Range() syntax.TextRange {
	if t.raw == nil {
		return syntax.TextRange{}
	}
	return t.raw.Range()
}
