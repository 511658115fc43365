// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"errors"
	"fmt"
	"iter"

	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// ErrMissingList is the panic value (wrapped) raised by List when a list
// production has no list-grouping child.
var ErrMissingList = errors.New("list node missing")

// Child returns the first direct child of parent that casts to N.
func Child[N AstNode[N]](parent *syntax.Node) (N, bool) {
	return Children[N](parent).Next()
}

// Children returns a fresh cursor over the direct children of parent that
// cast to N, in source order.
func Children[N AstNode[N]](parent *syntax.Node) *AstChildren[N] {
	if parent == nil {
		return &AstChildren[N]{}
	}
	return &AstChildren[N]{children: parent.Children()}
}

// Token returns the first direct child token of parent with the given
// kind.
func Token(parent *syntax.Node, kind syntax.Kind) (*syntax.Token, bool) {
	if parent == nil {
		return nil, false
	}
	for _, child := range parent.Children() {
		if tok, ok := child.AsToken(); ok && tok.Kind() == kind {
			return tok, true
		}
	}
	return nil, false
}

// List returns the typed view of parent's list-grouping child.
//
// Description:
//
//	Productions with a many-child field always carry a KindList child,
//	even when the list is empty. A missing list means the tree was built
//	in violation of that guarantee, so List panics with an error wrapping
//	ErrMissingList instead of returning absent.
func List[N AstNode[N]](parent *syntax.Node) AstNodeList[N] {
	if parent != nil {
		for _, child := range parent.Children() {
			if n, ok := child.AsNode(); ok && n.Kind() == syntax.KindList {
				return AstNodeList[N]{list: n}
			}
		}
	}
	kind := syntax.KindTombstone
	if parent != nil {
		kind = parent.Kind()
	}
	panic(fmt.Errorf("%w: %s has no list child", ErrMissingList, kind))
}

// AstChildren is a lazy, single-pass sequence of typed children.
//
// It is not restartable: once Next reports absent the cursor stays
// exhausted. Call the accessor again to obtain a fresh sequence.
type AstChildren[N AstNode[N]] struct {
	children []syntax.Element
	pos      int
}

// Next returns the next child that casts to N.
func (c *AstChildren[N]) Next() (N, bool) {
	for c.pos < len(c.children) {
		child := c.children[c.pos]
		c.pos++
		if n, ok := child.AsNode(); ok {
			if typed, ok := Cast[N](n); ok {
				return typed, true
			}
		}
	}
	var zero N
	return zero, false
}

// All drains the cursor as a range-over-func sequence.
func (c *AstChildren[N]) All() iter.Seq[N] {
	return func(yield func(N) bool) {
		for {
			n, ok := c.Next()
			if !ok || !yield(n) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice.
func (c *AstChildren[N]) Collect() []N {
	var out []N
	for n := range c.All() {
		out = append(out, n)
	}
	return out
}

// AstNodeList is a typed view over a list-grouping node.
//
// Len, First and Last are derived by iterating from the start of the
// list; there is no random-access index.
type AstNodeList[N AstNode[N]] struct {
	list *syntax.Node
}

// Syntax returns the list-grouping node.
func (l AstNodeList[N]) Syntax() *syntax.Node {
	return l.list
}

// Parent returns the node that owns the list.
func (l AstNodeList[N]) Parent() *syntax.Node {
	return l.list.Parent()
}

// Iter returns a fresh cursor over the list's items.
func (l AstNodeList[N]) Iter() *AstChildren[N] {
	return Children[N](l.list)
}

// Len counts the items that cast to N.
func (l AstNodeList[N]) Len() int {
	count := 0
	it := l.Iter()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	return count
}

// IsEmpty reports whether the list has no items.
func (l AstNodeList[N]) IsEmpty() bool {
	_, ok := l.First()
	return !ok
}

// First returns the first item.
func (l AstNodeList[N]) First() (N, bool) {
	return l.Iter().Next()
}

// Last returns the last item.
func (l AstNodeList[N]) Last() (N, bool) {
	var last N
	found := false
	for n := range l.Iter().All() {
		last, found = n, true
	}
	return last, found
}

// Text returns the full text of the list, trivia included.
func (l AstNodeList[N]) Text() string {
	return l.list.Text()
}

// Range returns the full range of the list, trivia included.
func (l AstNodeList[N]) Range() syntax.TextRange {
	return l.list.Range()
}

// nth returns the index-th direct child of parent that casts to N.
func nth[N AstNode[N]](parent *syntax.Node, index int) (N, bool) {
	it := Children[N](parent)
	for {
		n, ok := it.Next()
		if !ok || index == 0 {
			return n, ok
		}
		index--
	}
}

// childAfter returns the first direct child castable to N that follows
// the first direct token of the given kind.
func childAfter[N AstNode[N]](parent *syntax.Node, kind syntax.Kind) (N, bool) {
	var zero N
	tok, ok := Token(parent, kind)
	if !ok {
		return zero, false
	}
	rest := parent.Children()[tok.Index()+1:]
	return (&AstChildren[N]{children: rest}).Next()
}

// childBefore returns the last direct child castable to N that precedes
// the first direct token of the given kind.
func childBefore[N AstNode[N]](parent *syntax.Node, kind syntax.Kind) (N, bool) {
	var zero N
	tok, ok := Token(parent, kind)
	if !ok {
		return zero, false
	}
	var last N
	found := false
	for n := range (&AstChildren[N]{children: parent.Children()[:tok.Index()]}).All() {
		last, found = n, true
	}
	if !found {
		return zero, false
	}
	return last, true
}

// firstToken returns the first direct child token matching one of kinds.
func firstToken(parent *syntax.Node, kinds ...syntax.Kind) (*syntax.Token, bool) {
	if parent == nil {
		return nil, false
	}
	for _, child := range parent.Children() {
		tok, ok := child.AsToken()
		if !ok {
			continue
		}
		for _, kind := range kinds {
			if tok.Kind() == kind {
				return tok, true
			}
		}
	}
	return nil, false
}

// operatorToken returns the first direct non-trivia token of parent.
func operatorToken(parent *syntax.Node) (*syntax.Token, bool) {
	if parent == nil {
		return nil, false
	}
	for _, child := range parent.Children() {
		if tok, ok := child.AsToken(); ok && !tok.Kind().IsTrivia() {
			return tok, true
		}
	}
	return nil, false
}
