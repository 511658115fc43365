// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import "fmt"

// Builder assembles a CST from a stream of start/token/finish events.
//
// Description:
//
//	Offsets are accumulated from token text, so the resulting tree is
//	lossless: concatenating every token reproduces the input. The first
//	StartNode opens the root; events after the root is finished, or
//	tokens outside any node, make Finish fail with ErrUnbalancedTree.
//
// Example:
//
//	b := syntax.NewBuilder()
//	b.StartNode(syntax.KindContinueStatement)
//	b.Token(syntax.KindContinueKeyword, "continue")
//	b.Token(syntax.KindSemicolon, ";")
//	b.FinishNode()
//	root, err := b.Finish()
//
// Thread Safety:
//
//	Builder is not safe for concurrent use.
type Builder struct {
	stack  []*Node
	root   *Node
	offset int
	err    error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// StartNode opens a node of the given kind as the last child of the
// currently open node.
func (b *Builder) StartNode(kind Kind) {
	b.startNode(kind, "")
}

func (b *Builder) startNode(kind Kind, grammar string) {
	if b.err != nil {
		return
	}
	if !kind.IsNode() {
		b.fail("StartNode with token kind %s", kind)
		return
	}
	if b.root != nil && len(b.stack) == 0 {
		b.fail("StartNode %s after the root was finished", kind)
		return
	}
	node := &Node{kind: kind, offset: b.offset, grammar: grammar}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		node.parent = parent
		node.index = len(parent.children)
		parent.children = append(parent.children, Element{node: node})
	} else {
		b.root = node
	}
	b.stack = append(b.stack, node)
}

// Token appends a token to the currently open node.
func (b *Builder) Token(kind Kind, text string) {
	if b.err != nil {
		return
	}
	if !kind.IsToken() {
		b.fail("Token with node kind %s", kind)
		return
	}
	if len(b.stack) == 0 {
		b.fail("Token %s outside of any node", kind)
		return
	}
	parent := b.stack[len(b.stack)-1]
	tok := &Token{
		kind:   kind,
		offset: b.offset,
		text:   text,
		parent: parent,
		index:  len(parent.children),
	}
	parent.children = append(parent.children, Element{token: tok})
	b.offset += len(text)
}

// FinishNode closes the most recently opened node.
func (b *Builder) FinishNode() {
	if b.err != nil {
		return
	}
	if len(b.stack) == 0 {
		b.fail("FinishNode without an open node")
		return
	}
	node := b.stack[len(b.stack)-1]
	node.width = b.offset - node.offset
	b.stack = b.stack[:len(b.stack)-1]
}

// Finish returns the root once every opened node has been closed.
func (b *Builder) Finish() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.root == nil {
		return nil, fmt.Errorf("%w: no root node", ErrUnbalancedTree)
	}
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("%w: %d node(s) left open", ErrUnbalancedTree, len(b.stack))
	}
	return b.root, nil
}

func (b *Builder) fail(format string, args ...any) {
	b.err = fmt.Errorf("%w: %s", ErrUnbalancedTree, fmt.Sprintf(format, args...))
}
