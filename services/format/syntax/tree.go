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

import (
	"fmt"
	"strings"
)

// TextRange is a half-open byte range [Start, End) into the source.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside the range.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// String renders the range as "start..end".
func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Node is an inner entry of the concrete syntax tree.
//
// Description:
//
//	A Node owns an ordered list of children (nodes and tokens interleaved,
//	trivia included) and knows its parent and its position among the
//	parent's children. Nodes are only reachable by traversal from the
//	tree root.
//
// Thread Safety:
//
//	Nodes are immutable once the builder finishes and are safe for
//	concurrent reads.
type Node struct {
	kind     Kind
	offset   int
	width    int
	children []Element
	parent   *Node
	index    int

	// grammar keeps the tree-sitter type for ERROR and unknown productions.
	grammar string
}

// Kind returns the node's grammar production.
func (n *Node) Kind() Kind {
	return n.kind
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Index returns the node's position in its parent's children.
func (n *Node) Index() int {
	return n.index
}

// GrammarName returns the tree-sitter production name for nodes lowered
// from productions without a dedicated kind. Empty otherwise.
func (n *Node) GrammarName() string {
	return n.grammar
}

// Children returns the direct children in source order, trivia included.
// The returned slice must not be modified.
func (n *Node) Children() []Element {
	return n.children
}

// ChildNodes returns the direct child nodes in source order.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for _, child := range n.children {
		if child.node != nil {
			nodes = append(nodes, child.node)
		}
	}
	return nodes
}

// Range returns the full range of the node, trivia included.
func (n *Node) Range() TextRange {
	return TextRange{Start: n.offset, End: n.offset + n.width}
}

// Text returns the full source text of the node, trivia included.
func (n *Node) Text() string {
	var sb strings.Builder
	sb.Grow(n.width)
	n.writeTokens(&sb, nil, nil)
	return sb.String()
}

// FirstToken returns the first non-trivia token inside the node.
func (n *Node) FirstToken() *Token {
	for _, child := range n.children {
		if tok := child.firstToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// LastToken returns the last non-trivia token inside the node.
func (n *Node) LastToken() *Token {
	for i := len(n.children) - 1; i >= 0; i-- {
		if tok := n.children[i].lastToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// TrimmedRange returns the range from the first to the last non-trivia
// token. A node holding only trivia yields an empty range at its start.
func (n *Node) TrimmedRange() TextRange {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil || last == nil {
		return TextRange{Start: n.offset, End: n.offset}
	}
	return TextRange{Start: first.offset, End: last.offset + len(last.text)}
}

// TrimmedText returns the node's text without leading and trailing trivia.
func (n *Node) TrimmedText() string {
	first, last := n.FirstToken(), n.LastToken()
	if first == nil || last == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(last.offset + len(last.text) - first.offset)
	n.writeTokens(&sb, first, last)
	return sb.String()
}

// writeTokens appends token text in document order. When from is set,
// tokens before it are skipped; when to is set, writing stops after it.
func (n *Node) writeTokens(sb *strings.Builder, from, to *Token) bool {
	for _, child := range n.children {
		if child.node != nil {
			if child.node.writeTokens(sb, from, to) {
				return true
			}
			continue
		}
		tok := child.token
		if from != nil && tok.offset < from.offset {
			continue
		}
		sb.WriteString(tok.text)
		if tok == to {
			return true
		}
	}
	return false
}

// Walk visits the node and its descendants in preorder. Returning false
// from visit skips the subtree of that node.
func (n *Node) Walk(visit func(Element) bool) {
	if !visit(Element{node: n}) {
		return
	}
	for _, child := range n.children {
		if child.node != nil {
			child.node.Walk(visit)
			continue
		}
		visit(child)
	}
}

// Tokens returns every token under the node in document order.
func (n *Node) Tokens() []*Token {
	var tokens []*Token
	n.Walk(func(e Element) bool {
		if e.token != nil {
			tokens = append(tokens, e.token)
		}
		return true
	})
	return tokens
}

// Token is a leaf of the concrete syntax tree with literal source text.
type Token struct {
	kind   Kind
	offset int
	text   string
	parent *Node
	index  int
}

// Kind returns the token's lexical class.
func (t *Token) Kind() Kind {
	return t.kind
}

// Text returns the exact source text of the token.
func (t *Token) Text() string {
	return t.text
}

// Range returns the token's byte range.
func (t *Token) Range() TextRange {
	return TextRange{Start: t.offset, End: t.offset + len(t.text)}
}

// Parent returns the node that owns the token.
func (t *Token) Parent() *Node {
	return t.parent
}

// Index returns the token's position in its parent's children.
func (t *Token) Index() int {
	return t.index
}

// PrevSibling returns the element before the token in its parent.
func (t *Token) PrevSibling() (Element, bool) {
	if t.parent == nil || t.index == 0 {
		return Element{}, false
	}
	return t.parent.children[t.index-1], true
}

// NextSibling returns the element after the token in its parent.
func (t *Token) NextSibling() (Element, bool) {
	if t.parent == nil || t.index+1 >= len(t.parent.children) {
		return Element{}, false
	}
	return t.parent.children[t.index+1], true
}

// PrevToken returns the previous token in document order, trivia included.
func (t *Token) PrevToken() *Token {
	parent, index := t.parent, t.index
	for parent != nil {
		for i := index - 1; i >= 0; i-- {
			if tok := parent.children[i].lastAnyToken(); tok != nil {
				return tok
			}
		}
		parent, index = parent.parent, parent.index
	}
	return nil
}

// NextToken returns the next token in document order, trivia included.
func (t *Token) NextToken() *Token {
	parent, index := t.parent, t.index
	for parent != nil {
		for i := index + 1; i < len(parent.children); i++ {
			if tok := parent.children[i].firstAnyToken(); tok != nil {
				return tok
			}
		}
		parent, index = parent.parent, parent.index
	}
	return nil
}

// Element is either a node or a token. The zero value is neither.
type Element struct {
	node  *Node
	token *Token
}

// NodeElement wraps a node as an element.
func NodeElement(n *Node) Element {
	return Element{node: n}
}

// TokenElement wraps a token as an element.
func TokenElement(t *Token) Element {
	return Element{token: t}
}

// AsNode returns the wrapped node, if any.
func (e Element) AsNode() (*Node, bool) {
	return e.node, e.node != nil
}

// AsToken returns the wrapped token, if any.
func (e Element) AsToken() (*Token, bool) {
	return e.token, e.token != nil
}

// Kind returns the kind of the wrapped value, or KindTombstone.
func (e Element) Kind() Kind {
	switch {
	case e.node != nil:
		return e.node.kind
	case e.token != nil:
		return e.token.kind
	default:
		return KindTombstone
	}
}

// Range returns the full range of the wrapped value.
func (e Element) Range() TextRange {
	switch {
	case e.node != nil:
		return e.node.Range()
	case e.token != nil:
		return e.token.Range()
	default:
		return TextRange{}
	}
}

func (e Element) firstToken() *Token {
	if e.node != nil {
		return e.node.FirstToken()
	}
	if e.token != nil && !e.token.kind.IsTrivia() {
		return e.token
	}
	return nil
}

func (e Element) lastToken() *Token {
	if e.node != nil {
		return e.node.LastToken()
	}
	if e.token != nil && !e.token.kind.IsTrivia() {
		return e.token
	}
	return nil
}

func (e Element) firstAnyToken() *Token {
	if e.token != nil {
		return e.token
	}
	if e.node == nil {
		return nil
	}
	for _, child := range e.node.children {
		if tok := child.firstAnyToken(); tok != nil {
			return tok
		}
	}
	return nil
}

func (e Element) lastAnyToken() *Token {
	if e.token != nil {
		return e.token
	}
	if e.node == nil {
		return nil
	}
	for i := len(e.node.children) - 1; i >= 0; i-- {
		if tok := e.node.children[i].lastAnyToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// Severity grades a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic records a recovered parse problem.
type Diagnostic struct {
	Range    TextRange `json:"range"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// Tree is a lowered concrete syntax tree plus the source it covers.
type Tree struct {
	root        *Node
	source      string
	language    Language
	diagnostics []Diagnostic
}

// NewTree wraps a built root node. Used by tests and tools that build
// trees without the parser.
func NewTree(root *Node, lang Language) *Tree {
	return &Tree{root: root, source: root.Text(), language: lang}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Source returns the text the tree was built from.
func (t *Tree) Source() string {
	return t.source
}

// Language returns the grammar the tree was parsed with.
func (t *Tree) Language() Language {
	return t.language
}

// Diagnostics returns the problems recorded during parsing and lowering.
func (t *Tree) Diagnostics() []Diagnostic {
	return t.diagnostics
}

// HasErrors reports whether any error diagnostic was recorded.
func (t *Tree) HasErrors() bool {
	for _, d := range t.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
