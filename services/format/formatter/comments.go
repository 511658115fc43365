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

	"github.com/AleutianAI/AleutianFmt/services/format/ast"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// commentElement converts a comment token to IR.
func commentElement(tok *syntax.Token) ir.Element {
	return ir.CommentText(strings.TrimRight(tok.Text(), "\r"))
}

func isBlockComment(tok *syntax.Token) bool {
	c, ok := ast.CastToken[ast.Comment](tok)
	return ok && c.IsBlock()
}

// newlinesBetween counts line breaks in the whitespace tokens of
// children[from:to].
func newlinesBetween(children []syntax.Element, from, to int) int {
	count := 0
	for i := from; i < to && i < len(children); i++ {
		if tok, ok := children[i].AsToken(); ok && tok.Kind() == syntax.KindWhitespace {
			count += strings.Count(tok.Text(), "\n")
		}
	}
	return count
}

// leadingComments returns IR for the comments in the trivia run directly
// before children[index] of parent. Line comments and comments followed
// by a line break end with a hard line; other block comments with a
// space.
func leadingComments(parent *syntax.Node, index int) []ir.Element {
	children := parent.Children()
	if index > len(children) {
		index = len(children)
	}
	start := index
	for start > 0 && children[start-1].Kind().IsTrivia() {
		start--
	}

	var out []ir.Element
	for i := start; i < index; i++ {
		tok, ok := children[i].AsToken()
		if !ok || tok.Kind() != syntax.KindComment {
			continue
		}
		out = append(out, commentElement(tok))
		if !isBlockComment(tok) || newlinesBetween(children, i+1, nextComment(children, i+1, index)) > 0 {
			out = append(out, ir.HardLine())
		} else {
			out = append(out, ir.SpaceToken())
		}
	}
	return out
}

// nextComment returns the index of the first comment in children[from:to],
// or to when there is none.
func nextComment(children []syntax.Element, from, to int) int {
	for i := from; i < to; i++ {
		if children[i].Kind() == syntax.KindComment {
			return i
		}
	}
	return to
}

// trailingComments returns IR for comments after the last significant
// child of n. Line comments are deferred to the end of the line.
func trailingComments(n *syntax.Node) []ir.Element {
	children := n.Children()
	last := len(children) - 1
	for last >= 0 && children[last].Kind().IsTrivia() {
		last--
	}

	var out []ir.Element
	for i := last + 1; i < len(children); i++ {
		tok, ok := children[i].AsToken()
		if !ok || tok.Kind() != syntax.KindComment {
			continue
		}
		out = append(out, trailingComment(tok))
	}
	return out
}

// trailingComment keeps a comment on the line of the code before it.
func trailingComment(tok *syntax.Token) ir.Element {
	if isBlockComment(tok) {
		return ir.Concat(ir.SpaceToken(), commentElement(tok))
	}
	return ir.LineSuffixElement(ir.Concat(ir.SpaceToken(), commentElement(tok)))
}
