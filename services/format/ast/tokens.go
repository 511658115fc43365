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
	"strings"

	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// Ident is an identifier token.
type Ident struct{ token }

func (Ident) CanCast(kind syntax.Kind) bool { return kind == syntax.KindIdent }
func (Ident) wrap(t *syntax.Token) Ident    { return Ident{token{t}} }

// Keyword is any reserved or contextual keyword token.
type Keyword struct{ token }

func (Keyword) CanCast(kind syntax.Kind) bool { return kind.IsKeyword() }
func (Keyword) wrap(t *syntax.Token) Keyword  { return Keyword{token{t}} }

// Operator is an operator token, including `=`, `*` and `/`.
type Operator struct{ token }

func (Operator) CanCast(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindOperator, syntax.KindEq, syntax.KindStar, syntax.KindSlash,
		syntax.KindInKeyword, syntax.KindInstanceofKeyword,
		syntax.KindTypeofKeyword, syntax.KindVoidKeyword, syntax.KindDeleteKeyword:
		return true
	}
	return false
}
func (Operator) wrap(t *syntax.Token) Operator { return Operator{token{t}} }

// IsWord reports whether the operator is spelled as a keyword
// (typeof, in, ...).
func (o Operator) IsWord() bool {
	return o.Kind().IsKeyword()
}

// Punct is a punctuation token such as `;`, `,` or a bracket.
type Punct struct{ token }

func (Punct) CanCast(kind syntax.Kind) bool {
	return kind >= syntax.KindSemicolon && kind <= syntax.KindSlash
}
func (Punct) wrap(t *syntax.Token) Punct { return Punct{token{t}} }

// Comment is a line or block comment.
type Comment struct{ token }

func (Comment) CanCast(kind syntax.Kind) bool { return kind == syntax.KindComment }
func (Comment) wrap(t *syntax.Token) Comment  { return Comment{token{t}} }

// IsBlock reports whether the comment is a /* block */ comment.
func (c Comment) IsBlock() bool {
	return strings.HasPrefix(c.Text(), "/*")
}

// IsMultiline reports whether a block comment spans several lines.
func (c Comment) IsMultiline() bool {
	return c.IsBlock() && strings.Contains(c.Text(), "\n")
}

// Whitespace is a run of whitespace trivia.
type Whitespace struct{ token }

func (Whitespace) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindWhitespace }
func (Whitespace) wrap(t *syntax.Token) Whitespace { return Whitespace{token{t}} }

// Newlines counts the line breaks in the run.
func (w Whitespace) Newlines() int {
	return strings.Count(w.Text(), "\n")
}
