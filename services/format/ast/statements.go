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

import "github.com/AleutianAI/AleutianFmt/services/format/syntax"

// Program is the root of a source file.
type Program struct{ node }

func (Program) CanCast(kind syntax.Kind) bool { return kind == syntax.KindProgram }
func (Program) wrap(n *syntax.Node) Program   { return Program{node{n}} }

func (p Program) Statements() AstNodeList[Statement] { return List[Statement](p.raw) }

// HashBangLine is a `#!` interpreter line at the start of a file.
type HashBangLine struct{ node }

func (HashBangLine) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindHashBangLine }
func (HashBangLine) wrap(n *syntax.Node) HashBangLine { return HashBangLine{node{n}} }

// StatementBlock is a braced statement list.
type StatementBlock struct{ node }

func (StatementBlock) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindStatementBlock }
func (StatementBlock) wrap(n *syntax.Node) StatementBlock { return StatementBlock{node{n}} }

func (b StatementBlock) LCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindLCurly) }
func (b StatementBlock) Statements() AstNodeList[Statement] { return List[Statement](b.raw) }
func (b StatementBlock) RCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindRCurly) }

// ExpressionStatement is an expression followed by an optional `;`.
type ExpressionStatement struct{ node }

func (ExpressionStatement) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindExpressionStatement
}
func (ExpressionStatement) wrap(n *syntax.Node) ExpressionStatement {
	return ExpressionStatement{node{n}}
}

// Expression returns the statement's expression. Any node is accepted so
// that unknown productions still reach the formatter's dispatch.
func (s ExpressionStatement) Expression() (AnyNode, bool) { return Child[AnyNode](s.raw) }
func (s ExpressionStatement) SemicolonToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSemicolon)
}

// VariableDeclaration covers `var`, `let` and `const` declarations.
type VariableDeclaration struct{ node }

func (VariableDeclaration) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindVariableDeclaration || kind == syntax.KindLexicalDeclaration
}
func (VariableDeclaration) wrap(n *syntax.Node) VariableDeclaration {
	return VariableDeclaration{node{n}}
}

// KindToken returns the `var`, `let` or `const` keyword.
func (d VariableDeclaration) KindToken() (*syntax.Token, bool) {
	return firstToken(d.raw, syntax.KindVarKeyword, syntax.KindLetKeyword, syntax.KindConstKeyword)
}
func (d VariableDeclaration) Declarators() AstNodeList[VariableDeclarator] {
	return List[VariableDeclarator](d.raw)
}
func (d VariableDeclaration) SemicolonToken() (*syntax.Token, bool) {
	return Token(d.raw, syntax.KindSemicolon)
}

// VariableDeclarator is `name` or `name = value`.
type VariableDeclarator struct{ node }

func (VariableDeclarator) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindVariableDeclarator
}
func (VariableDeclarator) wrap(n *syntax.Node) VariableDeclarator {
	return VariableDeclarator{node{n}}
}

func (d VariableDeclarator) Name() (AnyNode, bool)          { return nth[AnyNode](d.raw, 0) }
func (d VariableDeclarator) EqToken() (*syntax.Token, bool) { return Token(d.raw, syntax.KindEq) }
func (d VariableDeclarator) Value() (AnyNode, bool)         { return childAfter[AnyNode](d.raw, syntax.KindEq) }

// IfStatement is `if (cond) stmt [else stmt]`.
type IfStatement struct{ node }

func (IfStatement) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindIfStatement }
func (IfStatement) wrap(n *syntax.Node) IfStatement { return IfStatement{node{n}} }

func (s IfStatement) IfToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindIfKeyword) }
func (s IfStatement) Condition() (ParenthesizedExpression, bool) {
	return Child[ParenthesizedExpression](s.raw)
}
func (s IfStatement) Consequence() (Statement, bool)  { return Child[Statement](s.raw) }
func (s IfStatement) Alternative() (ElseClause, bool) { return Child[ElseClause](s.raw) }

// ElseClause is `else stmt`.
type ElseClause struct{ node }

func (ElseClause) CanCast(kind syntax.Kind) bool  { return kind == syntax.KindElseClause }
func (ElseClause) wrap(n *syntax.Node) ElseClause { return ElseClause{node{n}} }

func (c ElseClause) ElseToken() (*syntax.Token, bool) { return Token(c.raw, syntax.KindElseKeyword) }
func (c ElseClause) Body() (Statement, bool)          { return Child[Statement](c.raw) }

// ForStatement is the three-clause `for (init; test; update) body` loop.
//
// The clause layout differs between grammar revisions (the semicolons
// are sometimes owned by the clauses, sometimes by the loop), so the
// header is exposed as raw elements and consumers walk it.
type ForStatement struct{ node }

func (ForStatement) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindForStatement }
func (ForStatement) wrap(n *syntax.Node) ForStatement { return ForStatement{node{n}} }

func (s ForStatement) ForToken() (*syntax.Token, bool)    { return Token(s.raw, syntax.KindForKeyword) }
func (s ForStatement) LParenToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindLParen) }
func (s ForStatement) RParenToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindRParen) }
func (s ForStatement) Body() (Statement, bool) {
	return childAfter[Statement](s.raw, syntax.KindRParen)
}

// Header returns the elements between the parentheses, trivia excluded.
func (s ForStatement) Header() []syntax.Element {
	open, ok := s.LParenToken()
	if !ok {
		return nil
	}
	end := len(s.raw.Children())
	if closing, ok := s.RParenToken(); ok {
		end = closing.Index()
	}
	var header []syntax.Element
	for _, child := range s.raw.Children()[open.Index()+1 : end] {
		if child.Kind().IsTrivia() {
			continue
		}
		header = append(header, child)
	}
	return header
}

// ForInStatement is `for ([kind] left in|of right) body`, including
// `for await`.
type ForInStatement struct{ node }

func (ForInStatement) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindForInStatement }
func (ForInStatement) wrap(n *syntax.Node) ForInStatement { return ForInStatement{node{n}} }

func (s ForInStatement) ForToken() (*syntax.Token, bool)   { return Token(s.raw, syntax.KindForKeyword) }
func (s ForInStatement) AwaitToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindAwaitKeyword) }
func (s ForInStatement) KindToken() (*syntax.Token, bool) {
	return firstToken(s.raw, syntax.KindVarKeyword, syntax.KindLetKeyword, syntax.KindConstKeyword)
}
func (s ForInStatement) Left() (AnyNode, bool) { return childAfter[AnyNode](s.raw, syntax.KindLParen) }

// OperatorToken returns the `in` or `of` keyword.
func (s ForInStatement) OperatorToken() (*syntax.Token, bool) {
	return firstToken(s.raw, syntax.KindInKeyword, syntax.KindOfKeyword)
}
func (s ForInStatement) Right() (AnyNode, bool) {
	op, ok := s.OperatorToken()
	if !ok {
		return AnyNode{}, false
	}
	return childAfter[AnyNode](s.raw, op.Kind())
}
func (s ForInStatement) Body() (Statement, bool) {
	return childAfter[Statement](s.raw, syntax.KindRParen)
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct{ node }

func (WhileStatement) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindWhileStatement }
func (WhileStatement) wrap(n *syntax.Node) WhileStatement { return WhileStatement{node{n}} }

func (s WhileStatement) WhileToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindWhileKeyword) }
func (s WhileStatement) Condition() (ParenthesizedExpression, bool) {
	return Child[ParenthesizedExpression](s.raw)
}
func (s WhileStatement) Body() (Statement, bool) { return Child[Statement](s.raw) }

// DoStatement is `do body while (cond);`.
type DoStatement struct{ node }

func (DoStatement) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindDoStatement }
func (DoStatement) wrap(n *syntax.Node) DoStatement { return DoStatement{node{n}} }

func (s DoStatement) DoToken() (*syntax.Token, bool)    { return Token(s.raw, syntax.KindDoKeyword) }
func (s DoStatement) Body() (Statement, bool)           { return Child[Statement](s.raw) }
func (s DoStatement) WhileToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindWhileKeyword) }
func (s DoStatement) Condition() (ParenthesizedExpression, bool) {
	return Child[ParenthesizedExpression](s.raw)
}

// ReturnStatement is `return [argument];`.
type ReturnStatement struct{ node }

func (ReturnStatement) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindReturnStatement }
func (ReturnStatement) wrap(n *syntax.Node) ReturnStatement { return ReturnStatement{node{n}} }

func (s ReturnStatement) ReturnToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindReturnKeyword)
}
func (s ReturnStatement) Argument() (AnyNode, bool) { return Child[AnyNode](s.raw) }

// ThrowStatement is `throw argument;`.
type ThrowStatement struct{ node }

func (ThrowStatement) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindThrowStatement }
func (ThrowStatement) wrap(n *syntax.Node) ThrowStatement { return ThrowStatement{node{n}} }

func (s ThrowStatement) ThrowToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindThrowKeyword) }
func (s ThrowStatement) Argument() (AnyNode, bool)         { return Child[AnyNode](s.raw) }

// BreakStatement is `break [label];`.
type BreakStatement struct{ node }

func (BreakStatement) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindBreakStatement }
func (BreakStatement) wrap(n *syntax.Node) BreakStatement { return BreakStatement{node{n}} }

func (s BreakStatement) BreakToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindBreakKeyword) }
func (s BreakStatement) Label() (StatementIdentifier, bool) {
	return Child[StatementIdentifier](s.raw)
}
func (s BreakStatement) SemicolonToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSemicolon)
}

// ContinueStatement is `continue [label];`.
type ContinueStatement struct{ node }

func (ContinueStatement) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindContinueStatement
}
func (ContinueStatement) wrap(n *syntax.Node) ContinueStatement {
	return ContinueStatement{node{n}}
}

func (s ContinueStatement) ContinueToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindContinueKeyword)
}
func (s ContinueStatement) Label() (StatementIdentifier, bool) {
	return Child[StatementIdentifier](s.raw)
}
func (s ContinueStatement) SemicolonToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSemicolon)
}

// DebuggerStatement is `debugger;`.
type DebuggerStatement struct{ node }

func (DebuggerStatement) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindDebuggerStatement
}
func (DebuggerStatement) wrap(n *syntax.Node) DebuggerStatement {
	return DebuggerStatement{node{n}}
}

func (s DebuggerStatement) DebuggerToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindDebuggerKeyword)
}

// EmptyStatement is a lone `;`.
type EmptyStatement struct{ node }

func (EmptyStatement) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindEmptyStatement }
func (EmptyStatement) wrap(n *syntax.Node) EmptyStatement { return EmptyStatement{node{n}} }

// LabeledStatement is `label: body`.
type LabeledStatement struct{ node }

func (LabeledStatement) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindLabeledStatement
}
func (LabeledStatement) wrap(n *syntax.Node) LabeledStatement {
	return LabeledStatement{node{n}}
}

func (s LabeledStatement) Label() (StatementIdentifier, bool) {
	return Child[StatementIdentifier](s.raw)
}
func (s LabeledStatement) ColonToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindColon) }
func (s LabeledStatement) Body() (Statement, bool)           { return Child[Statement](s.raw) }

// TryStatement is `try block [catch] [finally]`.
type TryStatement struct{ node }

func (TryStatement) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindTryStatement }
func (TryStatement) wrap(n *syntax.Node) TryStatement { return TryStatement{node{n}} }

func (s TryStatement) TryToken() (*syntax.Token, bool)  { return Token(s.raw, syntax.KindTryKeyword) }
func (s TryStatement) Body() (StatementBlock, bool)     { return Child[StatementBlock](s.raw) }
func (s TryStatement) Handler() (CatchClause, bool)     { return Child[CatchClause](s.raw) }
func (s TryStatement) Finalizer() (FinallyClause, bool) { return Child[FinallyClause](s.raw) }

// CatchClause is `catch [(param)] block`.
type CatchClause struct{ node }

func (CatchClause) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindCatchClause }
func (CatchClause) wrap(n *syntax.Node) CatchClause { return CatchClause{node{n}} }

func (c CatchClause) CatchToken() (*syntax.Token, bool) { return Token(c.raw, syntax.KindCatchKeyword) }
func (c CatchClause) Parameter() (AnyNode, bool) {
	return childAfter[AnyNode](c.raw, syntax.KindLParen)
}
func (c CatchClause) Body() (StatementBlock, bool) { return Child[StatementBlock](c.raw) }

// FinallyClause is `finally block`.
type FinallyClause struct{ node }

func (FinallyClause) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindFinallyClause }
func (FinallyClause) wrap(n *syntax.Node) FinallyClause { return FinallyClause{node{n}} }

func (c FinallyClause) FinallyToken() (*syntax.Token, bool) {
	return Token(c.raw, syntax.KindFinallyKeyword)
}
func (c FinallyClause) Body() (StatementBlock, bool) { return Child[StatementBlock](c.raw) }

// SwitchStatement is `switch (value) body`.
type SwitchStatement struct{ node }

func (SwitchStatement) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindSwitchStatement }
func (SwitchStatement) wrap(n *syntax.Node) SwitchStatement { return SwitchStatement{node{n}} }

func (s SwitchStatement) SwitchToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSwitchKeyword)
}
func (s SwitchStatement) Value() (ParenthesizedExpression, bool) {
	return Child[ParenthesizedExpression](s.raw)
}
func (s SwitchStatement) Body() (SwitchBody, bool) { return Child[SwitchBody](s.raw) }

// SwitchBody is the braced list of switch clauses.
type SwitchBody struct{ node }

func (SwitchBody) CanCast(kind syntax.Kind) bool  { return kind == syntax.KindSwitchBody }
func (SwitchBody) wrap(n *syntax.Node) SwitchBody { return SwitchBody{node{n}} }

func (b SwitchBody) LCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindLCurly) }
func (b SwitchBody) Clauses() AstNodeList[SwitchClause] { return List[SwitchClause](b.raw) }
func (b SwitchBody) RCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindRCurly) }

// SwitchCase is `case value: statements`.
type SwitchCase struct{ node }

func (SwitchCase) CanCast(kind syntax.Kind) bool  { return kind == syntax.KindSwitchCase }
func (SwitchCase) wrap(n *syntax.Node) SwitchCase { return SwitchCase{node{n}} }

func (c SwitchCase) CaseToken() (*syntax.Token, bool)  { return Token(c.raw, syntax.KindCaseKeyword) }
func (c SwitchCase) Value() (AnyNode, bool)            { return Child[AnyNode](c.raw) }
func (c SwitchCase) ColonToken() (*syntax.Token, bool) { return Token(c.raw, syntax.KindColon) }
func (c SwitchCase) Body() AstNodeList[Statement]      { return List[Statement](c.raw) }

// SwitchDefault is `default: statements`.
type SwitchDefault struct{ node }

func (SwitchDefault) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindSwitchDefault }
func (SwitchDefault) wrap(n *syntax.Node) SwitchDefault { return SwitchDefault{node{n}} }

func (c SwitchDefault) DefaultToken() (*syntax.Token, bool) {
	return Token(c.raw, syntax.KindDefaultKeyword)
}
func (c SwitchDefault) ColonToken() (*syntax.Token, bool) { return Token(c.raw, syntax.KindColon) }
func (c SwitchDefault) Body() AstNodeList[Statement]      { return List[Statement](c.raw) }
