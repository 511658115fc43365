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

func formatProgram(p ast.Program, f *Formatter) (ir.Element, bool) {
	content, _ := f.lineList(p.Statements().Syntax())
	return content, true
}

func formatHashBang(h ast.HashBangLine, _ *Formatter) (ir.Element, bool) {
	return ir.Token(strings.TrimRight(h.Text(), "\r")), true
}

func formatBlock(b ast.StatementBlock, f *Formatter) (ir.Element, bool) {
	return f.braced(b.Statements().Syntax()), true
}

// semicolon prints the statement terminator, inserting one when the
// source relied on automatic insertion.
func (f *Formatter) semicolon(n *syntax.Node) ir.Element {
	return f.token(n, syntax.KindSemicolon, ";")
}

// clause formats the body of a compound statement. Blocks stay on the
// header line; other statements move to an indented line when they do
// not fit.
func (f *Formatter) clause(body ast.Statement) (ir.Element, bool) {
	el, ok := f.node(body)
	if !ok {
		return nil, false
	}
	switch body.Kind() {
	case syntax.KindStatementBlock:
		return ir.Concat(ir.SpaceToken(), el), true
	case syntax.KindEmptyStatement:
		return el, true
	}
	return ir.GroupElements(ir.Indented(ir.Concat(ir.SoftLineOrSpace(), el))), true
}

func formatExpressionStatement(s ast.ExpressionStatement, f *Formatter) (ir.Element, bool) {
	expr, ok := s.Expression()
	if !ok {
		return nil, false
	}
	el, ok := f.node(expr)
	if !ok {
		return nil, false
	}
	return ir.Concat(el, f.semicolon(s.Syntax())), true
}

func formatEmptyStatement(_ ast.EmptyStatement, _ *Formatter) (ir.Element, bool) {
	return ir.Token(";"), true
}

// =============================================================================
// Variables
// =============================================================================

func formatVariableDeclaration(d ast.VariableDeclaration, f *Formatter) (ir.Element, bool) {
	decl, ok := f.declarators(d)
	if !ok {
		return nil, false
	}
	return ir.Concat(decl, f.semicolon(d.Syntax())), true
}

// declarators formats `kind a = 1, b` without the terminator. Several
// initialised declarators go one per line.
func (f *Formatter) declarators(d ast.VariableDeclaration) (ir.Element, bool) {
	kw, ok := d.KindToken()
	if !ok {
		return nil, false
	}
	list := d.Declarators()
	cl := f.commaItems(list.Syntax())
	if len(cl.items) == 0 || cl.endsInHole {
		return nil, false
	}

	initialised := 0
	for decl := range list.Iter().All() {
		if _, ok := decl.Value(); ok {
			initialised++
		}
	}

	rest := make([]ir.Element, 0, 3*(len(cl.items)-1))
	for _, item := range cl.items[1:] {
		rest = append(rest, ir.Token(","), ir.SoftLineOrSpace(), item)
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, ir.SpaceToken(), &ir.Group{
		Content:     ir.Concat(cl.items[0], ir.Indented(ir.Concat(rest...))),
		ShouldBreak: cl.forceBreak || (len(cl.items) > 1 && initialised > 1),
	}), true
}

func formatVariableDeclarator(d ast.VariableDeclarator, f *Formatter) (ir.Element, bool) {
	name, ok := d.Name()
	if !ok {
		return nil, false
	}
	nameEl, ok := f.node(name)
	if !ok {
		return nil, false
	}
	value, ok := d.Value()
	if !ok {
		return nameEl, true
	}
	valueEl, ok := f.node(value)
	if !ok {
		return nil, false
	}
	return ir.Concat(nameEl, ir.SpaceToken(), f.token(d.Syntax(), syntax.KindEq, "="), ir.SpaceToken(), valueEl), true
}

// =============================================================================
// Control flow
// =============================================================================

func formatIf(s ast.IfStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.IfToken()
	if !ok {
		return nil, false
	}
	cond, ok := s.Condition()
	if !ok {
		return nil, false
	}
	condEl, ok := f.node(cond)
	if !ok {
		return nil, false
	}
	cons, ok := s.Consequence()
	if !ok {
		return nil, false
	}
	body, ok := f.clause(cons)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword, ir.SpaceToken(), condEl, body}
	if alt, ok := s.Alternative(); ok {
		altEl, ok := f.node(alt)
		if !ok {
			return nil, false
		}
		if cons.Kind() == syntax.KindStatementBlock {
			parts = append(parts, ir.SpaceToken())
		} else {
			parts = append(parts, ir.HardLine())
		}
		parts = append(parts, altEl)
	}
	return ir.Concat(parts...), true
}

func formatElse(c ast.ElseClause, f *Formatter) (ir.Element, bool) {
	kw, ok := c.ElseToken()
	if !ok {
		return nil, false
	}
	body, ok := c.Body()
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	if body.Kind() == syntax.KindIfStatement {
		el, ok := f.node(body)
		if !ok {
			return nil, false
		}
		return ir.Concat(keyword, ir.SpaceToken(), el), true
	}
	el, ok := f.clause(body)
	if !ok {
		return nil, false
	}
	return ir.Concat(keyword, el), true
}

func formatFor(s ast.ForStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ForToken()
	if !ok {
		return nil, false
	}
	slots, ok := f.forHeader(s.Header())
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.clause(body)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	return ir.Concat(
		keyword, ir.SpaceToken(), ir.Token("("),
		slots[0], ir.Token(";"),
		spaceBefore(slots[1]), ir.Token(";"),
		spaceBefore(slots[2]), ir.Token(")"),
		bodyEl,
	), true
}

// forHeader splits the parts between the parentheses of a three-clause
// for loop into initializer, condition and update. The grammar folds a
// separator into the declaration or expression statement before it.
func (f *Formatter) forHeader(header []syntax.Element) ([3]ir.Element, bool) {
	var (
		parts [3][]ir.Element
		slot  int
	)
	advance := func() bool {
		slot++
		return slot < 3
	}
	for _, e := range header {
		if tok, ok := e.AsToken(); ok {
			if tok.Kind() != syntax.KindSemicolon || !advance() {
				return [3]ir.Element{}, false
			}
			continue
		}
		n, _ := e.AsNode()
		var (
			el         ir.Element
			terminated bool
			ok         bool
		)
		switch n.Kind() {
		case syntax.KindEmptyStatement:
			terminated, ok = true, true
		case syntax.KindVariableDeclaration, syntax.KindLexicalDeclaration:
			decl, _ := ast.Cast[ast.VariableDeclaration](n)
			el, ok = f.declarators(decl)
			_, terminated = decl.SemicolonToken()
		case syntax.KindExpressionStatement:
			stmt, _ := ast.Cast[ast.ExpressionStatement](n)
			var expr ast.AnyNode
			if expr, ok = stmt.Expression(); ok {
				el, ok = f.node(expr)
			}
			_, terminated = stmt.SemicolonToken()
		default:
			el, ok = f.FormatNode(n)
		}
		if !ok {
			return [3]ir.Element{}, false
		}
		if el != nil {
			parts[slot] = append(parts[slot], el)
		}
		if terminated && !advance() {
			return [3]ir.Element{}, false
		}
	}

	var slots [3]ir.Element
	for i, p := range parts {
		slots[i] = ir.Concat(p...)
		if len(p) == 0 {
			slots[i] = ir.EmptyElement()
		}
	}
	return slots, true
}

// spaceBefore prefixes a space unless e prints nothing.
func spaceBefore(e ir.Element) ir.Element {
	if _, empty := e.(ir.Empty); empty {
		return e
	}
	return ir.Concat(ir.SpaceToken(), e)
}

func formatForIn(s ast.ForInStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ForToken()
	if !ok {
		return nil, false
	}
	left, ok := s.Left()
	if !ok {
		return nil, false
	}
	leftEl, ok := f.node(left)
	if !ok {
		return nil, false
	}
	op, ok := s.OperatorToken()
	if !ok {
		return nil, false
	}
	right, ok := s.Right()
	if !ok {
		return nil, false
	}
	rightEl, ok := f.node(right)
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.clause(body)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword, ir.SpaceToken()}
	if await, ok := s.AwaitToken(); ok {
		parts = append(parts, f.optionalToken(await, true), ir.SpaceToken())
	}
	parts = append(parts, ir.Token("("))
	if kind, ok := s.KindToken(); ok {
		parts = append(parts, f.optionalToken(kind, true), ir.SpaceToken())
	}
	opEl, _ := f.FormatToken(op)
	parts = append(parts, leftEl, ir.SpaceToken(), opEl, ir.SpaceToken(), rightEl, ir.Token(")"), bodyEl)
	return ir.Concat(parts...), true
}

func formatWhile(s ast.WhileStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.WhileToken()
	if !ok {
		return nil, false
	}
	cond, ok := s.Condition()
	if !ok {
		return nil, false
	}
	condEl, ok := f.node(cond)
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.clause(body)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, ir.SpaceToken(), condEl, bodyEl), true
}

func formatDo(s ast.DoStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.DoToken()
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.clause(body)
	if !ok {
		return nil, false
	}
	whileKw, ok := s.WhileToken()
	if !ok {
		return nil, false
	}
	cond, ok := s.Condition()
	if !ok {
		return nil, false
	}
	condEl, ok := f.node(cond)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	sep := ir.HardLine()
	if body.Kind() == syntax.KindStatementBlock {
		sep = ir.SpaceToken()
	}
	whileEl, _ := f.FormatToken(whileKw)
	return ir.Concat(keyword, bodyEl, sep, whileEl, ir.SpaceToken(), condEl, f.semicolon(s.Syntax())), true
}

// =============================================================================
// Jumps
// =============================================================================

func formatReturn(s ast.ReturnStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ReturnToken()
	if !ok {
		return nil, false
	}
	arg, has := s.Argument()
	return f.keywordStatement(s.Syntax(), kw, arg, has)
}

func formatThrow(s ast.ThrowStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ThrowToken()
	if !ok {
		return nil, false
	}
	arg, ok := s.Argument()
	if !ok {
		return nil, false
	}
	return f.keywordStatement(s.Syntax(), kw, arg, true)
}

// keywordStatement formats `kw arg;` with an optional argument.
func (f *Formatter) keywordStatement(n *syntax.Node, kw *syntax.Token, arg ast.AnyNode, hasArg bool) (ir.Element, bool) {
	keyword, _ := f.FormatToken(kw)
	if !hasArg {
		return ir.Concat(keyword, f.semicolon(n)), true
	}
	argEl, ok := f.node(arg)
	if !ok {
		return nil, false
	}
	return ir.Concat(keyword, ir.SpaceToken(), argEl, f.semicolon(n)), true
}

func formatBreak(s ast.BreakStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.BreakToken()
	if !ok {
		return nil, false
	}
	label, has := s.Label()
	return f.jump(kw, label, has)
}

func formatContinue(s ast.ContinueStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ContinueToken()
	if !ok {
		return nil, false
	}
	label, has := s.Label()
	return f.jump(kw, label, has)
}

// jump formats break and continue. Both shapes have the same arity: the
// label slot holds an empty element when there is no label.
func (f *Formatter) jump(kw *syntax.Token, label ast.StatementIdentifier, hasLabel bool) (ir.Element, bool) {
	keyword, _ := f.FormatToken(kw)
	if !hasLabel {
		return ir.Concat(keyword, ir.EmptyElement(), ir.Token(";")), true
	}
	labelEl, ok := f.node(label)
	if !ok {
		return nil, false
	}
	return ir.Concat(keyword, ir.SpaceToken(), labelEl, ir.Token(";")), true
}

func formatDebugger(s ast.DebuggerStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.DebuggerToken()
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, f.semicolon(s.Syntax())), true
}

func formatLabeled(s ast.LabeledStatement, f *Formatter) (ir.Element, bool) {
	label, ok := s.Label()
	if !ok {
		return nil, false
	}
	labelEl, ok := f.node(label)
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}
	colon := f.token(s.Syntax(), syntax.KindColon, ":")
	if body.Kind() == syntax.KindEmptyStatement {
		return ir.Concat(labelEl, colon, bodyEl), true
	}
	return ir.Concat(labelEl, colon, ir.SpaceToken(), bodyEl), true
}

// =============================================================================
// Try
// =============================================================================

func formatTry(s ast.TryStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.TryToken()
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword, ir.SpaceToken(), bodyEl}

	handler, hasHandler := s.Handler()
	finalizer, hasFinalizer := s.Finalizer()
	if !hasHandler && !hasFinalizer {
		return nil, false
	}
	if hasHandler {
		el, ok := f.node(handler)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), el)
	}
	if hasFinalizer {
		el, ok := f.node(finalizer)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), el)
	}
	return ir.Concat(parts...), true
}

func formatCatch(c ast.CatchClause, f *Formatter) (ir.Element, bool) {
	kw, ok := c.CatchToken()
	if !ok {
		return nil, false
	}
	body, ok := c.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	param, ok := c.Parameter()
	if !ok {
		return ir.Concat(keyword, ir.SpaceToken(), bodyEl), true
	}
	paramEl, ok := f.node(param)
	if !ok {
		return nil, false
	}
	n := c.Syntax()
	return ir.Concat(
		keyword, ir.SpaceToken(),
		f.token(n, syntax.KindLParen, "("), paramEl, f.token(n, syntax.KindRParen, ")"),
		ir.SpaceToken(), bodyEl,
	), true
}

func formatFinally(c ast.FinallyClause, f *Formatter) (ir.Element, bool) {
	kw, ok := c.FinallyToken()
	if !ok {
		return nil, false
	}
	body, ok := c.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, ir.SpaceToken(), bodyEl), true
}

// =============================================================================
// Switch
// =============================================================================

func formatSwitch(s ast.SwitchStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.SwitchToken()
	if !ok {
		return nil, false
	}
	value, ok := s.Value()
	if !ok {
		return nil, false
	}
	valueEl, ok := f.node(value)
	if !ok {
		return nil, false
	}
	body, ok := s.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, ir.SpaceToken(), valueEl, ir.SpaceToken(), bodyEl), true
}

func formatSwitchBody(b ast.SwitchBody, f *Formatter) (ir.Element, bool) {
	return f.braced(b.Clauses().Syntax()), true
}

func formatSwitchCase(c ast.SwitchCase, f *Formatter) (ir.Element, bool) {
	kw, ok := c.CaseToken()
	if !ok {
		return nil, false
	}
	value, ok := c.Value()
	if !ok {
		return nil, false
	}
	valueEl, ok := f.node(value)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	colon := f.token(c.Syntax(), syntax.KindColon, ":")
	return ir.Concat(keyword, ir.SpaceToken(), valueEl, colon, f.caseBody(c.Body().Syntax())), true
}

func formatSwitchDefault(c ast.SwitchDefault, f *Formatter) (ir.Element, bool) {
	kw, ok := c.DefaultToken()
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	colon := f.token(c.Syntax(), syntax.KindColon, ":")
	return ir.Concat(keyword, colon, f.caseBody(c.Body().Syntax())), true
}

// caseBody indents the statements of a clause. A body that is a single
// block stays on the clause line.
func (f *Formatter) caseBody(list *syntax.Node) ir.Element {
	content, ok := f.lineList(list)
	if !ok {
		return ir.EmptyElement()
	}
	var significant []syntax.Element
	for _, child := range list.Children() {
		if !child.Kind().IsTrivia() {
			significant = append(significant, child)
		}
	}
	if len(significant) == 1 && significant[0].Kind() == syntax.KindStatementBlock {
		return ir.Concat(ir.SpaceToken(), content)
	}
	return ir.Indented(ir.Concat(ir.HardLine(), content))
}
