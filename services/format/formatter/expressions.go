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

// =============================================================================
// Names and literals
// =============================================================================

func formatIdentifier(i ast.Identifier, f *Formatter) (ir.Element, bool) {
	return f.FormatToken(firstOf(i.NameToken()))
}

func formatPropertyIdentifier(i ast.PropertyIdentifier, f *Formatter) (ir.Element, bool) {
	return f.FormatToken(firstOf(i.NameToken()))
}

func formatStatementIdentifier(i ast.StatementIdentifier, f *Formatter) (ir.Element, bool) {
	return f.FormatToken(firstOf(i.NameToken()))
}

func formatNumber(n ast.Number, f *Formatter) (ir.Element, bool) {
	return f.FormatToken(firstOf(n.ValueToken()))
}

func formatKeywordLiteral(l ast.KeywordLiteral, f *Formatter) (ir.Element, bool) {
	kw, ok := l.KeywordToken()
	if !ok {
		return nil, false
	}
	return f.FormatToken(kw.Syntax())
}

// formatSource prints a node exactly as written. Template literals and
// regular expressions have no layout of their own.
func formatSource(n *syntax.Node, _ *Formatter) (ir.Element, bool) {
	text := n.TrimmedText()
	if text == "" {
		return nil, false
	}
	return ir.Token(text), true
}

// formatString switches to the preferred quote when the literal holds no
// quotes or escapes, so its value cannot change.
func formatString(s ast.String, f *Formatter) (ir.Element, bool) {
	text := s.Text()
	content, ok := s.Content()
	if !ok || strings.ContainsAny(content, "'\"\\") {
		return ir.Token(text), true
	}
	quote := `"`
	if f.opts.SingleQuote() {
		quote = "'"
	}
	return ir.Token(quote + content + quote), true
}

// firstOf drops the presence flag of an accessor; FormatToken reports a
// nil token as absent.
func firstOf(tok *syntax.Token, _ bool) *syntax.Token {
	return tok
}

// =============================================================================
// Operators
// =============================================================================

func formatParenthesized(p ast.ParenthesizedExpression, f *Formatter) (ir.Element, bool) {
	expr, ok := p.Expression()
	if !ok {
		return nil, false
	}
	el, ok := f.node(expr)
	if !ok {
		return nil, false
	}
	n := p.Syntax()
	return ir.Concat(f.token(n, syntax.KindLParen, "("), el, f.token(n, syntax.KindRParen, ")")), true
}

// formatBinary prints a chain of binary operations as one group. When
// the group breaks, every operand after the first starts an indented
// line and the operator stays at the end of the previous line.
func formatBinary(e ast.BinaryExpression, f *Formatter) (ir.Element, bool) {
	parts, ok := f.binaryParts(e)
	if !ok {
		return nil, false
	}
	return ir.GroupElements(ir.Concat(parts[0], ir.Indented(ir.Concat(parts[1:]...)))), true
}

// binaryParts flattens the left spine of a binary chain.
func (f *Formatter) binaryParts(e ast.BinaryExpression) ([]ir.Element, bool) {
	left, ok := e.Left()
	if !ok {
		return nil, false
	}
	op, ok := e.OperatorToken()
	if !ok {
		return nil, false
	}
	right, ok := e.Right()
	if !ok {
		return nil, false
	}
	rightEl, ok := f.node(right)
	if !ok {
		return nil, false
	}

	var parts []ir.Element
	if inner, ok := ast.Cast[ast.BinaryExpression](left.Syntax()); ok {
		if parts, ok = f.binaryParts(inner); !ok {
			return nil, false
		}
	} else {
		leftEl, ok := f.node(left)
		if !ok {
			return nil, false
		}
		parts = []ir.Element{leftEl}
	}
	opEl, _ := f.FormatToken(op)
	return append(parts, ir.Concat(ir.SpaceToken(), opEl, ir.SoftLineOrSpace(), rightEl)), true
}

func formatUnary(e ast.UnaryExpression, f *Formatter) (ir.Element, bool) {
	op, ok := e.OperatorToken()
	if !ok {
		return nil, false
	}
	arg, ok := e.Argument()
	if !ok {
		return nil, false
	}
	argEl, ok := f.node(arg)
	if !ok {
		return nil, false
	}
	opEl, _ := f.FormatToken(op)
	if needsOperatorSpace(op, arg.Syntax()) {
		return ir.Concat(opEl, ir.SpaceToken(), argEl), true
	}
	return ir.Concat(opEl, argEl), true
}

// needsOperatorSpace reports whether a unary operator must be separated
// from its operand: word operators always, and + or - before an operand
// starting with the same sign, which would otherwise read as ++ or --.
func needsOperatorSpace(op *syntax.Token, arg *syntax.Node) bool {
	if o, ok := ast.CastToken[ast.Operator](op); ok && o.IsWord() {
		return true
	}
	if op.Kind().IsKeyword() {
		return true
	}
	text := op.Text()
	if text != "+" && text != "-" {
		return false
	}
	return strings.HasPrefix(arg.TrimmedText(), text)
}

func formatUpdate(e ast.UpdateExpression, f *Formatter) (ir.Element, bool) {
	op, ok := e.OperatorToken()
	if !ok {
		return nil, false
	}
	arg, ok := e.Argument()
	if !ok {
		return nil, false
	}
	argEl, ok := f.node(arg)
	if !ok {
		return nil, false
	}
	opEl, _ := f.FormatToken(op)
	if e.IsPrefix() {
		return ir.Concat(opEl, argEl), true
	}
	return ir.Concat(argEl, opEl), true
}

func formatAssignment(e ast.AssignmentExpression, f *Formatter) (ir.Element, bool) {
	op, ok := e.EqToken()
	if !ok {
		return nil, false
	}
	return f.infix(e.Left, op, e.Right)
}

func formatAugmentedAssignment(e ast.AugmentedAssignmentExpression, f *Formatter) (ir.Element, bool) {
	op, ok := e.OperatorToken()
	if !ok {
		return nil, false
	}
	return f.infix(e.Left, op, e.Right)
}

func formatAssignmentPattern(p ast.AssignmentPattern, f *Formatter) (ir.Element, bool) {
	op, ok := p.EqToken()
	if !ok {
		return nil, false
	}
	return f.infix(p.Left, op, p.Right)
}

// infix formats `left op right` with single spaces.
func (f *Formatter) infix(left func() (ast.AnyNode, bool), op *syntax.Token, right func() (ast.AnyNode, bool)) (ir.Element, bool) {
	l, ok := left()
	if !ok {
		return nil, false
	}
	leftEl, ok := f.node(l)
	if !ok {
		return nil, false
	}
	r, ok := right()
	if !ok {
		return nil, false
	}
	rightEl, ok := f.node(r)
	if !ok {
		return nil, false
	}
	opEl, _ := f.FormatToken(op)
	return ir.Concat(leftEl, ir.SpaceToken(), opEl, ir.SpaceToken(), rightEl), true
}

func formatTernary(e ast.TernaryExpression, f *Formatter) (ir.Element, bool) {
	cond, ok := e.Condition()
	if !ok {
		return nil, false
	}
	condEl, ok := f.node(cond)
	if !ok {
		return nil, false
	}
	cons, ok := e.Consequence()
	if !ok {
		return nil, false
	}
	consEl, ok := f.node(cons)
	if !ok {
		return nil, false
	}
	alt, ok := e.Alternative()
	if !ok {
		return nil, false
	}
	altEl, ok := f.node(alt)
	if !ok {
		return nil, false
	}
	n := e.Syntax()
	return ir.GroupElements(ir.Concat(
		condEl,
		ir.Indented(ir.Concat(
			ir.SoftLineOrSpace(), f.token(n, syntax.KindQuestion, "?"), ir.SpaceToken(), consEl,
			ir.SoftLineOrSpace(), f.token(n, syntax.KindColon, ":"), ir.SpaceToken(), altEl,
		)),
	)), true
}

func formatSequence(e ast.SequenceExpression, f *Formatter) (ir.Element, bool) {
	var items []ir.Element
	for expr := range e.Expressions().All() {
		el, ok := f.node(expr)
		if !ok {
			return nil, false
		}
		items = append(items, el)
	}
	if len(items) == 0 {
		return nil, false
	}
	return ir.Join(ir.Concat(ir.Token(","), ir.SpaceToken()), items), true
}

func formatAwait(e ast.AwaitExpression, f *Formatter) (ir.Element, bool) {
	arg, ok := e.Argument()
	if !ok {
		return nil, false
	}
	argEl, ok := f.node(arg)
	if !ok {
		return nil, false
	}
	return ir.Concat(f.token(e.Syntax(), syntax.KindAwaitKeyword, "await"), ir.SpaceToken(), argEl), true
}

func formatYield(e ast.YieldExpression, f *Formatter) (ir.Element, bool) {
	n := e.Syntax()
	parts := []ir.Element{f.token(n, syntax.KindYieldKeyword, "yield"), f.optionalToken(e.StarToken())}
	if arg, ok := e.Argument(); ok {
		argEl, ok := f.node(arg)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), argEl)
	}
	return ir.Concat(parts...), true
}

// formatSpread covers spread elements and rest patterns.
func formatSpread(n *syntax.Node, f *Formatter) (ir.Element, bool) {
	arg, ok := ast.Child[ast.AnyNode](n)
	if !ok {
		return nil, false
	}
	argEl, ok := f.node(arg)
	if !ok {
		return nil, false
	}
	return ir.Concat(f.token(n, syntax.KindDotDotDot, "..."), argEl), true
}

// =============================================================================
// Calls and member access
// =============================================================================

func formatCall(e ast.CallExpression, f *Formatter) (ir.Element, bool) {
	callee, ok := e.Callee()
	if !ok {
		return nil, false
	}
	calleeEl, ok := f.node(callee)
	if !ok {
		return nil, false
	}
	var tail ir.Element
	if args, ok := e.Arguments(); ok {
		if tail, ok = f.node(args); !ok {
			return nil, false
		}
	} else if tmpl, ok := e.Template(); ok {
		if tail, ok = f.node(tmpl); !ok {
			return nil, false
		}
	} else {
		return nil, false
	}
	return ir.Concat(calleeEl, f.optionalToken(e.OptionalToken()), tail), true
}

func formatNew(e ast.NewExpression, f *Formatter) (ir.Element, bool) {
	kw, ok := e.NewToken()
	if !ok {
		return nil, false
	}
	callee, ok := e.Callee()
	if !ok {
		return nil, false
	}
	calleeEl, ok := f.node(callee)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword, ir.SpaceToken(), calleeEl}
	if args, ok := e.Arguments(); ok {
		argsEl, ok := f.node(args)
		if !ok {
			return nil, false
		}
		parts = append(parts, argsEl)
	}
	return ir.Concat(parts...), true
}

func formatArguments(a ast.Arguments, f *Formatter) (ir.Element, bool) {
	return f.delimited("(", ")", a.Items().Syntax(), delimitedStyle{}), true
}

func formatMember(e ast.MemberExpression, f *Formatter) (ir.Element, bool) {
	object, ok := e.Object()
	if !ok {
		return nil, false
	}
	objectEl, ok := f.node(object)
	if !ok {
		return nil, false
	}
	op, ok := e.OperatorToken()
	if !ok {
		return nil, false
	}
	prop, ok := e.Property()
	if !ok {
		return nil, false
	}
	propEl, ok := f.node(prop)
	if !ok {
		return nil, false
	}
	opEl, _ := f.FormatToken(op)
	return ir.Concat(objectEl, opEl, propEl), true
}

func formatSubscript(e ast.SubscriptExpression, f *Formatter) (ir.Element, bool) {
	object, ok := e.Object()
	if !ok {
		return nil, false
	}
	objectEl, ok := f.node(object)
	if !ok {
		return nil, false
	}
	index, ok := e.Index()
	if !ok {
		return nil, false
	}
	indexEl, ok := f.node(index)
	if !ok {
		return nil, false
	}
	n := e.Syntax()
	return ir.Concat(
		objectEl, f.optionalToken(e.OptionalToken()),
		f.token(n, syntax.KindLBracket, "["), indexEl, f.token(n, syntax.KindRBracket, "]"),
	), true
}

func formatOptionalChain(c ast.OptionalChain, f *Formatter) (ir.Element, bool) {
	return f.FormatToken(firstOf(c.QuestionDotToken()))
}

// =============================================================================
// Literals with children
// =============================================================================

func formatArray(a ast.Array, f *Formatter) (ir.Element, bool) {
	return f.delimited("[", "]", a.Elements().Syntax(), delimitedStyle{es5: true}), true
}

// formatObject keeps an object expanded when the source breaks the line
// after the opening brace.
func formatObject(o ast.Object, f *Formatter) (ir.Element, bool) {
	list := o.Members().Syntax()
	return f.delimited("{", "}", list, delimitedStyle{spaced: true, es5: true, expand: startsExpanded(list)}), true
}

func formatPair(p ast.Pair, f *Formatter) (ir.Element, bool) {
	key, ok := p.Key()
	if !ok {
		return nil, false
	}
	value, ok := p.Value()
	if !ok {
		return nil, false
	}
	return f.keyValue(p.Syntax(), key, value)
}

func formatPairPattern(p ast.PairPattern, f *Formatter) (ir.Element, bool) {
	key, ok := p.Key()
	if !ok {
		return nil, false
	}
	value, ok := p.Value()
	if !ok {
		return nil, false
	}
	return f.keyValue(p.Syntax(), key, value)
}

func (f *Formatter) keyValue(n *syntax.Node, key ast.PropertyName, value ast.AnyNode) (ir.Element, bool) {
	keyEl, ok := f.node(key)
	if !ok {
		return nil, false
	}
	valueEl, ok := f.node(value)
	if !ok {
		return nil, false
	}
	return ir.Concat(keyEl, f.token(n, syntax.KindColon, ":"), ir.SpaceToken(), valueEl), true
}

func formatComputedPropertyName(c ast.ComputedPropertyName, f *Formatter) (ir.Element, bool) {
	expr, ok := c.Expression()
	if !ok {
		return nil, false
	}
	el, ok := f.node(expr)
	if !ok {
		return nil, false
	}
	n := c.Syntax()
	return ir.Concat(f.token(n, syntax.KindLBracket, "["), el, f.token(n, syntax.KindRBracket, "]")), true
}

func formatObjectPattern(p ast.ObjectPattern, f *Formatter) (ir.Element, bool) {
	return f.delimited("{", "}", p.Properties().Syntax(), delimitedStyle{spaced: true, es5: true}), true
}

func formatArrayPattern(p ast.ArrayPattern, f *Formatter) (ir.Element, bool) {
	return f.delimited("[", "]", p.Elements().Syntax(), delimitedStyle{es5: true}), true
}
