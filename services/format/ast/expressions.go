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

// =============================================================================
// Names and literals
// =============================================================================

// Identifier is a binding or reference name.
type Identifier struct{ node }

func (Identifier) CanCast(kind syntax.Kind) bool  { return kind == syntax.KindIdentifier }
func (Identifier) wrap(n *syntax.Node) Identifier { return Identifier{node{n}} }

func (i Identifier) NameToken() (*syntax.Token, bool) { return Token(i.raw, syntax.KindIdent) }

// PropertyIdentifier is a property name after `.` or in an object key,
// including shorthand and private (#name) forms.
type PropertyIdentifier struct{ node }

func (PropertyIdentifier) CanCast(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindPropertyIdentifier, syntax.KindShorthandPropertyIdentifier,
		syntax.KindShorthandPropertyIdentifierPattern, syntax.KindPrivatePropertyIdentifier:
		return true
	}
	return false
}
func (PropertyIdentifier) wrap(n *syntax.Node) PropertyIdentifier {
	return PropertyIdentifier{node{n}}
}

func (i PropertyIdentifier) NameToken() (*syntax.Token, bool) { return Token(i.raw, syntax.KindIdent) }

// StatementIdentifier is a statement label.
type StatementIdentifier struct{ node }

func (StatementIdentifier) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindStatementIdentifier
}
func (StatementIdentifier) wrap(n *syntax.Node) StatementIdentifier {
	return StatementIdentifier{node{n}}
}

func (i StatementIdentifier) NameToken() (*syntax.Token, bool) {
	return Token(i.raw, syntax.KindIdent)
}

// Number is a numeric literal.
type Number struct{ node }

func (Number) CanCast(kind syntax.Kind) bool { return kind == syntax.KindNumberLiteral }
func (Number) wrap(n *syntax.Node) Number    { return Number{node{n}} }

func (l Number) ValueToken() (*syntax.Token, bool) { return Token(l.raw, syntax.KindNumber) }

// String is a quoted string literal.
type String struct{ node }

func (String) CanCast(kind syntax.Kind) bool { return kind == syntax.KindString }
func (String) wrap(n *syntax.Node) String    { return String{node{n}} }

// QuoteToken returns the opening quote.
func (s String) QuoteToken() (*syntax.Token, bool) {
	return firstToken(s.raw, syntax.KindDoubleQuote, syntax.KindSingleQuote)
}

// Content returns the text between the quotes, escapes untouched.
func (s String) Content() (string, bool) {
	text := s.Text()
	if len(text) < 2 {
		return "", false
	}
	quote := text[0]
	if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
		return "", false
	}
	return text[1 : len(text)-1], true
}

// TemplateString is a backtick template literal.
type TemplateString struct{ node }

func (TemplateString) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindTemplateString }
func (TemplateString) wrap(n *syntax.Node) TemplateString { return TemplateString{node{n}} }

func (t TemplateString) Substitutions() *AstChildren[TemplateSubstitution] {
	return Children[TemplateSubstitution](t.raw)
}

// TemplateSubstitution is `${ expr }` inside a template.
type TemplateSubstitution struct{ node }

func (TemplateSubstitution) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindTemplateSubstitution
}
func (TemplateSubstitution) wrap(n *syntax.Node) TemplateSubstitution {
	return TemplateSubstitution{node{n}}
}

func (t TemplateSubstitution) Expression() (AnyNode, bool) { return Child[AnyNode](t.raw) }

// Regex is a regular expression literal.
type Regex struct{ node }

func (Regex) CanCast(kind syntax.Kind) bool { return kind == syntax.KindRegex }
func (Regex) wrap(n *syntax.Node) Regex     { return Regex{node{n}} }

func (r Regex) Pattern() (string, bool) {
	p, ok := Child[regexPart](r.raw)
	if !ok || p.Kind() != syntax.KindRegexPatternNode {
		return "", false
	}
	return p.Text(), true
}
func (r Regex) Flags() (string, bool) {
	for p := range Children[regexPart](r.raw).All() {
		if p.Kind() == syntax.KindRegexFlagsNode {
			return p.Text(), true
		}
	}
	return "", false
}

type regexPart struct{ node }

func (regexPart) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindRegexPatternNode || kind == syntax.KindRegexFlagsNode
}
func (regexPart) wrap(n *syntax.Node) regexPart { return regexPart{node{n}} }

// KeywordLiteral is one of this, super, true, false, null and undefined.
type KeywordLiteral struct{ node }

func (KeywordLiteral) CanCast(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindThis, syntax.KindSuper, syntax.KindTrue, syntax.KindFalse,
		syntax.KindNull, syntax.KindUndefined:
		return true
	}
	return false
}
func (KeywordLiteral) wrap(n *syntax.Node) KeywordLiteral { return KeywordLiteral{node{n}} }

func (l KeywordLiteral) KeywordToken() (Keyword, bool) {
	for _, child := range l.raw.Children() {
		if tok, ok := child.AsToken(); ok {
			if kw, ok := CastToken[Keyword](tok); ok {
				return kw, true
			}
		}
	}
	return Keyword{}, false
}

// =============================================================================
// Operators
// =============================================================================

// ParenthesizedExpression is `( expr )`.
type ParenthesizedExpression struct{ node }

func (ParenthesizedExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindParenthesizedExpression
}
func (ParenthesizedExpression) wrap(n *syntax.Node) ParenthesizedExpression {
	return ParenthesizedExpression{node{n}}
}

func (p ParenthesizedExpression) LParenToken() (*syntax.Token, bool) {
	return Token(p.raw, syntax.KindLParen)
}
func (p ParenthesizedExpression) Expression() (AnyNode, bool) { return Child[AnyNode](p.raw) }
func (p ParenthesizedExpression) RParenToken() (*syntax.Token, bool) {
	return Token(p.raw, syntax.KindRParen)
}

// BinaryExpression is `left op right`.
type BinaryExpression struct{ node }

func (BinaryExpression) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindBinaryExpression }
func (BinaryExpression) wrap(n *syntax.Node) BinaryExpression { return BinaryExpression{node{n}} }

func (e BinaryExpression) Left() (AnyNode, bool)                { return nth[AnyNode](e.raw, 0) }
func (e BinaryExpression) OperatorToken() (*syntax.Token, bool) { return operatorToken(e.raw) }
func (e BinaryExpression) Right() (AnyNode, bool)               { return nth[AnyNode](e.raw, 1) }

// UnaryExpression is `op argument`.
type UnaryExpression struct{ node }

func (UnaryExpression) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindUnaryExpression }
func (UnaryExpression) wrap(n *syntax.Node) UnaryExpression { return UnaryExpression{node{n}} }

func (e UnaryExpression) OperatorToken() (*syntax.Token, bool) { return operatorToken(e.raw) }
func (e UnaryExpression) Argument() (AnyNode, bool)            { return Child[AnyNode](e.raw) }

// UpdateExpression is `++x`, `--x`, `x++` or `x--`.
type UpdateExpression struct{ node }

func (UpdateExpression) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindUpdateExpression }
func (UpdateExpression) wrap(n *syntax.Node) UpdateExpression { return UpdateExpression{node{n}} }

func (e UpdateExpression) OperatorToken() (*syntax.Token, bool) {
	return Token(e.raw, syntax.KindOperator)
}
func (e UpdateExpression) Argument() (AnyNode, bool) { return Child[AnyNode](e.raw) }

// IsPrefix reports whether the operator precedes the argument.
func (e UpdateExpression) IsPrefix() bool {
	op, ok := e.OperatorToken()
	if !ok {
		return false
	}
	arg, ok := e.Argument()
	return ok && op.Range().Start < arg.Syntax().TrimmedRange().Start
}

// AssignmentExpression is `left = right`.
type AssignmentExpression struct{ node }

func (AssignmentExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindAssignmentExpression
}
func (AssignmentExpression) wrap(n *syntax.Node) AssignmentExpression {
	return AssignmentExpression{node{n}}
}

func (e AssignmentExpression) Left() (AnyNode, bool)          { return nth[AnyNode](e.raw, 0) }
func (e AssignmentExpression) EqToken() (*syntax.Token, bool) { return Token(e.raw, syntax.KindEq) }
func (e AssignmentExpression) Right() (AnyNode, bool) {
	return childAfter[AnyNode](e.raw, syntax.KindEq)
}

// AugmentedAssignmentExpression is `left op= right`.
type AugmentedAssignmentExpression struct{ node }

func (AugmentedAssignmentExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindAugmentedAssignmentExpression
}
func (AugmentedAssignmentExpression) wrap(n *syntax.Node) AugmentedAssignmentExpression {
	return AugmentedAssignmentExpression{node{n}}
}

func (e AugmentedAssignmentExpression) Left() (AnyNode, bool) { return nth[AnyNode](e.raw, 0) }
func (e AugmentedAssignmentExpression) OperatorToken() (*syntax.Token, bool) {
	return operatorToken(e.raw)
}
func (e AugmentedAssignmentExpression) Right() (AnyNode, bool) { return nth[AnyNode](e.raw, 1) }

// TernaryExpression is `cond ? consequence : alternative`.
type TernaryExpression struct{ node }

func (TernaryExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindTernaryExpression
}
func (TernaryExpression) wrap(n *syntax.Node) TernaryExpression {
	return TernaryExpression{node{n}}
}

func (e TernaryExpression) Condition() (AnyNode, bool) {
	return childBefore[AnyNode](e.raw, syntax.KindQuestion)
}
func (e TernaryExpression) QuestionToken() (*syntax.Token, bool) {
	return Token(e.raw, syntax.KindQuestion)
}
func (e TernaryExpression) Consequence() (AnyNode, bool) {
	return childAfter[AnyNode](e.raw, syntax.KindQuestion)
}
func (e TernaryExpression) ColonToken() (*syntax.Token, bool) { return Token(e.raw, syntax.KindColon) }
func (e TernaryExpression) Alternative() (AnyNode, bool) {
	return childAfter[AnyNode](e.raw, syntax.KindColon)
}

// SequenceExpression is `a, b, c`. Older grammars nest it to the right.
type SequenceExpression struct{ node }

func (SequenceExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindSequenceExpression
}
func (SequenceExpression) wrap(n *syntax.Node) SequenceExpression {
	return SequenceExpression{node{n}}
}

func (e SequenceExpression) Expressions() *AstChildren[AnyNode] { return Children[AnyNode](e.raw) }

// =============================================================================
// Calls and member access
// =============================================================================

// CallExpression is `callee(args)`, `callee?.(args)` or a tagged template.
type CallExpression struct{ node }

func (CallExpression) CanCast(kind syntax.Kind) bool      { return kind == syntax.KindCallExpression }
func (CallExpression) wrap(n *syntax.Node) CallExpression { return CallExpression{node{n}} }

func (e CallExpression) Callee() (AnyNode, bool) { return nth[AnyNode](e.raw, 0) }

// OptionalToken returns the `?.` of an optional call. Depending on the
// grammar revision it is a direct token or wrapped in an optional_chain
// node.
func (e CallExpression) OptionalToken() (*syntax.Token, bool) { return optionalToken(e.raw) }
func (e CallExpression) Arguments() (Arguments, bool)         { return Child[Arguments](e.raw) }
func (e CallExpression) Template() (TemplateString, bool)     { return Child[TemplateString](e.raw) }

// NewExpression is `new callee(args)`; the argument list is optional.
type NewExpression struct{ node }

func (NewExpression) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindNewExpression }
func (NewExpression) wrap(n *syntax.Node) NewExpression { return NewExpression{node{n}} }

func (e NewExpression) NewToken() (*syntax.Token, bool) { return Token(e.raw, syntax.KindNewKeyword) }
func (e NewExpression) Callee() (AnyNode, bool) {
	return childAfter[AnyNode](e.raw, syntax.KindNewKeyword)
}
func (e NewExpression) Arguments() (Arguments, bool) { return Child[Arguments](e.raw) }

// MemberExpression is `object.property` or `object?.property`.
type MemberExpression struct{ node }

func (MemberExpression) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindMemberExpression }
func (MemberExpression) wrap(n *syntax.Node) MemberExpression { return MemberExpression{node{n}} }

func (e MemberExpression) Object() (AnyNode, bool) { return nth[AnyNode](e.raw, 0) }

// OperatorToken returns the `.` or `?.` separator.
func (e MemberExpression) OperatorToken() (*syntax.Token, bool) {
	if tok, ok := Token(e.raw, syntax.KindDot); ok {
		return tok, true
	}
	return optionalToken(e.raw)
}
func (e MemberExpression) Property() (PropertyIdentifier, bool) {
	return Child[PropertyIdentifier](e.raw)
}

// SubscriptExpression is `object[index]` or `object?.[index]`.
type SubscriptExpression struct{ node }

func (SubscriptExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindSubscriptExpression
}
func (SubscriptExpression) wrap(n *syntax.Node) SubscriptExpression {
	return SubscriptExpression{node{n}}
}

func (e SubscriptExpression) Object() (AnyNode, bool) {
	return childBefore[AnyNode](e.raw, syntax.KindLBracket)
}
func (e SubscriptExpression) OptionalToken() (*syntax.Token, bool) { return optionalToken(e.raw) }
func (e SubscriptExpression) Index() (AnyNode, bool) {
	return childAfter[AnyNode](e.raw, syntax.KindLBracket)
}

// OptionalChain wraps the `?.` token in grammars that name it.
type OptionalChain struct{ node }

func (OptionalChain) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindOptionalChain }
func (OptionalChain) wrap(n *syntax.Node) OptionalChain { return OptionalChain{node{n}} }

func (c OptionalChain) QuestionDotToken() (*syntax.Token, bool) {
	return Token(c.raw, syntax.KindQuestionDot)
}

func optionalToken(parent *syntax.Node) (*syntax.Token, bool) {
	if tok, ok := Token(parent, syntax.KindQuestionDot); ok {
		return tok, true
	}
	if chain, ok := Child[OptionalChain](parent); ok {
		return chain.QuestionDotToken()
	}
	return nil, false
}

// Arguments is a parenthesised argument list.
type Arguments struct{ node }

func (Arguments) CanCast(kind syntax.Kind) bool { return kind == syntax.KindArguments }
func (Arguments) wrap(n *syntax.Node) Arguments { return Arguments{node{n}} }

func (a Arguments) LParenToken() (*syntax.Token, bool) { return Token(a.raw, syntax.KindLParen) }
func (a Arguments) Items() AstNodeList[AnyNode]        { return List[AnyNode](a.raw) }
func (a Arguments) RParenToken() (*syntax.Token, bool) { return Token(a.raw, syntax.KindRParen) }

// =============================================================================
// Literals with structure
// =============================================================================

// Array is `[a, , b]`; holes appear as consecutive commas in the list.
type Array struct{ node }

func (Array) CanCast(kind syntax.Kind) bool { return kind == syntax.KindArray }
func (Array) wrap(n *syntax.Node) Array     { return Array{node{n}} }

func (a Array) Elements() AstNodeList[AnyNode] { return List[AnyNode](a.raw) }

// Object is `{ key: value, shorthand, ...spread, method() {} }`.
type Object struct{ node }

func (Object) CanCast(kind syntax.Kind) bool { return kind == syntax.KindObject }
func (Object) wrap(n *syntax.Node) Object    { return Object{node{n}} }

func (o Object) Members() AstNodeList[AnyNode] { return List[AnyNode](o.raw) }

// Pair is `key: value` inside an object literal.
type Pair struct{ node }

func (Pair) CanCast(kind syntax.Kind) bool { return kind == syntax.KindPair }
func (Pair) wrap(n *syntax.Node) Pair      { return Pair{node{n}} }

func (p Pair) Key() (PropertyName, bool)         { return childBefore[PropertyName](p.raw, syntax.KindColon) }
func (p Pair) ColonToken() (*syntax.Token, bool) { return Token(p.raw, syntax.KindColon) }
func (p Pair) Value() (AnyNode, bool)            { return childAfter[AnyNode](p.raw, syntax.KindColon) }

// SpreadElement is `...expr` in arrays, objects and arguments.
type SpreadElement struct{ node }

func (SpreadElement) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindSpreadElement }
func (SpreadElement) wrap(n *syntax.Node) SpreadElement { return SpreadElement{node{n}} }

func (s SpreadElement) Argument() (AnyNode, bool) { return Child[AnyNode](s.raw) }

// ComputedPropertyName is `[expr]` used as a key.
type ComputedPropertyName struct{ node }

func (ComputedPropertyName) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindComputedPropertyName
}
func (ComputedPropertyName) wrap(n *syntax.Node) ComputedPropertyName {
	return ComputedPropertyName{node{n}}
}

func (c ComputedPropertyName) Expression() (AnyNode, bool) { return Child[AnyNode](c.raw) }

// AwaitExpression is `await expr`.
type AwaitExpression struct{ node }

func (AwaitExpression) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindAwaitExpression }
func (AwaitExpression) wrap(n *syntax.Node) AwaitExpression { return AwaitExpression{node{n}} }

func (e AwaitExpression) Argument() (AnyNode, bool) { return Child[AnyNode](e.raw) }

// YieldExpression is `yield [*] [expr]`.
type YieldExpression struct{ node }

func (YieldExpression) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindYieldExpression }
func (YieldExpression) wrap(n *syntax.Node) YieldExpression { return YieldExpression{node{n}} }

func (e YieldExpression) StarToken() (*syntax.Token, bool) { return Token(e.raw, syntax.KindStar) }
func (e YieldExpression) Argument() (AnyNode, bool)        { return Child[AnyNode](e.raw) }

// =============================================================================
// Patterns
// =============================================================================

// ObjectPattern is a destructuring `{ a, b: c, ...rest }`.
type ObjectPattern struct{ node }

func (ObjectPattern) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindObjectPattern }
func (ObjectPattern) wrap(n *syntax.Node) ObjectPattern { return ObjectPattern{node{n}} }

func (p ObjectPattern) Properties() AstNodeList[AnyNode] { return List[AnyNode](p.raw) }

// ArrayPattern is a destructuring `[a, , ...rest]`.
type ArrayPattern struct{ node }

func (ArrayPattern) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindArrayPattern }
func (ArrayPattern) wrap(n *syntax.Node) ArrayPattern { return ArrayPattern{node{n}} }

func (p ArrayPattern) Elements() AstNodeList[AnyNode] { return List[AnyNode](p.raw) }

// AssignmentPattern is `target = default`, also used for object
// shorthand defaults.
type AssignmentPattern struct{ node }

func (AssignmentPattern) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindAssignmentPattern || kind == syntax.KindObjectAssignmentPattern
}
func (AssignmentPattern) wrap(n *syntax.Node) AssignmentPattern {
	return AssignmentPattern{node{n}}
}

func (p AssignmentPattern) Left() (AnyNode, bool)          { return nth[AnyNode](p.raw, 0) }
func (p AssignmentPattern) EqToken() (*syntax.Token, bool) { return Token(p.raw, syntax.KindEq) }
func (p AssignmentPattern) Right() (AnyNode, bool) {
	return childAfter[AnyNode](p.raw, syntax.KindEq)
}

// RestPattern is `...target`.
type RestPattern struct{ node }

func (RestPattern) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindRestPattern }
func (RestPattern) wrap(n *syntax.Node) RestPattern { return RestPattern{node{n}} }

func (p RestPattern) Argument() (AnyNode, bool) { return Child[AnyNode](p.raw) }

// PairPattern is `key: target` in an object pattern.
type PairPattern struct{ node }

func (PairPattern) CanCast(kind syntax.Kind) bool   { return kind == syntax.KindPairPattern }
func (PairPattern) wrap(n *syntax.Node) PairPattern { return PairPattern{node{n}} }

func (p PairPattern) Key() (PropertyName, bool) {
	return childBefore[PropertyName](p.raw, syntax.KindColon)
}
func (p PairPattern) Value() (AnyNode, bool) { return childAfter[AnyNode](p.raw, syntax.KindColon) }
