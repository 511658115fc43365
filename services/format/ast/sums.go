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

// Sum views claim a union of kinds. They are used for grammar slots that
// accept several productions, e.g. a statement list or an expression
// operand.

var statementKinds = kindSet(
	syntax.KindExpressionStatement,
	syntax.KindVariableDeclaration,
	syntax.KindLexicalDeclaration,
	syntax.KindStatementBlock,
	syntax.KindIfStatement,
	syntax.KindForStatement,
	syntax.KindForInStatement,
	syntax.KindWhileStatement,
	syntax.KindDoStatement,
	syntax.KindTryStatement,
	syntax.KindSwitchStatement,
	syntax.KindReturnStatement,
	syntax.KindThrowStatement,
	syntax.KindBreakStatement,
	syntax.KindContinueStatement,
	syntax.KindDebuggerStatement,
	syntax.KindEmptyStatement,
	syntax.KindLabeledStatement,
	syntax.KindFunctionDeclaration,
	syntax.KindGeneratorFunctionDeclaration,
	syntax.KindClassDeclaration,
	syntax.KindImportStatement,
	syntax.KindExportStatement,
	syntax.KindHashBangLine,
)

var expressionKinds = kindSet(
	syntax.KindIdentifier,
	syntax.KindNumberLiteral,
	syntax.KindString,
	syntax.KindTemplateString,
	syntax.KindRegex,
	syntax.KindThis,
	syntax.KindSuper,
	syntax.KindTrue,
	syntax.KindFalse,
	syntax.KindNull,
	syntax.KindUndefined,
	syntax.KindParenthesizedExpression,
	syntax.KindBinaryExpression,
	syntax.KindUnaryExpression,
	syntax.KindUpdateExpression,
	syntax.KindAssignmentExpression,
	syntax.KindAugmentedAssignmentExpression,
	syntax.KindTernaryExpression,
	syntax.KindCallExpression,
	syntax.KindNewExpression,
	syntax.KindMemberExpression,
	syntax.KindSubscriptExpression,
	syntax.KindArray,
	syntax.KindObject,
	syntax.KindAwaitExpression,
	syntax.KindYieldExpression,
	syntax.KindSequenceExpression,
	syntax.KindArrowFunction,
	syntax.KindFunctionExpression,
	syntax.KindGeneratorFunction,
	syntax.KindClass,
)

var declarationKinds = kindSet(
	syntax.KindFunctionDeclaration,
	syntax.KindGeneratorFunctionDeclaration,
	syntax.KindClassDeclaration,
	syntax.KindLexicalDeclaration,
	syntax.KindVariableDeclaration,
)

var patternKinds = kindSet(
	syntax.KindIdentifier,
	syntax.KindMemberExpression,
	syntax.KindSubscriptExpression,
	syntax.KindObjectPattern,
	syntax.KindArrayPattern,
	syntax.KindAssignmentPattern,
	syntax.KindRestPattern,
	syntax.KindUndefined,
)

var propertyNameKinds = kindSet(
	syntax.KindPropertyIdentifier,
	syntax.KindPrivatePropertyIdentifier,
	syntax.KindString,
	syntax.KindNumberLiteral,
	syntax.KindComputedPropertyName,
)

func kindSet(kinds ...syntax.Kind) map[syntax.Kind]bool {
	set := make(map[syntax.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Statement is any statement or declaration that may appear in a
// statement list.
type Statement struct{ node }

func (Statement) CanCast(kind syntax.Kind) bool { return statementKinds[kind] }
func (Statement) wrap(n *syntax.Node) Statement { return Statement{node{n}} }

// Expression is any expression production.
type Expression struct{ node }

func (Expression) CanCast(kind syntax.Kind) bool  { return expressionKinds[kind] }
func (Expression) wrap(n *syntax.Node) Expression { return Expression{node{n}} }

// Declaration is a function, class or variable declaration.
type Declaration struct{ node }

func (Declaration) CanCast(kind syntax.Kind) bool   { return declarationKinds[kind] }
func (Declaration) wrap(n *syntax.Node) Declaration { return Declaration{node{n}} }

// Pattern is a binding or assignment target.
type Pattern struct{ node }

func (Pattern) CanCast(kind syntax.Kind) bool { return patternKinds[kind] }
func (Pattern) wrap(n *syntax.Node) Pattern   { return Pattern{node{n}} }

// PropertyName is the key of a method or field.
type PropertyName struct{ node }

func (PropertyName) CanCast(kind syntax.Kind) bool    { return propertyNameKinds[kind] }
func (PropertyName) wrap(n *syntax.Node) PropertyName { return PropertyName{node{n}} }

// ClassMember is a method or field of a class body.
type ClassMember struct{ node }

func (ClassMember) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindMethodDefinition || kind == syntax.KindFieldDefinition
}
func (ClassMember) wrap(n *syntax.Node) ClassMember { return ClassMember{node{n}} }

// SwitchClause is a case or default clause.
type SwitchClause struct{ node }

func (SwitchClause) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindSwitchCase || kind == syntax.KindSwitchDefault
}
func (SwitchClause) wrap(n *syntax.Node) SwitchClause { return SwitchClause{node{n}} }

// AnyNode claims every node kind except the list-grouping kind. It is
// used for slots whose productions the formatter dispatches dynamically.
type AnyNode struct{ node }

func (AnyNode) CanCast(kind syntax.Kind) bool { return kind.IsNode() && kind != syntax.KindList }
func (AnyNode) wrap(n *syntax.Node) AnyNode   { return AnyNode{node{n}} }
