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

import "github.com/AleutianAI/AleutianFmt/services/format/syntax"

// Kinds without a rule (error nodes, unknown productions, TypeScript-only
// syntax) format as absent and are kept verbatim by the enclosing list.
func init() {
	rules = make(map[syntax.Kind]formatFunc)

	// Statements.
	register(rule(formatProgram), syntax.KindProgram)
	register(rule(formatHashBang), syntax.KindHashBangLine)
	register(rule(formatBlock), syntax.KindStatementBlock)
	register(rule(formatExpressionStatement), syntax.KindExpressionStatement)
	register(rule(formatEmptyStatement), syntax.KindEmptyStatement)
	register(rule(formatVariableDeclaration), syntax.KindVariableDeclaration, syntax.KindLexicalDeclaration)
	register(rule(formatVariableDeclarator), syntax.KindVariableDeclarator)
	register(rule(formatIf), syntax.KindIfStatement)
	register(rule(formatElse), syntax.KindElseClause)
	register(rule(formatFor), syntax.KindForStatement)
	register(rule(formatForIn), syntax.KindForInStatement)
	register(rule(formatWhile), syntax.KindWhileStatement)
	register(rule(formatDo), syntax.KindDoStatement)
	register(rule(formatReturn), syntax.KindReturnStatement)
	register(rule(formatThrow), syntax.KindThrowStatement)
	register(rule(formatBreak), syntax.KindBreakStatement)
	register(rule(formatContinue), syntax.KindContinueStatement)
	register(rule(formatDebugger), syntax.KindDebuggerStatement)
	register(rule(formatLabeled), syntax.KindLabeledStatement)
	register(rule(formatTry), syntax.KindTryStatement)
	register(rule(formatCatch), syntax.KindCatchClause)
	register(rule(formatFinally), syntax.KindFinallyClause)
	register(rule(formatSwitch), syntax.KindSwitchStatement)
	register(rule(formatSwitchBody), syntax.KindSwitchBody)
	register(rule(formatSwitchCase), syntax.KindSwitchCase)
	register(rule(formatSwitchDefault), syntax.KindSwitchDefault)

	// Declarations.
	register(rule(formatFunctionDeclaration), syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration)
	register(rule(formatFunctionExpression), syntax.KindFunctionExpression, syntax.KindGeneratorFunction)
	register(rule(formatArrowFunction), syntax.KindArrowFunction)
	register(rule(formatFormalParameters), syntax.KindFormalParameters)
	register(rule(formatClassDeclaration), syntax.KindClassDeclaration)
	register(rule(formatClass), syntax.KindClass)
	register(rule(formatClassHeritage), syntax.KindClassHeritage)
	register(rule(formatClassBody), syntax.KindClassBody)
	register(rule(formatMethod), syntax.KindMethodDefinition)
	register(rule(formatField), syntax.KindFieldDefinition)
	register(rule(formatImport), syntax.KindImportStatement)
	register(rule(formatImportClause), syntax.KindImportClause)
	register(rule(formatNamespaceImport), syntax.KindNamespaceImport)
	register(rule(formatNamedImports), syntax.KindNamedImports)
	register(rule(formatImportSpecifier), syntax.KindImportSpecifier)
	register(rule(formatExport), syntax.KindExportStatement)
	register(rule(formatExportClause), syntax.KindExportClause)
	register(rule(formatExportSpecifier), syntax.KindExportSpecifier)

	// Names and literals.
	register(rule(formatIdentifier), syntax.KindIdentifier)
	register(rule(formatPropertyIdentifier),
		syntax.KindPropertyIdentifier,
		syntax.KindShorthandPropertyIdentifier,
		syntax.KindShorthandPropertyIdentifierPattern,
		syntax.KindPrivatePropertyIdentifier,
	)
	register(rule(formatStatementIdentifier), syntax.KindStatementIdentifier)
	register(rule(formatNumber), syntax.KindNumberLiteral)
	register(rule(formatString), syntax.KindString)
	register(rule(formatKeywordLiteral),
		syntax.KindThis, syntax.KindSuper, syntax.KindTrue, syntax.KindFalse, syntax.KindNull, syntax.KindUndefined)
	register(formatSource, syntax.KindTemplateString, syntax.KindRegex)

	// Expressions.
	register(rule(formatParenthesized), syntax.KindParenthesizedExpression)
	register(rule(formatBinary), syntax.KindBinaryExpression)
	register(rule(formatUnary), syntax.KindUnaryExpression)
	register(rule(formatUpdate), syntax.KindUpdateExpression)
	register(rule(formatAssignment), syntax.KindAssignmentExpression)
	register(rule(formatAugmentedAssignment), syntax.KindAugmentedAssignmentExpression)
	register(rule(formatTernary), syntax.KindTernaryExpression)
	register(rule(formatSequence), syntax.KindSequenceExpression)
	register(rule(formatAwait), syntax.KindAwaitExpression)
	register(rule(formatYield), syntax.KindYieldExpression)
	register(formatSpread, syntax.KindSpreadElement, syntax.KindRestPattern)
	register(rule(formatCall), syntax.KindCallExpression)
	register(rule(formatNew), syntax.KindNewExpression)
	register(rule(formatArguments), syntax.KindArguments)
	register(rule(formatMember), syntax.KindMemberExpression)
	register(rule(formatSubscript), syntax.KindSubscriptExpression)
	register(rule(formatOptionalChain), syntax.KindOptionalChain)
	register(rule(formatArray), syntax.KindArray)
	register(rule(formatObject), syntax.KindObject)
	register(rule(formatPair), syntax.KindPair)
	register(rule(formatComputedPropertyName), syntax.KindComputedPropertyName)

	// Patterns.
	register(rule(formatObjectPattern), syntax.KindObjectPattern)
	register(rule(formatArrayPattern), syntax.KindArrayPattern)
	register(rule(formatAssignmentPattern), syntax.KindAssignmentPattern, syntax.KindObjectAssignmentPattern)
	register(rule(formatPairPattern), syntax.KindPairPattern)
}
