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

// Kind identifies the grammar production of a CST node or the lexical
// class of a CST token.
//
// Description:
//
//	Kind is a closed enumeration. Every kind is either a token kind
//	(leaves, trivia included) or a node kind (inner structure); the two
//	ranges never overlap, so IsToken and IsNode partition the space.
//	The zero value is KindTombstone and is never produced by the parser.
//
// Thread Safety:
//
//	Kind is a value type and safe for concurrent use.
type Kind uint16

const (
	KindTombstone Kind = iota

	tokensBegin

	// Trivia.
	KindWhitespace
	KindComment

	// KindUnknownToken holds source text the grammar tables do not name.
	KindUnknownToken

	// Content tokens carried inside leaf nodes.
	KindIdent
	KindNumber
	KindStringFragment
	KindEscapeSequence
	KindRegexPattern
	KindRegexFlags
	KindHashBang

	// Punctuation.
	KindSemicolon
	KindComma
	KindDot
	KindQuestionDot
	KindColon
	KindQuestion
	KindLParen
	KindRParen
	KindLBracket
	KindRBracket
	KindLCurly
	KindRCurly
	KindArrow
	KindDotDotDot
	KindEq
	KindStar
	KindBacktick
	KindDollarCurly
	KindDoubleQuote
	KindSingleQuote
	KindSlash

	// KindOperator covers arithmetic, logical, bitwise, comparison and
	// compound assignment operators. The token text carries the operator.
	KindOperator

	keywordsBegin
	KindVarKeyword
	KindLetKeyword
	KindConstKeyword
	KindIfKeyword
	KindElseKeyword
	KindForKeyword
	KindInKeyword
	KindOfKeyword
	KindWhileKeyword
	KindDoKeyword
	KindReturnKeyword
	KindThrowKeyword
	KindBreakKeyword
	KindContinueKeyword
	KindDebuggerKeyword
	KindTryKeyword
	KindCatchKeyword
	KindFinallyKeyword
	KindSwitchKeyword
	KindCaseKeyword
	KindDefaultKeyword
	KindFunctionKeyword
	KindAsyncKeyword
	KindAwaitKeyword
	KindYieldKeyword
	KindClassKeyword
	KindExtendsKeyword
	KindStaticKeyword
	KindGetKeyword
	KindSetKeyword
	KindNewKeyword
	KindDeleteKeyword
	KindTypeofKeyword
	KindVoidKeyword
	KindInstanceofKeyword
	KindImportKeyword
	KindExportKeyword
	KindFromKeyword
	KindAsKeyword
	KindThisKeyword
	KindSuperKeyword
	KindTrueKeyword
	KindFalseKeyword
	KindNullKeyword
	KindUndefinedKeyword
	keywordsEnd

	tokensEnd

	nodesBegin

	// KindList groups the repeated children of a many-child field.
	KindList
	KindError
	KindUnknownNode

	KindProgram
	KindHashBangLine

	// Statements.
	KindExpressionStatement
	KindVariableDeclaration
	KindLexicalDeclaration
	KindVariableDeclarator
	KindStatementBlock
	KindIfStatement
	KindElseClause
	KindForStatement
	KindForInStatement
	KindWhileStatement
	KindDoStatement
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindSwitchStatement
	KindSwitchBody
	KindSwitchCase
	KindSwitchDefault
	KindReturnStatement
	KindThrowStatement
	KindBreakStatement
	KindContinueStatement
	KindDebuggerStatement
	KindEmptyStatement
	KindLabeledStatement

	// Declarations.
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFormalParameters
	KindClassDeclaration
	KindClassHeritage
	KindClassBody
	KindMethodDefinition
	KindFieldDefinition
	KindImportStatement
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindExportStatement
	KindExportClause
	KindExportSpecifier

	// Names and literals.
	KindIdentifier
	KindPropertyIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindPrivatePropertyIdentifier
	KindStatementIdentifier
	KindNumberLiteral
	KindString
	KindStringFragmentNode
	KindEscapeSequenceNode
	KindTemplateString
	KindTemplateSubstitution
	KindRegex
	KindRegexPatternNode
	KindRegexFlagsNode
	KindThis
	KindSuper
	KindTrue
	KindFalse
	KindNull
	KindUndefined

	// Expressions.
	KindParenthesizedExpression
	KindBinaryExpression
	KindUnaryExpression
	KindUpdateExpression
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindTernaryExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindSubscriptExpression
	KindOptionalChain
	KindArguments
	KindArray
	KindObject
	KindPair
	KindSpreadElement
	KindAwaitExpression
	KindYieldExpression
	KindSequenceExpression
	KindComputedPropertyName
	KindArrowFunction
	KindFunctionExpression
	KindGeneratorFunction
	KindClass

	// Patterns.
	KindObjectPattern
	KindArrayPattern
	KindAssignmentPattern
	KindObjectAssignmentPattern
	KindRestPattern
	KindPairPattern

	nodesEnd
)

// IsToken reports whether k is a leaf kind.
func (k Kind) IsToken() bool {
	return k > tokensBegin && k < tokensEnd && k != keywordsBegin && k != keywordsEnd
}

// IsNode reports whether k is an inner-node kind.
func (k Kind) IsNode() bool {
	return k > nodesBegin && k < nodesEnd
}

// IsTrivia reports whether tokens of kind k carry no grammar meaning.
func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k == KindComment
}

// IsKeyword reports whether k is a reserved or contextual keyword token.
func (k Kind) IsKeyword() bool {
	return k > keywordsBegin && k < keywordsEnd
}

// String returns the upper-snake name of the kind, e.g. CONTINUE_STATEMENT.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", uint16(k))
}

var kindNames = map[Kind]string{
	KindTombstone:      "TOMBSTONE",
	KindWhitespace:     "WHITESPACE",
	KindComment:        "COMMENT",
	KindUnknownToken:   "UNKNOWN_TOKEN",
	KindIdent:          "IDENT",
	KindNumber:         "NUMBER",
	KindStringFragment: "STRING_FRAGMENT",
	KindEscapeSequence: "ESCAPE_SEQUENCE",
	KindRegexPattern:   "REGEX_PATTERN",
	KindRegexFlags:     "REGEX_FLAGS",
	KindHashBang:       "HASH_BANG",

	KindSemicolon:   "SEMICOLON",
	KindComma:       "COMMA",
	KindDot:         "DOT",
	KindQuestionDot: "QUESTION_DOT",
	KindColon:       "COLON",
	KindQuestion:    "QUESTION",
	KindLParen:      "L_PAREN",
	KindRParen:      "R_PAREN",
	KindLBracket:    "L_BRACKET",
	KindRBracket:    "R_BRACKET",
	KindLCurly:      "L_CURLY",
	KindRCurly:      "R_CURLY",
	KindArrow:       "FAT_ARROW",
	KindDotDotDot:   "DOT_DOT_DOT",
	KindEq:          "EQ",
	KindStar:        "STAR",
	KindBacktick:    "BACKTICK",
	KindDollarCurly: "DOLLAR_CURLY",
	KindDoubleQuote: "DOUBLE_QUOTE",
	KindSingleQuote: "SINGLE_QUOTE",
	KindSlash:       "SLASH",
	KindOperator:    "OPERATOR",

	KindVarKeyword:        "VAR_KW",
	KindLetKeyword:        "LET_KW",
	KindConstKeyword:      "CONST_KW",
	KindIfKeyword:         "IF_KW",
	KindElseKeyword:       "ELSE_KW",
	KindForKeyword:        "FOR_KW",
	KindInKeyword:         "IN_KW",
	KindOfKeyword:         "OF_KW",
	KindWhileKeyword:      "WHILE_KW",
	KindDoKeyword:         "DO_KW",
	KindReturnKeyword:     "RETURN_KW",
	KindThrowKeyword:      "THROW_KW",
	KindBreakKeyword:      "BREAK_KW",
	KindContinueKeyword:   "CONTINUE_KW",
	KindDebuggerKeyword:   "DEBUGGER_KW",
	KindTryKeyword:        "TRY_KW",
	KindCatchKeyword:      "CATCH_KW",
	KindFinallyKeyword:    "FINALLY_KW",
	KindSwitchKeyword:     "SWITCH_KW",
	KindCaseKeyword:       "CASE_KW",
	KindDefaultKeyword:    "DEFAULT_KW",
	KindFunctionKeyword:   "FUNCTION_KW",
	KindAsyncKeyword:      "ASYNC_KW",
	KindAwaitKeyword:      "AWAIT_KW",
	KindYieldKeyword:      "YIELD_KW",
	KindClassKeyword:      "CLASS_KW",
	KindExtendsKeyword:    "EXTENDS_KW",
	KindStaticKeyword:     "STATIC_KW",
	KindGetKeyword:        "GET_KW",
	KindSetKeyword:        "SET_KW",
	KindNewKeyword:        "NEW_KW",
	KindDeleteKeyword:     "DELETE_KW",
	KindTypeofKeyword:     "TYPEOF_KW",
	KindVoidKeyword:       "VOID_KW",
	KindInstanceofKeyword: "INSTANCEOF_KW",
	KindImportKeyword:     "IMPORT_KW",
	KindExportKeyword:     "EXPORT_KW",
	KindFromKeyword:       "FROM_KW",
	KindAsKeyword:         "AS_KW",
	KindThisKeyword:       "THIS_KW",
	KindSuperKeyword:      "SUPER_KW",
	KindTrueKeyword:       "TRUE_KW",
	KindFalseKeyword:      "FALSE_KW",
	KindNullKeyword:       "NULL_KW",
	KindUndefinedKeyword:  "UNDEFINED_KW",

	KindList:        "LIST",
	KindError:       "ERROR",
	KindUnknownNode: "UNKNOWN_NODE",

	KindProgram:                  "PROGRAM",
	KindHashBangLine:             "HASH_BANG_LINE",
	KindExpressionStatement:      "EXPRESSION_STATEMENT",
	KindVariableDeclaration:      "VARIABLE_DECLARATION",
	KindLexicalDeclaration:       "LEXICAL_DECLARATION",
	KindVariableDeclarator:       "VARIABLE_DECLARATOR",
	KindStatementBlock:           "STATEMENT_BLOCK",
	KindIfStatement:              "IF_STATEMENT",
	KindElseClause:               "ELSE_CLAUSE",
	KindForStatement:             "FOR_STATEMENT",
	KindForInStatement:           "FOR_IN_STATEMENT",
	KindWhileStatement:           "WHILE_STATEMENT",
	KindDoStatement:              "DO_STATEMENT",
	KindTryStatement:             "TRY_STATEMENT",
	KindCatchClause:              "CATCH_CLAUSE",
	KindFinallyClause:            "FINALLY_CLAUSE",
	KindSwitchStatement:          "SWITCH_STATEMENT",
	KindSwitchBody:               "SWITCH_BODY",
	KindSwitchCase:               "SWITCH_CASE",
	KindSwitchDefault:            "SWITCH_DEFAULT",
	KindReturnStatement:          "RETURN_STATEMENT",
	KindThrowStatement:           "THROW_STATEMENT",
	KindBreakStatement:           "BREAK_STATEMENT",
	KindContinueStatement:        "CONTINUE_STATEMENT",
	KindDebuggerStatement:        "DEBUGGER_STATEMENT",
	KindEmptyStatement:           "EMPTY_STATEMENT",
	KindLabeledStatement:         "LABELED_STATEMENT",

	KindFunctionDeclaration:          "FUNCTION_DECLARATION",
	KindGeneratorFunctionDeclaration: "GENERATOR_FUNCTION_DECLARATION",

	KindFormalParameters:         "FORMAL_PARAMETERS",
	KindClassDeclaration:         "CLASS_DECLARATION",
	KindClassHeritage:            "CLASS_HERITAGE",
	KindClassBody:                "CLASS_BODY",
	KindMethodDefinition:         "METHOD_DEFINITION",
	KindFieldDefinition:          "FIELD_DEFINITION",
	KindImportStatement:          "IMPORT_STATEMENT",
	KindImportClause:             "IMPORT_CLAUSE",
	KindNamespaceImport:          "NAMESPACE_IMPORT",
	KindNamedImports:             "NAMED_IMPORTS",
	KindImportSpecifier:          "IMPORT_SPECIFIER",
	KindExportStatement:          "EXPORT_STATEMENT",
	KindExportClause:             "EXPORT_CLAUSE",
	KindExportSpecifier:          "EXPORT_SPECIFIER",

	KindIdentifier:                         "IDENTIFIER",
	KindPropertyIdentifier:                 "PROPERTY_IDENTIFIER",
	KindShorthandPropertyIdentifier:        "SHORTHAND_PROPERTY_IDENTIFIER",
	KindShorthandPropertyIdentifierPattern: "SHORTHAND_PROPERTY_IDENTIFIER_PATTERN",
	KindPrivatePropertyIdentifier:          "PRIVATE_PROPERTY_IDENTIFIER",
	KindStatementIdentifier:                "STATEMENT_IDENTIFIER",
	KindNumberLiteral:                      "NUMBER_LITERAL",
	KindString:                             "STRING",
	KindStringFragmentNode:                 "STRING_FRAGMENT_NODE",
	KindEscapeSequenceNode:                 "ESCAPE_SEQUENCE_NODE",
	KindTemplateString:                     "TEMPLATE_STRING",
	KindTemplateSubstitution:               "TEMPLATE_SUBSTITUTION",
	KindRegex:                              "REGEX",
	KindRegexPatternNode:                   "REGEX_PATTERN_NODE",
	KindRegexFlagsNode:                     "REGEX_FLAGS_NODE",
	KindThis:                               "THIS",
	KindSuper:                              "SUPER",
	KindTrue:                               "TRUE",
	KindFalse:                              "FALSE",
	KindNull:                               "NULL",
	KindUndefined:                          "UNDEFINED",

	KindParenthesizedExpression:       "PARENTHESIZED_EXPRESSION",
	KindBinaryExpression:              "BINARY_EXPRESSION",
	KindUnaryExpression:               "UNARY_EXPRESSION",
	KindUpdateExpression:              "UPDATE_EXPRESSION",
	KindAssignmentExpression:          "ASSIGNMENT_EXPRESSION",
	KindAugmentedAssignmentExpression: "AUGMENTED_ASSIGNMENT_EXPRESSION",
	KindTernaryExpression:             "TERNARY_EXPRESSION",
	KindCallExpression:                "CALL_EXPRESSION",
	KindNewExpression:                 "NEW_EXPRESSION",
	KindMemberExpression:              "MEMBER_EXPRESSION",
	KindSubscriptExpression:           "SUBSCRIPT_EXPRESSION",
	KindOptionalChain:                 "OPTIONAL_CHAIN",
	KindArguments:                     "ARGUMENTS",
	KindArray:                         "ARRAY",
	KindObject:                        "OBJECT",
	KindPair:                          "PAIR",
	KindSpreadElement:                 "SPREAD_ELEMENT",
	KindAwaitExpression:               "AWAIT_EXPRESSION",
	KindYieldExpression:               "YIELD_EXPRESSION",
	KindSequenceExpression:            "SEQUENCE_EXPRESSION",
	KindComputedPropertyName:          "COMPUTED_PROPERTY_NAME",
	KindArrowFunction:                 "ARROW_FUNCTION",
	KindFunctionExpression:            "FUNCTION_EXPRESSION",
	KindGeneratorFunction:             "GENERATOR_FUNCTION",
	KindClass:                         "CLASS",

	KindObjectPattern:           "OBJECT_PATTERN",
	KindArrayPattern:            "ARRAY_PATTERN",
	KindAssignmentPattern:       "ASSIGNMENT_PATTERN",
	KindObjectAssignmentPattern: "OBJECT_ASSIGNMENT_PATTERN",
	KindRestPattern:             "REST_PATTERN",
	KindPairPattern:             "PAIR_PATTERN",
}
