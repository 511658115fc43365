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

// Tree-sitter node type names for the JavaScript grammar. The TypeScript
// and TSX grammars extend it, so the same names apply there.
const (
	tsNodeProgram = "program"
	tsNodeComment = "comment"
	tsNodeError   = "ERROR"
)

// namedKinds maps named tree-sitter productions to CST kinds. Productions
// missing from the table lower to KindUnknownNode.
var namedKinds = map[string]Kind{
	tsNodeProgram:   KindProgram,
	"hash_bang_line": KindHashBangLine,
	tsNodeError:     KindError,

	"expression_statement": KindExpressionStatement,
	"variable_declaration": KindVariableDeclaration,
	"lexical_declaration":  KindLexicalDeclaration,
	"variable_declarator":  KindVariableDeclarator,
	"statement_block":      KindStatementBlock,
	"if_statement":         KindIfStatement,
	"else_clause":          KindElseClause,
	"for_statement":        KindForStatement,
	"for_in_statement":     KindForInStatement,
	"while_statement":      KindWhileStatement,
	"do_statement":         KindDoStatement,
	"try_statement":        KindTryStatement,
	"catch_clause":         KindCatchClause,
	"finally_clause":       KindFinallyClause,
	"switch_statement":     KindSwitchStatement,
	"switch_body":          KindSwitchBody,
	"switch_case":          KindSwitchCase,
	"switch_default":       KindSwitchDefault,
	"return_statement":     KindReturnStatement,
	"throw_statement":      KindThrowStatement,
	"break_statement":      KindBreakStatement,
	"continue_statement":   KindContinueStatement,
	"debugger_statement":   KindDebuggerStatement,
	"empty_statement":      KindEmptyStatement,
	"labeled_statement":    KindLabeledStatement,

	"function_declaration":           KindFunctionDeclaration,
	"generator_function_declaration": KindGeneratorFunctionDeclaration,
	"formal_parameters":              KindFormalParameters,
	"class_declaration":              KindClassDeclaration,
	"class_heritage":                 KindClassHeritage,
	"class_body":                     KindClassBody,
	"method_definition":              KindMethodDefinition,
	"field_definition":               KindFieldDefinition,
	"import_statement":               KindImportStatement,
	"import_clause":                  KindImportClause,
	"namespace_import":               KindNamespaceImport,
	"named_imports":                  KindNamedImports,
	"import_specifier":               KindImportSpecifier,
	"export_statement":               KindExportStatement,
	"export_clause":                  KindExportClause,
	"export_specifier":               KindExportSpecifier,

	"identifier":                            KindIdentifier,
	"property_identifier":                   KindPropertyIdentifier,
	"shorthand_property_identifier":         KindShorthandPropertyIdentifier,
	"shorthand_property_identifier_pattern": KindShorthandPropertyIdentifierPattern,
	"private_property_identifier":           KindPrivatePropertyIdentifier,
	"statement_identifier":                  KindStatementIdentifier,
	"number":                                KindNumberLiteral,
	"string":                                KindString,
	"string_fragment":                       KindStringFragmentNode,
	"escape_sequence":                       KindEscapeSequenceNode,
	"template_string":                       KindTemplateString,
	"template_substitution":                 KindTemplateSubstitution,
	"regex":                                 KindRegex,
	"regex_pattern":                         KindRegexPatternNode,
	"regex_flags":                           KindRegexFlagsNode,
	"this":                                  KindThis,
	"super":                                 KindSuper,
	"true":                                  KindTrue,
	"false":                                 KindFalse,
	"null":                                  KindNull,
	"undefined":                             KindUndefined,

	"parenthesized_expression":        KindParenthesizedExpression,
	"binary_expression":               KindBinaryExpression,
	"unary_expression":                KindUnaryExpression,
	"update_expression":               KindUpdateExpression,
	"assignment_expression":           KindAssignmentExpression,
	"augmented_assignment_expression": KindAugmentedAssignmentExpression,
	"ternary_expression":              KindTernaryExpression,
	"call_expression":                 KindCallExpression,
	"new_expression":                  KindNewExpression,
	"member_expression":               KindMemberExpression,
	"subscript_expression":            KindSubscriptExpression,
	"optional_chain":                  KindOptionalChain,
	"arguments":                       KindArguments,
	"array":                           KindArray,
	"object":                          KindObject,
	"pair":                            KindPair,
	"spread_element":                  KindSpreadElement,
	"await_expression":                KindAwaitExpression,
	"yield_expression":                KindYieldExpression,
	"sequence_expression":             KindSequenceExpression,
	"computed_property_name":          KindComputedPropertyName,
	"arrow_function":                  KindArrowFunction,
	"function":                        KindFunctionExpression,
	"function_expression":             KindFunctionExpression,
	"generator_function":              KindGeneratorFunction,
	"class":                           KindClass,

	"object_pattern":            KindObjectPattern,
	"array_pattern":             KindArrayPattern,
	"assignment_pattern":        KindAssignmentPattern,
	"object_assignment_pattern": KindObjectAssignmentPattern,
	"rest_pattern":              KindRestPattern,
	"pair_pattern":              KindPairPattern,
}

// anonymousKinds maps anonymous tree-sitter leaves (keywords and
// punctuation) to token kinds.
var anonymousKinds = map[string]Kind{
	";":   KindSemicolon,
	",":   KindComma,
	".":   KindDot,
	"?.":  KindQuestionDot,
	":":   KindColon,
	"?":   KindQuestion,
	"(":   KindLParen,
	")":   KindRParen,
	"[":   KindLBracket,
	"]":   KindRBracket,
	"{":   KindLCurly,
	"}":   KindRCurly,
	"=>":  KindArrow,
	"...": KindDotDotDot,
	"=":   KindEq,
	"*":   KindStar,
	"`":   KindBacktick,
	"${":  KindDollarCurly,
	`"`:   KindDoubleQuote,
	"'":   KindSingleQuote,
	"/":   KindSlash,

	"var":        KindVarKeyword,
	"let":        KindLetKeyword,
	"const":      KindConstKeyword,
	"if":         KindIfKeyword,
	"else":       KindElseKeyword,
	"for":        KindForKeyword,
	"in":         KindInKeyword,
	"of":         KindOfKeyword,
	"while":      KindWhileKeyword,
	"do":         KindDoKeyword,
	"return":     KindReturnKeyword,
	"throw":      KindThrowKeyword,
	"break":      KindBreakKeyword,
	"continue":   KindContinueKeyword,
	"debugger":   KindDebuggerKeyword,
	"try":        KindTryKeyword,
	"catch":      KindCatchKeyword,
	"finally":    KindFinallyKeyword,
	"switch":     KindSwitchKeyword,
	"case":       KindCaseKeyword,
	"default":    KindDefaultKeyword,
	"function":   KindFunctionKeyword,
	"async":      KindAsyncKeyword,
	"await":      KindAwaitKeyword,
	"yield":      KindYieldKeyword,
	"class":      KindClassKeyword,
	"extends":    KindExtendsKeyword,
	"static":     KindStaticKeyword,
	"get":        KindGetKeyword,
	"set":        KindSetKeyword,
	"new":        KindNewKeyword,
	"delete":     KindDeleteKeyword,
	"typeof":     KindTypeofKeyword,
	"void":       KindVoidKeyword,
	"instanceof": KindInstanceofKeyword,
	"import":     KindImportKeyword,
	"export":     KindExportKeyword,
	"from":       KindFromKeyword,
	"as":         KindAsKeyword,
}

// operators lists the anonymous leaves lowered to KindOperator.
var operators = []string{
	"+", "-", "%", "**", "++", "--",
	"==", "===", "!=", "!==", "<", "<=", ">", ">=",
	"&&", "||", "??", "!", "~", "&", "|", "^", "<<", ">>", ">>>",
	"+=", "-=", "*=", "/=", "%=", "**=", "&=", "|=", "^=",
	"<<=", ">>=", ">>>=", "&&=", "||=", "??=",
}

func init() {
	for _, op := range operators {
		anonymousKinds[op] = KindOperator
	}
}

// leafTokenKinds names the content token kind wrapped by each leaf node.
var leafTokenKinds = map[Kind]Kind{
	KindIdentifier:                         KindIdent,
	KindPropertyIdentifier:                 KindIdent,
	KindShorthandPropertyIdentifier:        KindIdent,
	KindShorthandPropertyIdentifierPattern: KindIdent,
	KindPrivatePropertyIdentifier:          KindIdent,
	KindStatementIdentifier:                KindIdent,
	KindNumberLiteral:                      KindNumber,
	KindStringFragmentNode:                 KindStringFragment,
	KindEscapeSequenceNode:                 KindEscapeSequence,
	KindRegexPatternNode:                   KindRegexPattern,
	KindRegexFlagsNode:                     KindRegexFlags,
	KindHashBangLine:                       KindHashBang,
	KindThis:                               KindThisKeyword,
	KindSuper:                              KindSuperKeyword,
	KindTrue:                               KindTrueKeyword,
	KindFalse:                              KindFalseKeyword,
	KindNull:                               KindNullKeyword,
	KindUndefined:                          KindUndefinedKeyword,
}

// listSpec describes where a production's list-grouping node starts and
// ends among its children. A nil predicate means the list starts at the
// first child or ends after the last one.
type listSpec struct {
	open  func(Kind) bool
	close func(Kind) bool
}

func isKind(want Kind) func(Kind) bool {
	return func(k Kind) bool { return k == want }
}

func isDeclarationKeyword(k Kind) bool {
	return k == KindVarKeyword || k == KindLetKeyword || k == KindConstKeyword
}

var (
	curlyList   = listSpec{open: isKind(KindLCurly), close: isKind(KindRCurly)}
	parenList   = listSpec{open: isKind(KindLParen), close: isKind(KindRParen)}
	bracketList = listSpec{open: isKind(KindLBracket), close: isKind(KindRBracket)}
)

// listSpecs names every production with a many-child field. Lowering
// always materialises the list node for these, even when it is empty.
var listSpecs = map[Kind]listSpec{
	KindProgram:             {},
	KindStatementBlock:      curlyList,
	KindClassBody:           curlyList,
	KindSwitchBody:          curlyList,
	KindObject:              curlyList,
	KindObjectPattern:       curlyList,
	KindNamedImports:        curlyList,
	KindExportClause:        curlyList,
	KindFormalParameters:    parenList,
	KindArguments:           parenList,
	KindArray:               bracketList,
	KindArrayPattern:        bracketList,
	KindSwitchCase:          {open: isKind(KindColon)},
	KindSwitchDefault:       {open: isKind(KindColon)},
	KindVariableDeclaration: {open: isDeclarationKeyword, close: isKind(KindSemicolon)},
	KindLexicalDeclaration:  {open: isDeclarationKeyword, close: isKind(KindSemicolon)},
}

// HasList reports whether nodes of kind k always carry a list-grouping
// child.
func HasList(k Kind) bool {
	_, ok := listSpecs[k]
	return ok
}
