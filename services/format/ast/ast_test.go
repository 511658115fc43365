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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

func parseJS(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := syntax.Parse(context.Background(), []byte(src), syntax.JavaScript)
	require.NoError(t, err)
	return tree.Root()
}

func first(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	var found *syntax.Node
	root.Walk(func(e syntax.Element) bool {
		if found != nil {
			return false
		}
		if n, ok := e.AsNode(); ok && n.Kind() == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func build(t *testing.T, fn func(b *syntax.Builder)) *syntax.Node {
	t.Helper()
	b := syntax.NewBuilder()
	fn(b)
	root, err := b.Finish()
	require.NoError(t, err)
	return root
}

// totalitySource exercises most productions, including broken input.
const totalitySource = `#!/usr/bin/env node
import def, * as ns from "m";
import { a as b, c } from "n";
export { b, c as d };
export default class A extends B {
  static x = 1;
  #p = 2;
  get y() { return this.#p; }
  async *gen() { yield* other(); await z; }
}
function f(a, b = 1, ...rest) { return a ?? b; }
function* g() { yield 1; }
const o = { k: 1, [key]: 2, m() {}, ...spread }, [p, , q = 3, ...r] = arr;
let { s, t: u = 4, ...v } = obj;
label: for (let i = 0; i < 10; i++) { if (i % 2) continue label; else break; }
for (const k in o) {} for (const x of xs) {}
while (a) a--; do { ++b; } while (b < 3);
try { throw new Error("x"); } catch (e) { debugger; } finally { ; }
switch (x) { case 1: y(); break; default: z(); }
x = a ? b : c, y += 2, z = (1 + 2) * -3;
h?.(1)?.[2]?.m, typeof null, void 0, true, false, undefined, super.x;
tpl = ` + "`a${b}c`" + `; re = /ab+c/gi; n = 0x1f;
const arrow = async (a) => a + 1;
broken( ;
`

type castCase struct {
	name  string
	check func(*syntax.Node) (claims, cast, same bool)
}

func castCheck[N AstNode[N]]() func(*syntax.Node) (bool, bool, bool) {
	return func(n *syntax.Node) (bool, bool, bool) {
		var zero N
		view, ok := Cast[N](n)
		return zero.CanCast(n.Kind()), ok, !ok || view.Syntax() == n
	}
}

type castTokenCase struct {
	name  string
	check func(*syntax.Token) (claims, cast, same bool)
}

func castTokenCheck[T AstToken[T]]() func(*syntax.Token) (bool, bool, bool) {
	return func(tok *syntax.Token) (bool, bool, bool) {
		var zero T
		view, ok := CastToken[T](tok)
		return zero.CanCast(tok.Kind()), ok, !ok || view.Syntax() == tok
	}
}

var castCases = []castCase{
	{"Program", castCheck[Program]()},
	{"HashBangLine", castCheck[HashBangLine]()},
	{"StatementBlock", castCheck[StatementBlock]()},
	{"ExpressionStatement", castCheck[ExpressionStatement]()},
	{"VariableDeclaration", castCheck[VariableDeclaration]()},
	{"VariableDeclarator", castCheck[VariableDeclarator]()},
	{"IfStatement", castCheck[IfStatement]()},
	{"ElseClause", castCheck[ElseClause]()},
	{"ForStatement", castCheck[ForStatement]()},
	{"ForInStatement", castCheck[ForInStatement]()},
	{"WhileStatement", castCheck[WhileStatement]()},
	{"DoStatement", castCheck[DoStatement]()},
	{"ReturnStatement", castCheck[ReturnStatement]()},
	{"ThrowStatement", castCheck[ThrowStatement]()},
	{"BreakStatement", castCheck[BreakStatement]()},
	{"ContinueStatement", castCheck[ContinueStatement]()},
	{"DebuggerStatement", castCheck[DebuggerStatement]()},
	{"EmptyStatement", castCheck[EmptyStatement]()},
	{"LabeledStatement", castCheck[LabeledStatement]()},
	{"TryStatement", castCheck[TryStatement]()},
	{"CatchClause", castCheck[CatchClause]()},
	{"FinallyClause", castCheck[FinallyClause]()},
	{"SwitchStatement", castCheck[SwitchStatement]()},
	{"SwitchBody", castCheck[SwitchBody]()},
	{"SwitchCase", castCheck[SwitchCase]()},
	{"SwitchDefault", castCheck[SwitchDefault]()},
	{"FunctionDeclaration", castCheck[FunctionDeclaration]()},
	{"GeneratorFunctionDeclaration", castCheck[GeneratorFunctionDeclaration]()},
	{"FunctionExpression", castCheck[FunctionExpression]()},
	{"ArrowFunction", castCheck[ArrowFunction]()},
	{"FormalParameters", castCheck[FormalParameters]()},
	{"ClassDeclaration", castCheck[ClassDeclaration]()},
	{"Class", castCheck[Class]()},
	{"ClassHeritage", castCheck[ClassHeritage]()},
	{"ClassBody", castCheck[ClassBody]()},
	{"MethodDefinition", castCheck[MethodDefinition]()},
	{"FieldDefinition", castCheck[FieldDefinition]()},
	{"ImportStatement", castCheck[ImportStatement]()},
	{"ImportClause", castCheck[ImportClause]()},
	{"NamespaceImport", castCheck[NamespaceImport]()},
	{"NamedImports", castCheck[NamedImports]()},
	{"ImportSpecifier", castCheck[ImportSpecifier]()},
	{"ExportStatement", castCheck[ExportStatement]()},
	{"ExportClause", castCheck[ExportClause]()},
	{"ExportSpecifier", castCheck[ExportSpecifier]()},
	{"Identifier", castCheck[Identifier]()},
	{"PropertyIdentifier", castCheck[PropertyIdentifier]()},
	{"StatementIdentifier", castCheck[StatementIdentifier]()},
	{"Number", castCheck[Number]()},
	{"String", castCheck[String]()},
	{"TemplateString", castCheck[TemplateString]()},
	{"TemplateSubstitution", castCheck[TemplateSubstitution]()},
	{"Regex", castCheck[Regex]()},
	{"KeywordLiteral", castCheck[KeywordLiteral]()},
	{"ParenthesizedExpression", castCheck[ParenthesizedExpression]()},
	{"BinaryExpression", castCheck[BinaryExpression]()},
	{"UnaryExpression", castCheck[UnaryExpression]()},
	{"UpdateExpression", castCheck[UpdateExpression]()},
	{"AssignmentExpression", castCheck[AssignmentExpression]()},
	{"AugmentedAssignmentExpression", castCheck[AugmentedAssignmentExpression]()},
	{"TernaryExpression", castCheck[TernaryExpression]()},
	{"SequenceExpression", castCheck[SequenceExpression]()},
	{"CallExpression", castCheck[CallExpression]()},
	{"NewExpression", castCheck[NewExpression]()},
	{"MemberExpression", castCheck[MemberExpression]()},
	{"SubscriptExpression", castCheck[SubscriptExpression]()},
	{"OptionalChain", castCheck[OptionalChain]()},
	{"Arguments", castCheck[Arguments]()},
	{"Array", castCheck[Array]()},
	{"Object", castCheck[Object]()},
	{"Pair", castCheck[Pair]()},
	{"SpreadElement", castCheck[SpreadElement]()},
	{"ComputedPropertyName", castCheck[ComputedPropertyName]()},
	{"AwaitExpression", castCheck[AwaitExpression]()},
	{"YieldExpression", castCheck[YieldExpression]()},
	{"ObjectPattern", castCheck[ObjectPattern]()},
	{"ArrayPattern", castCheck[ArrayPattern]()},
	{"AssignmentPattern", castCheck[AssignmentPattern]()},
	{"RestPattern", castCheck[RestPattern]()},
	{"PairPattern", castCheck[PairPattern]()},
	{"Statement", castCheck[Statement]()},
	{"Expression", castCheck[Expression]()},
	{"Declaration", castCheck[Declaration]()},
	{"Pattern", castCheck[Pattern]()},
	{"PropertyName", castCheck[PropertyName]()},
	{"ClassMember", castCheck[ClassMember]()},
	{"SwitchClause", castCheck[SwitchClause]()},
	{"AnyNode", castCheck[AnyNode]()},
}

var castTokenCases = []castTokenCase{
	{"Ident", castTokenCheck[Ident]()},
	{"Keyword", castTokenCheck[Keyword]()},
	{"Operator", castTokenCheck[Operator]()},
	{"Punct", castTokenCheck[Punct]()},
	{"Comment", castTokenCheck[Comment]()},
	{"Whitespace", castTokenCheck[Whitespace]()},
}

func TestCast_Totality(t *testing.T) {
	root := parseJS(t, totalitySource)
	var (
		nodes  []*syntax.Node
		tokens []*syntax.Token
	)
	root.Walk(func(e syntax.Element) bool {
		if n, ok := e.AsNode(); ok {
			nodes = append(nodes, n)
		}
		if tok, ok := e.AsToken(); ok {
			tokens = append(tokens, tok)
		}
		return true
	})
	require.Greater(t, len(nodes), 100)
	nodes = append(nodes, build(t, func(b *syntax.Builder) {
		b.StartNode(syntax.KindError)
		b.Token(syntax.KindIdent, "x")
		b.FinishNode()
	}))

	for _, tt := range castCases {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range nodes {
				claims, cast, same := tt.check(n)
				assert.Equal(t, claims, cast, "%s on %s", tt.name, n.Kind())
				assert.True(t, same, "%s on %s", tt.name, n.Kind())
			}
		})
	}
	for _, tt := range castTokenCases {
		t.Run(tt.name, func(t *testing.T) {
			for _, tok := range tokens {
				claims, cast, same := tt.check(tok)
				assert.Equal(t, claims, cast, "%s on %s", tt.name, tok.Kind())
				assert.True(t, same, "%s on %s", tt.name, tok.Kind())
			}
		})
	}

	_, ok := Cast[ContinueStatement](nil)
	assert.False(t, ok)
	_, ok = Cast[AnyNode](nil)
	assert.False(t, ok)
	_, ok = CastToken[Ident](nil)
	assert.False(t, ok)
}

func TestCast_AnyNodeClaimsEveryNonList(t *testing.T) {
	root := parseJS(t, totalitySource)
	root.Walk(func(e syntax.Element) bool {
		if n, ok := e.AsNode(); ok {
			_, cast := Cast[AnyNode](n)
			assert.Equal(t, n.Kind() != syntax.KindList, cast, n.Kind().String())
		}
		return true
	})
}

func TestCast_ZeroCopyIdentity(t *testing.T) {
	root := parseJS(t, "while (x) {\n  continue /* why */ ;\n}\n")
	raw := first(root, syntax.KindContinueStatement)
	require.NotNil(t, raw)

	stmt, ok := Cast[ContinueStatement](raw)
	require.True(t, ok)
	assert.Same(t, raw, stmt.Syntax())
	assert.Equal(t, raw.TrimmedText(), stmt.Text())
	assert.Equal(t, raw.TrimmedRange(), stmt.Range())
	assert.Equal(t, "continue /* why */ ;", stmt.Text())

	kw, ok := stmt.ContinueToken()
	require.True(t, ok)
	assert.Equal(t, "continue", kw.Text())
	_, ok = stmt.Label()
	assert.False(t, ok)
	semi, ok := stmt.SemicolonToken()
	require.True(t, ok)
	assert.Equal(t, ";", semi.Text())
}

func TestCastToken_Keyword(t *testing.T) {
	root := parseJS(t, "continue;")
	raw := first(root, syntax.KindContinueStatement)
	require.NotNil(t, raw)
	stmt, _ := Cast[ContinueStatement](raw)

	tok, ok := stmt.ContinueToken()
	require.True(t, ok)
	kw, ok := CastToken[Keyword](tok)
	require.True(t, ok)
	assert.Equal(t, syntax.KindContinueKeyword, kw.Kind())
	assert.Same(t, tok, kw.Syntax())

	_, ok = CastToken[Ident](tok)
	assert.False(t, ok)
	_, ok = CastToken[Punct](tok)
	assert.False(t, ok)

	semi, ok := stmt.SemicolonToken()
	require.True(t, ok)
	_, ok = CastToken[Punct](semi)
	assert.True(t, ok)
}

func TestContinueStatement_Label(t *testing.T) {
	root := parseJS(t, "outer: while (x) { continue outer; }")
	raw := first(root, syntax.KindContinueStatement)
	require.NotNil(t, raw)
	stmt, _ := Cast[ContinueStatement](raw)

	label, ok := stmt.Label()
	require.True(t, ok)
	assert.Equal(t, "outer", label.Text())
	name, ok := label.NameToken()
	require.True(t, ok)
	assert.Equal(t, syntax.KindIdent, name.Kind())

	_, ok = CastToken[Keyword](name)
	assert.False(t, ok)
	assert.False(t, Keyword{}.CanCast(syntax.KindIdent))
	ident, ok := CastToken[Ident](name)
	require.True(t, ok)
	assert.Equal(t, "outer", ident.Text())
}

func TestList_Empty(t *testing.T) {
	root := parseJS(t, "function f() {}")
	raw := first(root, syntax.KindStatementBlock)
	require.NotNil(t, raw)
	block, ok := Cast[StatementBlock](raw)
	require.True(t, ok)

	stmts := block.Statements()
	assert.True(t, stmts.IsEmpty())
	assert.Equal(t, 0, stmts.Len())
	_, ok = stmts.First()
	assert.False(t, ok)
	_, ok = stmts.Last()
	assert.False(t, ok)
	assert.Same(t, raw, stmts.Parent())

	params, ok := Cast[FormalParameters](first(root, syntax.KindFormalParameters))
	require.True(t, ok)
	items := params.Items()
	assert.Equal(t, 0, items.Len())
	assert.True(t, items.IsEmpty())
	_, ok = items.First()
	assert.False(t, ok)
	_, ok = items.Last()
	assert.False(t, ok)
}

func TestList_Items(t *testing.T) {
	root := parseJS(t, "a();\n// note\nb();\nc();\n")
	prog, ok := Cast[Program](root)
	require.True(t, ok)

	stmts := prog.Statements()
	assert.Equal(t, 3, stmts.Len())
	firstStmt, ok := stmts.First()
	require.True(t, ok)
	assert.Equal(t, "a();", firstStmt.Text())
	lastStmt, ok := stmts.Last()
	require.True(t, ok)
	assert.Equal(t, "c();", lastStmt.Text())

	var texts []string
	for s := range stmts.Iter().All() {
		texts = append(texts, s.Text())
	}
	assert.Equal(t, []string{"a();", "b();", "c();"}, texts)
}

func TestList_MissingPanics(t *testing.T) {
	root := build(t, func(b *syntax.Builder) {
		b.StartNode(syntax.KindStatementBlock)
		b.Token(syntax.KindLCurly, "{")
		b.Token(syntax.KindRCurly, "}")
		b.FinishNode()
	})
	block, ok := Cast[StatementBlock](root)
	require.True(t, ok)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrMissingList))
	}()
	block.Statements()
}

func TestChildren_SinglePass(t *testing.T) {
	root := parseJS(t, "f(a, b, c)")
	raw := first(root, syntax.KindArguments)
	require.NotNil(t, raw)
	args, _ := Cast[Arguments](raw)

	it := args.Items().Iter()
	assert.Len(t, it.Collect(), 3)
	_, ok := it.Next()
	assert.False(t, ok, "drained cursor stays exhausted")
	_, ok = it.Next()
	assert.False(t, ok)

	assert.Len(t, args.Items().Iter().Collect(), 3, "accessor yields a fresh cursor")
}

func TestOptionalFields_Malformed(t *testing.T) {
	// A continue statement whose keyword was dropped during recovery.
	root := build(t, func(b *syntax.Builder) {
		b.StartNode(syntax.KindContinueStatement)
		b.Token(syntax.KindSemicolon, ";")
		b.FinishNode()
	})
	stmt, ok := Cast[ContinueStatement](root)
	require.True(t, ok)

	_, ok = stmt.ContinueToken()
	assert.False(t, ok)
	_, ok = stmt.Label()
	assert.False(t, ok)
	_, ok = stmt.SemicolonToken()
	assert.True(t, ok)
}

func TestOptionalFields_RecoveredParse(t *testing.T) {
	root := parseJS(t, "if (x")
	raw := first(root, syntax.KindIfStatement)
	if raw == nil {
		t.Skip("grammar did not produce an if statement")
	}
	stmt, _ := Cast[IfStatement](raw)
	_, ok := stmt.Alternative()
	assert.False(t, ok)
	_, ok = stmt.IfToken()
	assert.True(t, ok)
}

func TestSums(t *testing.T) {
	tests := []struct {
		src  string
		kind syntax.Kind
		stmt bool
		expr bool
		decl bool
	}{
		{"x = 1;", syntax.KindExpressionStatement, true, false, false},
		{"let x = 1;", syntax.KindLexicalDeclaration, true, false, true},
		{"function f() {}", syntax.KindFunctionDeclaration, true, false, true},
		{"a + b;", syntax.KindBinaryExpression, false, true, false},
		{"(function () {});", syntax.KindFunctionExpression, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			raw := first(parseJS(t, tt.src), tt.kind)
			require.NotNil(t, raw)
			_, ok := Cast[Statement](raw)
			assert.Equal(t, tt.stmt, ok)
			_, ok = Cast[Expression](raw)
			assert.Equal(t, tt.expr, ok)
			_, ok = Cast[Declaration](raw)
			assert.Equal(t, tt.decl, ok)
		})
	}
}

func TestExpressions(t *testing.T) {
	root := parseJS(t, "x = a.b?.c(d, ...e)[f] ? g : h;\nh += 1;\n")

	ternary, ok := Cast[TernaryExpression](first(root, syntax.KindTernaryExpression))
	require.True(t, ok)
	cond, ok := ternary.Condition()
	require.True(t, ok)
	assert.Equal(t, "a.b?.c(d, ...e)[f]", cond.Text())
	cons, ok := ternary.Consequence()
	require.True(t, ok)
	assert.Equal(t, "g", cons.Text())
	alt, ok := ternary.Alternative()
	require.True(t, ok)
	assert.Equal(t, "h", alt.Text())

	aug, ok := Cast[AugmentedAssignmentExpression](first(root, syntax.KindAugmentedAssignmentExpression))
	require.True(t, ok)
	op, ok := aug.OperatorToken()
	require.True(t, ok)
	assert.Equal(t, "+=", op.Text())
	right, ok := aug.Right()
	require.True(t, ok)
	assert.Equal(t, "1", right.Text())

	call, ok := Cast[CallExpression](first(root, syntax.KindCallExpression))
	require.True(t, ok)
	args, ok := call.Arguments()
	require.True(t, ok)
	assert.Equal(t, 2, args.Items().Len())

	member, ok := Cast[MemberExpression](first(call.Syntax(), syntax.KindMemberExpression))
	require.True(t, ok)
	dot, ok := member.OperatorToken()
	require.True(t, ok)
	assert.Equal(t, "?.", dot.Text())
}

func TestVariableDeclaration(t *testing.T) {
	root := parseJS(t, "const a = 1, b;")
	decl, ok := Cast[VariableDeclaration](first(root, syntax.KindLexicalDeclaration))
	require.True(t, ok)

	kw, ok := decl.KindToken()
	require.True(t, ok)
	assert.Equal(t, "const", kw.Text())

	declarators := decl.Declarators().Iter().Collect()
	require.Len(t, declarators, 2)
	value, ok := declarators[0].Value()
	require.True(t, ok)
	assert.Equal(t, "1", value.Text())
	_, ok = declarators[1].Value()
	assert.False(t, ok)
}

func TestString_Content(t *testing.T) {
	root := parseJS(t, `x = 'it';`)
	s, ok := Cast[String](first(root, syntax.KindString))
	require.True(t, ok)
	content, ok := s.Content()
	require.True(t, ok)
	assert.Equal(t, "it", content)
	q, ok := s.QuoteToken()
	require.True(t, ok)
	assert.Equal(t, syntax.KindSingleQuote, q.Kind())
}

func TestComment_Views(t *testing.T) {
	root := parseJS(t, "/* a\n b */ x; // c\n")
	var comments []Comment
	for _, tok := range root.Tokens() {
		if c, ok := CastToken[Comment](tok); ok {
			comments = append(comments, c)
		}
	}
	require.Len(t, comments, 2)
	assert.True(t, comments[0].IsBlock())
	assert.True(t, comments[0].IsMultiline())
	assert.False(t, comments[1].IsBlock())
}
