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

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src), JavaScript, WithFilePath("test.js"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

// findKind returns the first node of kind under root in preorder.
func findKind(root *Node, kind Kind) *Node {
	var found *Node
	root.Walk(func(e Element) bool {
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

func TestParse_Lossless(t *testing.T) {
	sources := []string{
		"",
		"continue;",
		"  // leading\nlet a = 1;\n\n\nfunction f(a, b) { return a + b }\n",
		"const s = `hello ${name} world`;\n",
		"if (x) { y() } else { z() } /* tail */",
		"class A extends B { static x = 1; get y() { return 2 } }",
		"import a, { b as c } from 'm'; export { c };",
		"function broken( { let = ; }",
		"\ufeffvar bom = true;",
		"let t: number = 1;",
	}

	for _, src := range sources {
		tree := mustParse(t, src)
		assert.Equal(t, src, tree.Root().Text(), "lowering must reproduce the source")
		assert.Equal(t, src, tree.Source())
		assert.Equal(t, KindProgram, tree.Root().Kind())
	}
}

func TestParse_ProgramList(t *testing.T) {
	tree := mustParse(t, "a;\nb;\n")
	root := tree.Root()

	var list *Node
	for _, child := range root.ChildNodes() {
		if child.Kind() == KindList {
			list = child
		}
	}
	require.NotNil(t, list, "program must carry a list node")

	var statements int
	for _, child := range list.ChildNodes() {
		if child.Kind() == KindExpressionStatement {
			statements++
		}
	}
	assert.Equal(t, 2, statements)
}

func TestParse_EmptyListsMaterialised(t *testing.T) {
	tree := mustParse(t, "function f() {}")
	fn := findKind(tree.Root(), KindFunctionDeclaration)
	require.NotNil(t, fn)

	params := findKind(fn, KindFormalParameters)
	require.NotNil(t, params)
	list := findKind(params, KindList)
	require.NotNil(t, list, "empty parameter list still has a list node")
	assert.Empty(t, list.Children())

	body := findKind(fn, KindStatementBlock)
	require.NotNil(t, body)
	assert.NotNil(t, findKind(body, KindList))
}

func TestParse_ContinueWithLabel(t *testing.T) {
	tree := mustParse(t, "outer: for (;;) { continue outer; }")
	stmt := findKind(tree.Root(), KindContinueStatement)
	require.NotNil(t, stmt)

	var kinds []Kind
	for _, child := range stmt.Children() {
		if child.Kind().IsTrivia() {
			continue
		}
		kinds = append(kinds, child.Kind())
	}
	assert.Equal(t, []Kind{KindContinueKeyword, KindStatementIdentifier, KindSemicolon}, kinds)
	assert.Equal(t, "continue outer;", stmt.TrimmedText())
}

func TestParse_NamedLeavesAreNodes(t *testing.T) {
	tree := mustParse(t, "x;")
	ident := findKind(tree.Root(), KindIdentifier)
	require.NotNil(t, ident)
	require.Len(t, ident.Children(), 1)
	tok, ok := ident.Children()[0].AsToken()
	require.True(t, ok)
	assert.Equal(t, KindIdent, tok.Kind())
	assert.Equal(t, "x", tok.Text())
}

func TestParse_CommentsAreTrivia(t *testing.T) {
	tree := mustParse(t, "a; // note\n")
	var comments []string
	tree.Root().Walk(func(e Element) bool {
		if tok, ok := e.AsToken(); ok && tok.Kind() == KindComment {
			comments = append(comments, tok.Text())
		}
		return true
	})
	assert.Equal(t, []string{"// note"}, comments)
}

func TestParse_SyntaxErrorsRecovered(t *testing.T) {
	src := "function broken( { let = ; }"
	tree := mustParse(t, src)
	assert.True(t, tree.HasErrors())
	require.NotEmpty(t, tree.Diagnostics())
	for _, d := range tree.Diagnostics() {
		assert.GreaterOrEqual(t, d.Line, 1)
		assert.GreaterOrEqual(t, d.Column, 1)
	}
	assert.Equal(t, src, tree.Root().Text())
}

func TestParse_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Parse(ctx, nil, JavaScript)
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = Parse(ctx, []byte{0xff, 0xfe, 0xfd}, JavaScript)
	assert.True(t, errors.Is(err, ErrInvalidContent))

	_, err = Parse(ctx, []byte("a;"), Language("cobol"))
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))

	_, err = Parse(ctx, []byte(strings.Repeat("a;", 10)), JavaScript, WithMaxFileSize(4))
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Parse(canceled, []byte("a;"), JavaScript)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParse_TypeScriptUnknownNodes(t *testing.T) {
	tree, err := Parse(context.Background(), []byte("let t: number = 1;"), TypeScript)
	require.NoError(t, err)
	assert.Equal(t, TypeScript, tree.Language())

	unknown := findKind(tree.Root(), KindUnknownNode)
	require.NotNil(t, unknown, "type annotations have no dedicated kind")
	assert.Equal(t, "type_annotation", unknown.GrammarName())
}

func TestParseError_Format(t *testing.T) {
	err := &ParseError{FilePath: "a.js", Line: 3, Column: 7, Message: "boom", Cause: ErrParseFailed}
	assert.Equal(t, "a.js:3:7: boom", err.Error())
	assert.True(t, errors.Is(err, ErrParseFailed))

	assert.Equal(t, "<input>: boom", (&ParseError{Message: "boom"}).Error())
	assert.Nil(t, WrapParseError(nil, "a.js"))

	wrapped := WrapParseError(ErrInvalidContent, "b.js")
	var pe *ParseError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "b.js", pe.FilePath)
	assert.Same(t, wrapped, WrapParseError(wrapped, "c.js"))
}

func TestLanguageRegistry(t *testing.T) {
	r := NewLanguageRegistry()

	lang, ok := r.ByPath("src/app.MJS")
	require.True(t, ok)
	assert.Equal(t, JavaScript, lang)

	lang, ok = r.ByPath("component.tsx")
	require.True(t, ok)
	assert.Equal(t, TSX, lang)

	_, ok = r.ByPath("main.go")
	assert.False(t, ok)

	lang, ok = r.ByName("TypeScript")
	require.True(t, ok)
	assert.Equal(t, TypeScript, lang)

	assert.Equal(t, []string{"javascript", "tsx", "typescript"}, r.Languages())
	assert.Contains(t, r.Extensions(), ".cjs")
}
