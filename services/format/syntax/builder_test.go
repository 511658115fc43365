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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildContinue builds `  continue /* c */ outer ;  ` by hand.
func buildContinue(t *testing.T) *Node {
	t.Helper()
	b := NewBuilder()
	b.StartNode(KindContinueStatement)
	b.Token(KindWhitespace, "  ")
	b.Token(KindContinueKeyword, "continue")
	b.Token(KindWhitespace, " ")
	b.Token(KindComment, "/* c */")
	b.Token(KindWhitespace, " ")
	b.StartNode(KindStatementIdentifier)
	b.Token(KindIdent, "outer")
	b.FinishNode()
	b.Token(KindWhitespace, " ")
	b.Token(KindSemicolon, ";")
	b.Token(KindWhitespace, "  ")
	b.FinishNode()
	root, err := b.Finish()
	require.NoError(t, err)
	return root
}

func TestBuilder_Lossless(t *testing.T) {
	root := buildContinue(t)

	assert.Equal(t, "  continue /* c */ outer ;  ", root.Text())
	assert.Equal(t, TextRange{Start: 0, End: 28}, root.Range())
	assert.Equal(t, KindContinueStatement, root.Kind())
	assert.Nil(t, root.Parent())
}

func TestNode_Trimmed(t *testing.T) {
	root := buildContinue(t)

	assert.Equal(t, "continue /* c */ outer ;", root.TrimmedText())
	assert.Equal(t, TextRange{Start: 2, End: 26}, root.TrimmedRange())

	first := root.FirstToken()
	require.NotNil(t, first)
	assert.Equal(t, KindContinueKeyword, first.Kind())

	last := root.LastToken()
	require.NotNil(t, last)
	assert.Equal(t, KindSemicolon, last.Kind())
}

func TestNode_TrimmedOnlyTrivia(t *testing.T) {
	b := NewBuilder()
	b.StartNode(KindList)
	b.Token(KindWhitespace, "\n\n")
	b.FinishNode()
	root, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, "", root.TrimmedText())
	assert.Equal(t, 0, root.TrimmedRange().Len())
	assert.Nil(t, root.FirstToken())
}

func TestToken_Navigation(t *testing.T) {
	root := buildContinue(t)
	label := root.ChildNodes()[0]
	ident := label.Children()[0]
	tok, ok := ident.AsToken()
	require.True(t, ok)
	assert.Equal(t, "outer", tok.Text())
	assert.Equal(t, TextRange{Start: 19, End: 24}, tok.Range())

	prev := tok.PrevToken()
	require.NotNil(t, prev)
	assert.Equal(t, KindWhitespace, prev.Kind())
	assert.Equal(t, KindComment, prev.PrevToken().Kind())

	next := tok.NextToken()
	require.NotNil(t, next)
	assert.Equal(t, KindWhitespace, next.Kind())
	assert.Equal(t, KindSemicolon, next.NextToken().Kind())

	_, hasPrev := tok.PrevSibling()
	assert.False(t, hasPrev, "the ident is the only child of its node")
}

func TestNode_Tokens(t *testing.T) {
	root := buildContinue(t)
	var text string
	for _, tok := range root.Tokens() {
		text += tok.Text()
	}
	assert.Equal(t, root.Text(), text)
}

func TestBuilder_Unbalanced(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"empty", func(b *Builder) {}},
		{"left open", func(b *Builder) {
			b.StartNode(KindProgram)
		}},
		{"token outside node", func(b *Builder) {
			b.Token(KindSemicolon, ";")
		}},
		{"finish without start", func(b *Builder) {
			b.FinishNode()
		}},
		{"second root", func(b *Builder) {
			b.StartNode(KindProgram)
			b.FinishNode()
			b.StartNode(KindProgram)
		}},
		{"token kind as node", func(b *Builder) {
			b.StartNode(KindSemicolon)
		}},
		{"node kind as token", func(b *Builder) {
			b.StartNode(KindProgram)
			b.Token(KindList, "")
			b.FinishNode()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			_, err := b.Finish()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnbalancedTree))
		})
	}
}

func TestKind_Partition(t *testing.T) {
	for kind := range kindNames {
		if kind == KindTombstone {
			continue
		}
		assert.NotEqual(t, kind.IsToken(), kind.IsNode(), "kind %s must be exactly one of token/node", kind)
		if kind.IsKeyword() {
			assert.True(t, kind.IsToken(), "keyword %s must be a token", kind)
		}
	}
	assert.False(t, KindTombstone.IsToken())
	assert.False(t, KindTombstone.IsNode())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "CONTINUE_STATEMENT", KindContinueStatement.String())
	assert.Equal(t, "CONTINUE_KW", KindContinueKeyword.String())
	assert.Equal(t, "LIST", KindList.String())
	assert.Equal(t, "KIND(65535)", Kind(65535).String())
}

func TestKind_Tables(t *testing.T) {
	for name, kind := range namedKinds {
		assert.True(t, kind.IsNode(), "named production %q must map to a node kind", name)
	}
	for text, kind := range anonymousKinds {
		assert.True(t, kind.IsToken(), "anonymous leaf %q must map to a token kind", text)
	}
	for node, tok := range leafTokenKinds {
		assert.True(t, node.IsNode())
		assert.True(t, tok.IsToken())
	}
	for kind := range listSpecs {
		assert.True(t, HasList(kind))
	}
	assert.False(t, HasList(KindContinueStatement))
}
