// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcat_PreservesOrderAndEmpties(t *testing.T) {
	got := Concat(Token("continue"), EmptyElement(), Token(";"))
	want := List{Elements: []Element{Text{Value: "continue"}, Empty{}, Text{Value: ";"}}}
	assert.Equal(t, want, got)
}

func TestConcat_CopiesArguments(t *testing.T) {
	parts := []Element{Token("a"), Token("b")}
	got := Concat(parts...).(List)
	parts[0] = Token("z")
	assert.Equal(t, Text{Value: "a"}, got.Elements[0])
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		elems []Element
		want  []Element
	}{
		{"empty", nil, []Element{}},
		{"one", []Element{Token("a")}, []Element{Text{Value: "a"}}},
		{"three", []Element{Token("a"), Token("b"), Token("c")}, []Element{
			Text{Value: "a"}, Space{}, Text{Value: "b"}, Space{}, Text{Value: "c"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Join(SpaceToken(), tt.elems).(List)
			assert.Equal(t, tt.want, got.Elements)
		})
	}
}

func TestStructuralEquality_IndependentMemory(t *testing.T) {
	build := func() Element {
		return GroupElements(Concat(Token("f"), Token("("), SoftBlockIndent(Token("x")), Token(")")))
	}
	a, b := build(), build()
	assert.Equal(t, a, b)
	assert.NotSame(t, a.(*Group), b.(*Group))
}

func TestCommentText(t *testing.T) {
	assert.Equal(t, Comment{Text: "/* a */", Block: true}, CommentText("/* a */"))
	assert.Equal(t, Comment{Text: "// a", Block: false}, CommentText("// a"))
}

func TestCountComments(t *testing.T) {
	e := Concat(
		CommentText("// one"),
		HardLine(),
		GroupElements(Indented(CommentText("/* two */"))),
		LineSuffixElement(CommentText("// three")),
		VerbatimText("x /* not counted */"),
	)
	assert.Equal(t, 3, CountComments(e))
	assert.Equal(t, 0, CountComments(EmptyElement()))
}

func TestWalk_SkipChildren(t *testing.T) {
	e := Concat(GroupElements(Token("hidden")), Token("shown"))
	var texts []string
	Walk(e, func(child Element) bool {
		if _, ok := child.(*Group); ok {
			return false
		}
		if text, ok := child.(Text); ok {
			texts = append(texts, text.Value)
		}
		return true
	})
	assert.Equal(t, []string{"shown"}, texts)
}

func TestDebug(t *testing.T) {
	got := Debug(Concat(Token("continue"), EmptyElement(), Token(";")))
	require.NotEmpty(t, got)
	assert.Equal(t, "[\n  \"continue\"\n  empty\n  \";\"\n]\n", got)

	got = Debug(GroupElements(Concat(SoftLine(), IfBreakOnly(Token(",")))))
	assert.Contains(t, got, "group {")
	assert.Contains(t, got, "soft_line")
	assert.Contains(t, got, "if_break {")
}

func TestLineMode_String(t *testing.T) {
	assert.Equal(t, "soft_line", LineSoft.String())
	assert.Equal(t, "soft_line_or_space", LineSoftOrSpace.String())
	assert.Equal(t, "hard_line", LineHard.String())
	assert.Equal(t, "empty_line", LineEmpty.String())
}
