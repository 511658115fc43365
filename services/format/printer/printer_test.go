// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
)

// call builds `name(arg, arg, ...)` with soft-breaking arguments.
func call(name string, args ...string) ir.Element {
	items := make([]ir.Element, len(args))
	for i, a := range args {
		items[i] = ir.Token(a)
	}
	return ir.GroupElements(ir.Concat(
		ir.Token(name),
		ir.Token("("),
		ir.SoftBlockIndent(ir.Concat(
			ir.Join(ir.Concat(ir.Token(","), ir.SoftLineOrSpace()), items),
			ir.IfBreakOnly(ir.Token(",")),
		)),
		ir.Token(")"),
	))
}

func TestPrint(t *testing.T) {
	narrow := Options{IndentWidth: 2, LineWidth: 20}
	tests := []struct {
		name string
		elem ir.Element
		opts Options
		want string
	}{
		{
			name: "flat group fits",
			elem: ir.Concat(call("f", "a", "b"), ir.Token(";"), ir.HardLine()),
			opts: narrow,
			want: "f(a, b);\n",
		},
		{
			name: "group breaks when too wide",
			elem: ir.Concat(call("function", "alpha", "beta", "gamma"), ir.Token(";"), ir.HardLine()),
			opts: narrow,
			want: "function(\n  alpha,\n  beta,\n  gamma,\n);\n",
		},
		{
			name: "hard line forces break",
			elem: ir.Concat(ir.GroupElements(ir.Concat(
				ir.Token("{"),
				ir.Indented(ir.Concat(ir.HardLine(), ir.Token("x;"))),
				ir.HardLine(),
				ir.Token("}"),
			)), ir.HardLine()),
			opts: narrow,
			want: "{\n  x;\n}\n",
		},
		{
			name: "tabs",
			elem: ir.Concat(ir.Token("{"), ir.Indented(ir.Concat(ir.HardLine(), ir.Token("x;"))), ir.HardLine(), ir.Token("}")),
			opts: Options{UseTabs: true, IndentWidth: 4, LineWidth: 80},
			want: "{\n\tx;\n}",
		},
		{
			name: "repeated hard lines collapse",
			elem: ir.Concat(ir.Token("a"), ir.HardLine(), ir.HardLine(), ir.Token("b")),
			opts: narrow,
			want: "a\nb",
		},
		{
			name: "empty line keeps one blank line",
			elem: ir.Concat(ir.Token("a"), ir.HardLine(), ir.EmptyLine(), ir.EmptyLine(), ir.Token("b")),
			opts: narrow,
			want: "a\n\nb",
		},
		{
			name: "no trailing whitespace",
			elem: ir.Concat(ir.Token("a"), ir.SpaceToken(), ir.HardLine(), ir.Indented(ir.Concat(ir.HardLine(), ir.Token("b")))),
			opts: narrow,
			want: "a\n  b",
		},
		{
			name: "line suffix flushes before newline",
			elem: ir.Concat(
				ir.Token("a;"),
				ir.LineSuffixElement(ir.Concat(ir.SpaceToken(), ir.CommentText("// note"))),
				ir.HardLine(),
				ir.Token("b;"),
			),
			opts: narrow,
			want: "a; // note\nb;",
		},
		{
			name: "line suffix flushes at end",
			elem: ir.Concat(ir.Token("a;"), ir.LineSuffixElement(ir.Concat(ir.SpaceToken(), ir.CommentText("// end")))),
			opts: narrow,
			want: "a; // end",
		},
		{
			name: "leading hard line is dropped",
			elem: ir.Concat(ir.HardLine(), ir.Token("a"), ir.HardLine()),
			opts: narrow,
			want: "a\n",
		},
		{
			name: "crlf",
			elem: ir.Concat(ir.Token("a"), ir.HardLine(), ir.Token("b"), ir.HardLine()),
			opts: Options{IndentWidth: 2, LineWidth: 80, CRLF: true},
			want: "a\r\nb\r\n",
		},
		{
			name: "multiline verbatim breaks group",
			elem: ir.GroupElements(ir.Concat(ir.Token("["), ir.SoftLine(), ir.VerbatimText("x\ny"), ir.SoftLine(), ir.Token("]"))),
			opts: Options{IndentWidth: 2, LineWidth: 80},
			want: "[\nx\ny\n]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.elem, tt.opts).Code)
		})
	}
}

func TestPrint_WideRunes(t *testing.T) {
	// Each CJK rune is two cells wide, so 8 runes need 16 columns.
	wide := "日本語日本語日本"
	elem := ir.Concat(call("f", wide), ir.HardLine())
	assert.Equal(t, "f(\n  "+wide+",\n)\n", Print(elem, Options{IndentWidth: 2, LineWidth: 18}).Code)
	assert.Equal(t, "f("+wide+")\n", Print(elem, Options{IndentWidth: 2, LineWidth: 19}).Code)
}

func TestPrint_RestOfLineCounts(t *testing.T) {
	// The group fits alone but not with the text that follows it.
	elem := ir.Concat(call("f", "a"), ir.Token(" + something_long;"))
	assert.Equal(t, "f(\n  a,\n) + something_long;", Print(elem, Options{IndentWidth: 2, LineWidth: 20}).Code)
}

func TestFromConfig(t *testing.T) {
	opts := config.Defaults()
	opts.IndentStyle = config.IndentTab
	opts.LineEnding = config.LineEndingCRLF
	got := FromConfig(opts)
	assert.True(t, got.UseTabs)
	assert.True(t, got.CRLF)
	assert.Equal(t, opts.LineWidth, got.LineWidth)
	assert.Equal(t, opts.IndentWidth, got.IndentWidth)
}

func TestPrint_Defaults(t *testing.T) {
	assert.Equal(t, "", Print(ir.EmptyElement(), Options{}).Code)
	assert.Equal(t, "", Print(nil, Options{}).Code)
}
