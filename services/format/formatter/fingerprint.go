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

import (
	"strings"
	"unicode"

	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// A fingerprint is the significant text of a fragment: whitespace,
// semicolons and commas removed, quotes unified. Formatting may change
// only what the fingerprint ignores, so an item whose IR fingerprint
// differs from its source fingerprint has lost text (usually a comment
// or an unsupported child) and is printed verbatim instead.

func normalizeFingerprint(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '\uFEFF', r == ';', r == ',':
		case r == '\'':
			sb.WriteRune('"')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// sourceFingerprint covers every non-whitespace token under n.
func sourceFingerprint(n *syntax.Node) string {
	var sb strings.Builder
	for _, tok := range n.Tokens() {
		if tok.Kind() != syntax.KindWhitespace {
			sb.WriteString(tok.Text())
		}
	}
	return normalizeFingerprint(sb.String())
}

// irFingerprint covers the text e prints in flat mode.
func irFingerprint(e ir.Element) string {
	var sb strings.Builder
	var visit func(ir.Element) bool
	visit = func(el ir.Element) bool {
		switch v := el.(type) {
		case ir.Text:
			sb.WriteString(v.Value)
		case ir.Verbatim:
			sb.WriteString(v.Text)
		case ir.Comment:
			sb.WriteString(v.Text)
		case ir.IfBreak:
			ir.Walk(v.Flat, visit)
			return false
		}
		return true
	}
	ir.Walk(e, visit)
	return normalizeFingerprint(sb.String())
}

// preserves reports whether e prints all of n's significant text.
func preserves(n *syntax.Node, e ir.Element) bool {
	return sourceFingerprint(n) == irFingerprint(e)
}
