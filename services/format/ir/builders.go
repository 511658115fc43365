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

// Token returns literal text.
func Token(text string) Element { return Text{Value: text} }

// SpaceToken returns a single space.
func SpaceToken() Element { return Space{} }

// EmptyElement returns the element that prints nothing.
func EmptyElement() Element { return Empty{} }

// Concat joins elements in order. It neither flattens nor filters, so
// the result mirrors the argument list exactly.
//
// Example:
//
//	Concat(Token("continue"), EmptyElement(), Token(";"))
//	// List{Elements: [Text{"continue"}, Empty{}, Text{";"}]}
func Concat(elements ...Element) Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	return List{Elements: out}
}

// Join places sep between consecutive elements.
func Join(sep Element, elements []Element) Element {
	out := make([]Element, 0, 2*len(elements))
	for i, e := range elements {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, e)
	}
	return List{Elements: out}
}

// GroupElements wraps content in a group that breaks only when needed.
func GroupElements(content Element) Element {
	return &Group{Content: content}
}

// BrokenGroup wraps content in a group that always breaks.
func BrokenGroup(content Element) Element {
	return &Group{Content: content, ShouldBreak: true}
}

// Indented indents lines broken inside content.
func Indented(content Element) Element {
	return Indent{Content: content}
}

// SoftBlockIndent places content on its own indented lines when the
// enclosing group breaks and inline otherwise.
func SoftBlockIndent(content Element) Element {
	return Concat(Indented(Concat(SoftLine(), content)), SoftLine())
}

// SoftBlockIndentWithSpace is SoftBlockIndent with spaces on both sides
// in flat mode, as in `{ a, b }`.
func SoftBlockIndentWithSpace(content Element) Element {
	return Concat(Indented(Concat(SoftLineOrSpace(), content)), SoftLineOrSpace())
}

// SoftLine breaks only inside a broken group.
func SoftLine() Element { return Line{Mode: LineSoft} }

// SoftLineOrSpace is a space unless the enclosing group breaks.
func SoftLineOrSpace() Element { return Line{Mode: LineSoftOrSpace} }

// HardLine always breaks.
func HardLine() Element { return Line{Mode: LineHard} }

// EmptyLine always breaks and leaves one blank line.
func EmptyLine() Element { return Line{Mode: LineEmpty} }

// IfBreakElse chooses between a broken and a flat rendition.
func IfBreakElse(broken, flat Element) Element {
	return IfBreak{Break: broken, Flat: flat}
}

// IfBreakOnly prints content only when the enclosing group breaks.
func IfBreakOnly(content Element) Element {
	return IfBreak{Break: content, Flat: Empty{}}
}

// LineSuffixElement defers content to the end of the line.
func LineSuffixElement(content Element) Element {
	return LineSuffix{Content: content}
}

// VerbatimText emits source text unchanged.
func VerbatimText(text string) Element {
	return Verbatim{Text: text}
}

// CommentText returns a comment element. Block comments start with /*.
func CommentText(text string) Element {
	return Comment{Text: text, Block: len(text) >= 2 && text[:2] == "/*"}
}
