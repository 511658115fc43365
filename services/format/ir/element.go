// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ir defines the layout-independent intermediate representation
// produced by the formatter and consumed by the printer.
//
// An Element tree describes text, spaces, line-break opportunities,
// groups that break together, and indentation. It carries no references
// to the syntax tree, so two structurally identical subtrees always yield
// equal (but independently allocated) element trees.
package ir

// Element is a node of the format IR. The set of variants is closed.
type Element interface {
	isElement()
}

// Empty prints nothing. It marks an absent optional part.
type Empty struct{}

// Text is literal text that never contains a line break chosen by the
// printer.
type Text struct {
	Value string
}

// Space is a single space.
type Space struct{}

// LineMode selects how a Line prints.
type LineMode uint8

const (
	// LineSoft prints nothing in flat mode and a newline when broken.
	LineSoft LineMode = iota

	// LineSoftOrSpace prints a space in flat mode and a newline when broken.
	LineSoftOrSpace

	// LineHard always prints a newline and forces enclosing groups to break.
	LineHard

	// LineEmpty always prints a blank line and forces enclosing groups to
	// break.
	LineEmpty
)

// String returns the mode's IR dump name.
func (m LineMode) String() string {
	switch m {
	case LineSoft:
		return "soft_line"
	case LineSoftOrSpace:
		return "soft_line_or_space"
	case LineHard:
		return "hard_line"
	case LineEmpty:
		return "empty_line"
	default:
		return "line"
	}
}

// Line is a line-break opportunity.
type Line struct {
	Mode LineMode
}

// Group is printed flat when it fits on the rest of the line and broken
// otherwise. ShouldBreak forces the broken layout.
type Group struct {
	Content     Element
	ShouldBreak bool
}

// Indent increases the indentation of lines broken inside Content.
type Indent struct {
	Content Element
}

// List is an ordered sequence of elements.
type List struct {
	Elements []Element
}

// Comment is a source comment. Block comments may span lines.
type Comment struct {
	Text  string
	Block bool
}

// Verbatim is source text emitted unchanged.
type Verbatim struct {
	Text string
}

// LineSuffix is deferred until just before the next newline. It carries
// trailing line comments.
type LineSuffix struct {
	Content Element
}

// IfBreak prints Break when the enclosing group is broken and Flat
// otherwise.
type IfBreak struct {
	Break Element
	Flat  Element
}

func (Empty) isElement()      {}
func (Text) isElement()       {}
func (Space) isElement()      {}
func (Line) isElement()       {}
func (*Group) isElement()     {}
func (Indent) isElement()     {}
func (List) isElement()       {}
func (Comment) isElement()    {}
func (Verbatim) isElement()   {}
func (LineSuffix) isElement() {}
func (IfBreak) isElement()    {}
