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
	"fmt"
	"strconv"
	"strings"
)

// Walk visits e and its descendants in preorder. IfBreak visits both
// branches, Break first. Returning false skips the element's children.
func Walk(e Element, visit func(Element) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch v := e.(type) {
	case *Group:
		Walk(v.Content, visit)
	case Indent:
		Walk(v.Content, visit)
	case List:
		for _, child := range v.Elements {
			Walk(child, visit)
		}
	case LineSuffix:
		Walk(v.Content, visit)
	case IfBreak:
		Walk(v.Break, visit)
		Walk(v.Flat, visit)
	}
}

// CountComments counts the comments carried by e. Comments inside
// verbatim text are not counted.
func CountComments(e Element) int {
	count := 0
	Walk(e, func(child Element) bool {
		if _, ok := child.(Comment); ok {
			count++
		}
		return true
	})
	return count
}

// Debug renders e as an indented, human-readable dump.
//
// Example:
//
//	Debug(Concat(Token("continue"), EmptyElement(), Token(";")))
//	// [
//	//   "continue"
//	//   empty
//	//   ";"
//	// ]
func Debug(e Element) string {
	var sb strings.Builder
	debug(&sb, e, 0)
	return sb.String()
}

func debug(sb *strings.Builder, e Element, depth int) {
	pad := strings.Repeat("  ", depth)
	sb.WriteString(pad)
	switch v := e.(type) {
	case nil:
		sb.WriteString("<nil>\n")
	case Empty:
		sb.WriteString("empty\n")
	case Text:
		sb.WriteString(strconv.Quote(v.Value) + "\n")
	case Space:
		sb.WriteString("space\n")
	case Line:
		sb.WriteString(v.Mode.String() + "\n")
	case Comment:
		sb.WriteString("comment(" + strconv.Quote(v.Text) + ")\n")
	case Verbatim:
		sb.WriteString("verbatim(" + strconv.Quote(v.Text) + ")\n")
	case *Group:
		if v.ShouldBreak {
			sb.WriteString("group(expand) {\n")
		} else {
			sb.WriteString("group {\n")
		}
		debug(sb, v.Content, depth+1)
		sb.WriteString(pad + "}\n")
	case Indent:
		sb.WriteString("indent {\n")
		debug(sb, v.Content, depth+1)
		sb.WriteString(pad + "}\n")
	case LineSuffix:
		sb.WriteString("line_suffix {\n")
		debug(sb, v.Content, depth+1)
		sb.WriteString(pad + "}\n")
	case IfBreak:
		sb.WriteString("if_break {\n")
		debug(sb, v.Break, depth+1)
		sb.WriteString(pad + "} else {\n")
		debug(sb, v.Flat, depth+1)
		sb.WriteString(pad + "}\n")
	case List:
		sb.WriteString("[\n")
		for _, child := range v.Elements {
			debug(sb, child, depth+1)
		}
		sb.WriteString(pad + "]\n")
	default:
		fmt.Fprintf(sb, "%T\n", e)
	}
}
