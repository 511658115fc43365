// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diff renders unified diffs between a file and its formatted form.
package diff

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

type editKind int

const (
	editEqual editKind = iota
	editDelete
	editInsert
)

type edit struct {
	kind editKind
	text string
}

// Stats counts changed lines.
type Stats struct {
	Added   int
	Deleted int
}

// Unified returns a unified diff from original to formatted, or "" when
// they have the same lines.
//
// # Description
//
// Lines are compared after splitting on "\n"; a missing final newline is
// not reported. Hunks include up to context unchanged lines on each side
// and merge when their context overlaps.
//
// # Inputs
//
//   - name: File name for the --- and +++ headers.
//   - original, formatted: Full file contents.
//   - context: Unchanged lines around each change. Negative means DefaultContext.
//
// # Outputs
//
//   - string: The diff text.
//   - error: Non-nil only if rendering fails.
//
// # Example
//
//	text, err := diff.Unified("src/app.js", before, after, diff.DefaultContext)
func Unified(name, original, formatted string, context int) (string, error) {
	fd, _ := build(name, original, formatted, context)
	if len(fd.Hunks) == 0 {
		return "", nil
	}
	out, err := godiff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("render diff for %s: %w", name, err)
	}
	return string(out), nil
}

// Count returns line statistics for the change from original to formatted.
func Count(original, formatted string) Stats {
	_, stats := build("", original, formatted, 0)
	return stats
}

func build(name, original, formatted string, context int) (*godiff.FileDiff, Stats) {
	if context < 0 {
		context = DefaultContext
	}
	edits := computeEdits(splitLines(original), splitLines(formatted))
	fd := &godiff.FileDiff{OrigName: "a/" + name, NewName: "b/" + name}

	var stats Stats
	for _, e := range edits {
		switch e.kind {
		case editInsert:
			stats.Added++
		case editDelete:
			stats.Deleted++
		}
	}
	for _, r := range hunkRanges(edits, context) {
		fd.Hunks = append(fd.Hunks, makeHunk(edits, r))
	}
	return fd, stats
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// computeEdits returns a minimal line edit script via longest common
// subsequence, after stripping the common prefix and suffix.
func computeEdits(a, b []string) []edit {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	edits := make([]edit, 0, len(a)+len(b))
	for _, line := range a[:prefix] {
		edits = append(edits, edit{editEqual, line})
	}

	x, y := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]
	lcs := make([][]int, len(x)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(y)+1)
	}
	for i := len(x) - 1; i >= 0; i-- {
		for j := len(y) - 1; j >= 0; j-- {
			if x[i] == y[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		switch {
		case x[i] == y[j]:
			edits = append(edits, edit{editEqual, x[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, edit{editDelete, x[i]})
			i++
		default:
			edits = append(edits, edit{editInsert, y[j]})
			j++
		}
	}
	for ; i < len(x); i++ {
		edits = append(edits, edit{editDelete, x[i]})
	}
	for ; j < len(y); j++ {
		edits = append(edits, edit{editInsert, y[j]})
	}

	for _, line := range a[len(a)-suffix:] {
		edits = append(edits, edit{editEqual, line})
	}
	return edits
}

// hunkRanges returns [start, end) spans of edits, each a run of changes
// padded with context equal lines.
func hunkRanges(edits []edit, context int) [][2]int {
	var ranges [][2]int
	for i := 0; i < len(edits); {
		if edits[i].kind == editEqual {
			i++
			continue
		}
		start := max(i-context, 0)
		end := i
		for end < len(edits) {
			if edits[end].kind != editEqual {
				end++
				continue
			}
			run := end
			for run < len(edits) && edits[run].kind == editEqual {
				run++
			}
			if run == len(edits) || run-end > 2*context {
				end = min(end+context, len(edits))
				break
			}
			end = run
		}
		ranges = append(ranges, [2]int{start, end})
		i = end
	}
	return ranges
}

func makeHunk(edits []edit, r [2]int) *godiff.Hunk {
	var origLine, newLine int32 = 1, 1
	for _, e := range edits[:r[0]] {
		if e.kind != editInsert {
			origLine++
		}
		if e.kind != editDelete {
			newLine++
		}
	}

	h := &godiff.Hunk{OrigStartLine: origLine, NewStartLine: newLine}
	var body strings.Builder
	for _, e := range edits[r[0]:r[1]] {
		switch e.kind {
		case editEqual:
			body.WriteByte(' ')
			h.OrigLines++
			h.NewLines++
		case editDelete:
			body.WriteByte('-')
			h.OrigLines++
		case editInsert:
			body.WriteByte('+')
			h.NewLines++
		}
		body.WriteString(e.text)
		body.WriteByte('\n')
	}
	// Empty sides start at the line before, as diff(1) prints them.
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}
	h.Body = []byte(body.String())
	return h
}
