// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diff

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	godiff "github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEdits(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []string
		inserts []string
		deletes []string
	}{
		{"insertion", []string{"a", "b", "c"}, []string{"a", "x", "b", "c"}, []string{"x"}, nil},
		{"deletion", []string{"a", "b", "c"}, []string{"a", "c"}, nil, []string{"b"}},
		{"replacement", []string{"a", "b", "c"}, []string{"a", "y", "c"}, []string{"y"}, []string{"b"}},
		{"from empty", nil, []string{"a"}, []string{"a"}, nil},
		{"to empty", []string{"a"}, nil, nil, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inserts, deletes []string
			for _, e := range computeEdits(tt.a, tt.b) {
				switch e.kind {
				case editInsert:
					inserts = append(inserts, e.text)
				case editDelete:
					deletes = append(deletes, e.text)
				}
			}
			assert.Equal(t, tt.inserts, inserts)
			assert.Equal(t, tt.deletes, deletes)
		})
	}
	assert.Nil(t, computeEdits(nil, nil))
}

func TestUnified_NoChanges(t *testing.T) {
	out, err := Unified("a.js", "x;\ny;\n", "x;\ny;\n", DefaultContext)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnified_SingleHunk(t *testing.T) {
	out, err := Unified("a.js", "a\nb\nc\n", "a\nx\nc\n", DefaultContext)
	require.NoError(t, err)

	assert.Contains(t, out, "--- a/a.js\n")
	assert.Contains(t, out, "+++ b/a.js\n")
	assert.Contains(t, out, "@@ -1,3 +1,3 @@")
	assert.True(t, strings.HasSuffix(out, " a\n-b\n+x\n c\n"), out)
}

func TestUnified_SeparateHunks(t *testing.T) {
	var before, after strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&before, "line%d\n", i)
		switch i {
		case 2, 25:
			fmt.Fprintf(&after, "changed%d\n", i)
		default:
			fmt.Fprintf(&after, "line%d\n", i)
		}
	}

	out, err := Unified("big.js", before.String(), after.String(), 2)
	require.NoError(t, err)

	parsed, err := godiff.ParseFileDiff([]byte(out))
	require.NoError(t, err)
	require.Len(t, parsed.Hunks, 2)
	assert.Equal(t, int32(1), parsed.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(4), parsed.Hunks[0].OrigLines)
	assert.Equal(t, int32(23), parsed.Hunks[1].OrigStartLine)
	assert.Equal(t, int32(5), parsed.Hunks[1].OrigLines)

	stat := parsed.Stat()
	assert.Equal(t, int32(2), stat.Changed+stat.Added)
}

func TestUnified_MergesNearbyChanges(t *testing.T) {
	before := "a\nb\nc\nd\ne\n"
	after := "A\nb\nc\nd\nE\n"
	out, err := Unified("m.js", before, after, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "@@ -"))
}

func TestCount(t *testing.T) {
	assert.Equal(t, Stats{Added: 2, Deleted: 1}, Count("a\nb\n", "a\nc\nd\n"))
	assert.Equal(t, Stats{}, Count("same\n", "same\n"))
}

func TestColorize(t *testing.T) {
	assert.Empty(t, Colorize(""))

	in := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-old\n+new\n ctx\n"
	out := Colorize(in)
	assert.Equal(t, strings.Count(in, "\n"), strings.Count(out, "\n"))
	assert.Contains(t, out, "old")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, " ctx\n")
}

func TestShouldColor(t *testing.T) {
	assert.False(t, ShouldColor(&bytes.Buffer{}), "buffers are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldColor(&bytes.Buffer{}))
}
