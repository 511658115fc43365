// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) handle(_ context.Context, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []string
	for _, b := range r.batches {
		all = append(all, b...)
	}
	return all
}

func startWatcher(t *testing.T, root string, opts ...Option) *recorder {
	t.Helper()
	rec := &recorder{}
	w, err := New(root, rec.handle, append([]Option{WithDebounce(30 * time.Millisecond)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return rec
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root)

	target := filepath.Join(root, "a.js")
	write(t, target, "a()")
	write(t, target, "a();")

	assert.Eventually(t, func() bool {
		return len(rec.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, p := range rec.seen() {
		assert.Equal(t, target, p)
	}
}

func TestWatcher_FilterAndIgnore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	rec := startWatcher(t, root, WithFilter(func(p string) bool {
		return strings.HasSuffix(p, ".js")
	}))

	write(t, filepath.Join(root, "node_modules", "dep.js"), "x")
	write(t, filepath.Join(root, "notes.txt"), "x")
	write(t, filepath.Join(root, "ok.js"), "x")

	assert.Eventually(t, func() bool {
		return len(rec.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	for _, p := range rec.seen() {
		assert.Equal(t, filepath.Join(root, "ok.js"), p)
	}
}

func TestWatcher_RootUnderIgnoredName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build", "app")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	rec := startWatcher(t, root, WithIgnore("build", "node_modules"))

	target := filepath.Join(root, "src", "a.js")
	write(t, target, "a()")

	assert.Eventually(t, func() bool {
		for _, p := range rec.seen() {
			if p == target {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_NewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root)

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	target := filepath.Join(sub, "b.js")
	assert.Eventually(t, func() bool {
		write(t, target, "b()")
		for _, p := range rec.seen() {
			if p == target {
				return true
			}
		}
		return false
	}, 3*time.Second, 100*time.Millisecond)
}

func TestWatcher_Lifecycle(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), func(context.Context, []string) {})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.js")
	write(t, file, "")
	_, err = New(file, func(context.Context, []string) {})
	assert.Error(t, err)

	w, err := New(t.TempDir(), func(context.Context, []string) {})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.ErrorIs(t, w.Start(ctx), ErrAlreadyStarted)
	cancel()
	w.Stop()
	w.Stop()
}
