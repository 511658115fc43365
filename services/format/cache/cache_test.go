// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianFmt/services/format/storage/badger"
)

func newCache(t *testing.T, opts ...Option) (*Cache, *badger.Store) {
	t.Helper()
	store, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, opts...), store
}

type brokenBackend struct{}

var errBroken = errors.New("disk on fire")

func (brokenBackend) Get(context.Context, []byte) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenBackend) Set(context.Context, []byte, []byte, time.Duration) error {
	return errBroken
}
func (brokenBackend) DropPrefix(context.Context, []byte) error   { return errBroken }
func (brokenBackend) Count(context.Context, []byte) (int, error) { return 0, errBroken }

func TestNewKey(t *testing.T) {
	base := NewKey("opts", "javascript", []byte("a();"))
	assert.Equal(t, base, NewKey("opts", "javascript", []byte("a();")))
	assert.NotEqual(t, base, NewKey("other", "javascript", []byte("a();")))
	assert.NotEqual(t, base, NewKey("opts", "typescript", []byte("a();")))
	assert.NotEqual(t, base, NewKey("opts", "javascript", []byte("b();")))
	assert.NotEqual(t, NewKey("ab", "c", nil), NewKey("a", "bc", nil), "fields are separated")
	assert.Len(t, base.String(), 64)
}

func TestCache_PutGet(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := NewKey("h", "javascript", []byte("x"))

	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, k, Entry{Code: "x;\n", Verbatim: 1}))
	got, ok := c.Get(ctx, k)
	require.True(t, ok)
	assert.Equal(t, "x;\n", got.Code)
	assert.Equal(t, 1, got.Verbatim)
	assert.False(t, got.StoredAt.IsZero())

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestCache_StaleVersionIsMiss(t *testing.T) {
	c, store := newCache(t)
	ctx := context.Background()
	k := NewKey("h", "javascript", []byte("x"))

	data, err := json.Marshal(record{Version: recordVersion - 1, Entry: Entry{Code: "old"}})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, k.storeKey(), data, 0))

	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, k.storeKey(), []byte("{not json"), 0))
	_, ok = c.Get(ctx, k)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Errors)
}

func TestCache_GetOrCompute(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := NewKey("h", "javascript", []byte("y"))

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (Entry, error) {
		calls.Add(1)
		<-release
		return Entry{Code: "y;\n"}, nil
	}

	var wg sync.WaitGroup
	results := make([]Entry, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, _, err := c.GetOrCompute(ctx, k, compute)
			assert.NoError(t, err)
			results[i] = e
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses share one computation")
	for _, e := range results {
		assert.Equal(t, "y;\n", e.Code)
	}

	e, hit, err := c.GetOrCompute(ctx, k, func(context.Context) (Entry, error) {
		t.Fatal("should be cached")
		return Entry{}, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "y;\n", e.Code)
}

func TestCache_GetOrCompute_CanceledCallerDoesNotFailOthers(t *testing.T) {
	c, _ := newCache(t)
	k := NewKey("h", "javascript", []byte("w"))

	var startOnce sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (Entry, error) {
		startOnce.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}
		return Entry{Code: "w;\n"}, nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(first, k, compute)
		firstErr <- err
	}()
	<-started

	second := make(chan Entry, 1)
	go func() {
		e, _, err := c.GetOrCompute(context.Background(), k, compute)
		assert.NoError(t, err)
		second <- e
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(50 * time.Millisecond)
	close(release)
	assert.Equal(t, "w;\n", (<-second).Code)

	got, ok := c.Get(context.Background(), k)
	require.True(t, ok)
	assert.Equal(t, "w;\n", got.Code)
}

func TestCache_ComputeErrorNotStored(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	k := NewKey("h", "javascript", []byte("z"))
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute(ctx, k, func(context.Context) (Entry, error) { return Entry{}, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get(ctx, k)
	assert.False(t, ok)
}

func TestCache_ClearAndLen(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	for _, src := range []string{"a", "b", "c"} {
		require.NoError(t, c.Put(ctx, NewKey("h", "javascript", []byte(src)), Entry{Code: src}))
	}
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, c.Clear(ctx))
	n, err = c.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_BrokenBackendDegrades(t *testing.T) {
	c := New(brokenBackend{})
	ctx := context.Background()
	k := NewKey("h", "javascript", []byte("q"))

	e, hit, err := c.GetOrCompute(ctx, k, func(context.Context) (Entry, error) {
		return Entry{Code: "q;\n"}, nil
	})
	require.NoError(t, err, "store failures never fail a format")
	assert.False(t, hit)
	assert.Equal(t, "q;\n", e.Code)
	assert.Equal(t, int64(2), c.Stats().Errors)

	assert.ErrorIs(t, c.Put(ctx, k, Entry{}), errBroken)
	assert.ErrorIs(t, c.Clear(ctx), errBroken)
}
