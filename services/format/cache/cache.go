// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache stores formatted output keyed by everything that
// determines it: the options digest, the language and the source bytes.
//
// A hit skips parsing, IR construction and printing entirely. Store
// failures degrade to misses; the cache never makes a format fail.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// recordVersion is bumped whenever formatting output changes for the
// same inputs, orphaning older entries.
const recordVersion = 3

var keyPrefix = []byte("fmt/")

// Backend is the key/value store behind a Cache. *badger.Store
// satisfies it.
type Backend interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Set(ctx context.Context, key, value []byte, ttl time.Duration) error
	DropPrefix(ctx context.Context, prefix []byte) error
	Count(ctx context.Context, prefix []byte) (int, error)
}

// Key identifies one formatting job.
type Key [sha256.Size]byte

// NewKey digests the inputs of a formatting job.
func NewKey(optionsHash, language string, source []byte) Key {
	h := sha256.New()
	h.Write([]byte(optionsHash))
	h.Write([]byte{0})
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(source)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the hex digest.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

func (k Key) storeKey() []byte {
	return append(append([]byte{}, keyPrefix...), k.String()...)
}

// Entry is a cached formatting result.
type Entry struct {
	Code     string    `json:"code"`
	Verbatim int       `json:"verbatim"`
	StoredAt time.Time `json:"stored_at"`
}

type record struct {
	Version int `json:"v"`
	Entry
}

// Stats is a snapshot of process-local counters.
type Stats struct {
	Hits   int64
	Misses int64
	Errors int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL expires entries after d. Zero keeps them until cleared.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithLogger sets the logger for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Cache is a content-addressed result cache.
//
// # Thread Safety
//
// Safe for concurrent use. Concurrent GetOrCompute calls for the same key
// share one computation.
type Cache struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
	flight  singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// New creates a cache over backend.
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{backend: backend, ttl: 7 * 24 * time.Hour, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for k. Missing, expired, stale-version and
// unreadable entries all report false.
func (c *Cache) Get(ctx context.Context, k Key) (Entry, bool) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "cache.Get",
		trace.WithAttributes(attribute.String("key", k.String()[:16])))
	defer span.End()

	entry, ok := c.get(ctx, k)
	span.SetAttributes(attribute.Bool("hit", ok))
	recordLookup(ctx, ok, start)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return entry, ok
}

func (c *Cache) get(ctx context.Context, k Key) (Entry, bool) {
	data, found, err := c.backend.Get(ctx, k.storeKey())
	if err != nil {
		c.fail(ctx, "get", err)
		return Entry{}, false
	}
	if !found {
		return Entry{}, false
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.fail(ctx, "decode", err)
		return Entry{}, false
	}
	if rec.Version != recordVersion {
		return Entry{}, false
	}
	return rec.Entry, true
}

// Put stores e under k.
func (c *Cache) Put(ctx context.Context, k Key, e Entry) error {
	if e.StoredAt.IsZero() {
		e.StoredAt = time.Now().UTC()
	}
	data, err := json.Marshal(record{Version: recordVersion, Entry: e})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.backend.Set(ctx, k.storeKey(), data, c.ttl); err != nil {
		c.fail(ctx, "put", err)
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached entry for k, or runs compute, stores
// its result and returns it. The bool reports a cache hit. Errors from
// compute are returned unchanged and nothing is stored.
//
// # Description
//
// Lookups that miss are deduplicated per key: while one caller computes,
// others with the same key wait and receive the same entry. compute runs
// under ctx's values without its cancellation, so one caller giving up
// does not fail the others; compute must bound itself. A caller whose
// ctx ends stops waiting and gets ctx.Err(). A failed Put is logged and
// does not fail the call.
//
// # Example
//
//	entry, hit, err := c.GetOrCompute(ctx, key, func(ctx context.Context) (cache.Entry, error) {
//	    return formatOnce(ctx, src)
//	})
func (c *Cache) GetOrCompute(ctx context.Context, k Key, compute func(context.Context) (Entry, error)) (Entry, bool, error) {
	if e, ok := c.Get(ctx, k); ok {
		return e, true, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(k.String(), func() (interface{}, error) {
		e, err := compute(shared)
		if err != nil {
			return Entry{}, err
		}
		_ = c.Put(shared, k, e)
		return e, nil
	})
	select {
	case <-ctx.Done():
		return Entry{}, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Entry{}, false, r.Err
		}
		return r.Val.(Entry), false, nil
	}
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.backend.DropPrefix(ctx, keyPrefix); err != nil {
		c.fail(ctx, "clear", err)
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Len returns the number of stored entries, including stale versions.
func (c *Cache) Len(ctx context.Context) (int, error) {
	return c.backend.Count(ctx, keyPrefix)
}

// Stats returns counters since the cache was created.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Errors: c.errors.Load()}
}

func (c *Cache) fail(ctx context.Context, op string, err error) {
	c.errors.Add(1)
	recordError(ctx, op)
	c.logger.Warn("format cache operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
}
