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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("aleutian.fmt.cache")
	meter  = otel.Meter("aleutian.fmt.cache")
)

var (
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	cacheErrors     metric.Int64Counter
	cacheGetLatency metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics registers the instruments once. With no meter provider
// installed they are no-ops.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		if cacheHits, err = meter.Int64Counter(
			"aleutianfmt_cache_hits_total",
			metric.WithDescription("Formatted results served from the cache"),
		); err != nil {
			metricsErr = err
			return
		}
		if cacheMisses, err = meter.Int64Counter(
			"aleutianfmt_cache_misses_total",
			metric.WithDescription("Lookups that had to format"),
		); err != nil {
			metricsErr = err
			return
		}
		if cacheErrors, err = meter.Int64Counter(
			"aleutianfmt_cache_errors_total",
			metric.WithDescription("Store failures by operation"),
		); err != nil {
			metricsErr = err
			return
		}
		cacheGetLatency, metricsErr = meter.Float64Histogram(
			"aleutianfmt_cache_get_duration_seconds",
			metric.WithDescription("Duration of cache lookups"),
			metric.WithUnit("s"),
		)
	})
	return metricsErr
}

func recordLookup(ctx context.Context, hit bool, start time.Time) {
	if initMetrics() != nil {
		return
	}
	if hit {
		cacheHits.Add(ctx, 1)
	} else {
		cacheMisses.Add(ctx, 1)
	}
	cacheGetLatency.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.Bool("hit", hit)))
}

func recordError(ctx context.Context, op string) {
	if initMetrics() != nil {
		return
	}
	cacheErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
