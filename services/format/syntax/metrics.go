// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for parsing.
var (
	tracer = otel.Tracer("aleutian.fmt.syntax")
	meter  = otel.Meter("aleutian.fmt.syntax")
)

// Metrics for parse operations.
var (
	parseLatency     metric.Float64Histogram
	parseTotal       metric.Int64Counter
	parseDiagnostics metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseLatency, err = meter.Float64Histogram(
			"syntax_parse_duration_seconds",
			metric.WithDescription("Duration of parse and lowering"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseTotal, err = meter.Int64Counter(
			"syntax_parse_total",
			metric.WithDescription("Total number of parse operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseDiagnostics, err = meter.Int64Counter(
			"syntax_parse_diagnostics_total",
			metric.WithDescription("Total number of recovered syntax problems"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordParseMetrics records one parse operation.
func recordParseMetrics(ctx context.Context, lang Language, duration time.Duration, diagnostics int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", string(lang)),
		attribute.Bool("success", success),
	)
	parseLatency.Record(ctx, duration.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)
	if diagnostics > 0 {
		parseDiagnostics.Add(ctx, int64(diagnostics),
			metric.WithAttributes(attribute.String("language", string(lang))),
		)
	}
}

// startParseSpan creates a span for a parse operation.
//
// Returns:
//   - ctx: Context with span
//   - span: The created span (caller must call span.End())
func startParseSpan(ctx context.Context, lang Language, filePath string, contentSize int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "syntax.Parse",
		trace.WithAttributes(
			attribute.String("syntax.language", string(lang)),
			attribute.String("syntax.file", filePath),
			attribute.Int("syntax.content_size", contentSize),
		),
	)
}
