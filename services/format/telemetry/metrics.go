// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments of the format service.
type Metrics struct {
	// FormatsTotal counts format calls by language and outcome.
	FormatsTotal metric.Int64Counter

	// FormatDuration records end-to-end format latency in seconds.
	FormatDuration metric.Float64Histogram

	// VerbatimTotal counts list items kept verbatim, by language.
	VerbatimTotal metric.Int64Counter

	// SourceBytes records input sizes.
	SourceBytes metric.Int64Histogram
}

// NewMetrics creates the format service instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.FormatsTotal, err = meter.Int64Counter(
		"aleutianfmt_formats_total",
		metric.WithDescription("Format calls by language and outcome"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("create formats_total: %w", err)
	}

	if m.FormatDuration, err = meter.Float64Histogram(
		"aleutianfmt_format_duration_seconds",
		metric.WithDescription("Format latency including parse and print"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	); err != nil {
		return nil, fmt.Errorf("create format_duration: %w", err)
	}

	if m.VerbatimTotal, err = meter.Int64Counter(
		"aleutianfmt_verbatim_items_total",
		metric.WithDescription("List items emitted unformatted"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("create verbatim_items_total: %w", err)
	}

	if m.SourceBytes, err = meter.Int64Histogram(
		"aleutianfmt_source_bytes",
		metric.WithDescription("Size of formatted sources"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(256, 1024, 4096, 16384, 65536, 262144, 1048576),
	); err != nil {
		return nil, fmt.Errorf("create source_bytes: %w", err)
	}
	return m, nil
}
