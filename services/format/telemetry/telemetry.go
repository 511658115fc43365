// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry installs the OpenTelemetry providers for aleutian-fmt.
//
// Packages instrument themselves through otel.Tracer and otel.Meter; until
// Init runs those are no-ops, so the CLI pays nothing when telemetry is
// off. The server calls Init once at startup.
//
// # Environment Variables
//
//   - ALEUTIANFMT_TRACES_EXPORTER: otlp, stdout or none (default: none)
//   - ALEUTIANFMT_METRICS_EXPORTER: prometheus, stdout or none (default: prometheus)
//   - ALEUTIANFMT_OTLP_ENDPOINT: OTLP gRPC endpoint (default: localhost:4317)
//   - ALEUTIANFMT_ENV: deployment environment (default: development)
//
// # Thread Safety
//
// Init must be called once. Everything else is safe for concurrent use.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/mstoykov/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	// ErrNilContext is returned when Init receives a nil context.
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unsupported exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// Config controls which exporters Init installs.
type Config struct {
	ServiceName    string `envconfig:"SERVICE_NAME"`
	ServiceVersion string `envconfig:"SERVICE_VERSION"`
	Environment    string `envconfig:"ENV"`

	// TraceExporter is "otlp", "stdout" or "none".
	TraceExporter string `envconfig:"TRACES_EXPORTER"`

	// MetricExporter is "prometheus", "stdout" or "none".
	MetricExporter string `envconfig:"METRICS_EXPORTER"`

	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT"`
	OTLPInsecure bool   `envconfig:"OTLP_INSECURE"`

	// Writer receives stdout exporter output. Nil means os.Stdout.
	Writer io.Writer `ignored:"true"`
}

// DefaultConfig returns defaults overridden by ALEUTIANFMT_* variables
// found through lookup. A nil lookup reads the process environment.
func DefaultConfig(version string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		ServiceName:    "aleutian-fmt",
		ServiceVersion: version,
		Environment:    "development",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		OTLPEndpoint:   "localhost:4317",
		OTLPInsecure:   true,
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("ALEUTIANFMT", &cfg, lookup); err != nil {
		return Config{}, fmt.Errorf("read telemetry environment: %w", err)
	}
	return cfg, nil
}

var (
	metricsHandler   http.Handler
	metricsHandlerMu sync.RWMutex
)

// Init installs the global tracer and meter providers.
//
// # Description
//
// Builds a resource from the service identity, then a TracerProvider
// and MeterProvider for the configured exporters. "none" leaves the
// corresponding global provider untouched. The Prometheus exporter
// registers with reg; MetricsHandler then serves reg.
//
// # Inputs
//
//   - ctx: Context for exporter connections. Must not be nil.
//   - cfg: Exporter selection.
//   - reg: Registry for the Prometheus exporter. Nil uses the default registry.
//
// # Outputs
//
//   - func(context.Context) error: Flushes and stops the providers. Always non-nil on success.
//   - error: ErrNilContext, ErrUnknownExporter or an exporter error.
//
// # Example
//
//	shutdown, err := telemetry.Init(ctx, cfg, nil)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
func Init(ctx context.Context, cfg Config, reg *prometheus.Registry) (func(context.Context) error, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	if cfg.TraceExporter != "none" && cfg.TraceExporter != "" {
		tp, err := newTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.MetricExporter != "none" && cfg.MetricExporter != "" {
		mp, err := newMeterProvider(cfg, res, reg)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch cfg.TraceExporter {
	case "otlp":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(cfg.writer()))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", cfg.TraceExporter, err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

func newMeterProvider(cfg Config, res *resource.Resource, reg *prometheus.Registry) (*sdkmetric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case "prometheus":
	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint(), stdoutmetric.WithWriter(cfg.writer()))
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, cfg.MetricExporter)
	}

	var (
		opts    []promexporter.Option
		handler http.Handler
	)
	if reg != nil {
		opts = append(opts, promexporter.WithRegisterer(reg))
		handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	} else {
		handler = promhttp.Handler()
	}
	exporter, err := promexporter.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	metricsHandlerMu.Lock()
	metricsHandler = handler
	metricsHandlerMu.Unlock()

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	), nil
}

// MetricsHandler returns the /metrics handler installed by Init, or the
// default Prometheus handler when Init did not install one.
func MetricsHandler() http.Handler {
	metricsHandlerMu.RLock()
	defer metricsHandlerMu.RUnlock()
	if metricsHandler == nil {
		return promhttp.Handler()
	}
	return metricsHandler
}
