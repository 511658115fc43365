// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package format is the aleutian-fmt service: it ties parsing, IR
// construction and printing together behind a single Format call, with an
// optional result cache, and exposes it over HTTP.
//
// The service exposes endpoints for:
//   - Formatting a source text
//   - Checking whether a source text is already formatted
//   - Listing supported languages
package format

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianFmt/services/format/cache"
	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/formatter"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/printer"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
	"github.com/AleutianAI/AleutianFmt/services/format/telemetry"
)

// ServiceVersion is reported by the health endpoint and the CLI.
const ServiceVersion = "0.3.0"

var tracer = otel.Tracer("aleutian.fmt.service")

// ServiceConfig configures the service.
type ServiceConfig struct {
	// Options are the defaults for requests without their own.
	Options config.Options

	// Timeout bounds a single Format call. Zero means no limit.
	Timeout time.Duration
}

// DefaultServiceConfig returns the embedded default options and a 10s
// timeout.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Options: config.Defaults(),
		Timeout: 10 * time.Second,
	}
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithCache enables result caching.
func WithCache(c *cache.Cache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithRegistry replaces the language registry.
func WithRegistry(r *syntax.LanguageRegistry) ServiceOption {
	return func(s *Service) { s.registry = r }
}

// Service formats source text.
//
// # Thread Safety
//
// Safe for concurrent use. Formatters are created per call from the
// resolved options; the CST and rule table are immutable.
type Service struct {
	config   ServiceConfig
	registry *syntax.LanguageRegistry
	cache    *cache.Cache
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewService creates a service.
func NewService(cfg ServiceConfig, opts ...ServiceOption) *Service {
	s := &Service{
		config:   cfg,
		registry: syntax.NewLanguageRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	m, err := telemetry.NewMetrics(otel.Meter("aleutian.fmt.service"))
	if err != nil {
		s.logger.Warn("format metrics unavailable", slog.String("error", err.Error()))
	} else {
		s.metrics = m
	}
	return s
}

// Registry returns the language registry.
func (s *Service) Registry() *syntax.LanguageRegistry {
	return s.registry
}

// Options returns the default options.
func (s *Service) Options() config.Options {
	return s.config.Options
}

// Language resolves the grammar for a request: an explicit name first,
// then the file extension, then JavaScript.
func (s *Service) Language(name, path string) (syntax.Language, error) {
	if name != "" {
		lang, ok := s.registry.ByName(name)
		if !ok {
			return "", fmt.Errorf("%w: %q", syntax.ErrUnsupportedLanguage, name)
		}
		return lang, nil
	}
	if path != "" {
		if lang, ok := s.registry.ByPath(path); ok {
			return lang, nil
		}
	}
	return syntax.JavaScript, nil
}

// Format formats one source text.
//
// # Description
//
// Resolves options and language, then parses, builds IR and prints.
// With a cache configured, results are keyed by options, language and
// source; concurrent identical requests share one computation. Syntax
// errors do not fail the call unless SkipOnSyntaxError is set: erroneous
// statements are kept as written and counted in Result.Verbatim.
//
// # Inputs
//
//   - ctx: Context for cancellation and tracing.
//   - req: The job. Source must be non-empty.
//
// # Outputs
//
//   - *Result: The formatted code and statistics.
//   - error: ErrEmptySource, a *config.ValidationError, an unsupported
//     language, ErrSyntaxErrors, ErrNotIdempotent, or a parse error.
//
// # Example
//
//	res, err := svc.Format(ctx, format.Request{Source: src, FilePath: "app.js"})
//	if err != nil {
//	    return err
//	}
//	if res.Changed {
//	    os.WriteFile("app.js", []byte(res.Code), 0o644)
//	}
//
// # Thread Safety
//
// Safe for concurrent use.
func (s *Service) Format(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if len(req.Source) == 0 {
		return nil, ErrEmptySource
	}

	opts := s.config.Options
	if req.Options != nil {
		opts = *req.Options
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	lang, err := s.Language(req.Language, req.FilePath)
	if err != nil {
		return nil, err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	ctx, span := tracer.Start(ctx, "format.Service.Format", trace.WithAttributes(
		attribute.String("file.path", req.FilePath),
		attribute.String("language", string(lang)),
		attribute.Int("source.bytes", len(req.Source)),
	))
	defer span.End()

	res := &Result{Language: lang}
	compute := func(ctx context.Context) (cache.Entry, error) {
		if s.config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
			defer cancel()
		}
		code, verbatim, diags, err := s.run(ctx, req, lang, opts)
		res.Diagnostics = diags
		if err != nil {
			return cache.Entry{}, err
		}
		return cache.Entry{Code: code, Verbatim: verbatim}, nil
	}

	var entry cache.Entry
	if s.cache != nil {
		key := cache.NewKey(opts.Hash(), string(lang), req.Source)
		entry, res.Cached, err = s.cache.GetOrCompute(ctx, key, compute)
	} else {
		entry, err = compute(ctx)
	}
	if err == nil {
		res.Code = entry.Code
		res.Verbatim = entry.Verbatim
		res.Changed = entry.Code != string(req.Source)
	}
	res.Duration = time.Since(start)
	s.record(ctx, lang, res, len(req.Source), err)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("changed", res.Changed),
		attribute.Bool("cached", res.Cached),
		attribute.Int("verbatim", res.Verbatim),
	)
	if res.Verbatim > 0 {
		telemetry.LoggerWithTrace(ctx, s.logger).Debug("kept unformattable items as written",
			slog.String("path", req.FilePath),
			slog.Int("verbatim", res.Verbatim))
	}
	return res, nil
}

// run performs one uncached format.
func (s *Service) run(ctx context.Context, req Request, lang syntax.Language, opts config.Options) (string, int, []syntax.Diagnostic, error) {
	tree, err := syntax.Parse(ctx, req.Source, lang,
		syntax.WithFilePath(req.FilePath),
		syntax.WithMaxFileSize(opts.MaxFileSize))
	if err != nil {
		return "", 0, nil, err
	}
	diags := tree.Diagnostics()
	if opts.SkipOnSyntaxError && tree.HasErrors() {
		return "", 0, diags, fmt.Errorf("%w: %d error(s)", ErrSyntaxErrors, len(diags))
	}

	code, elem, err := render(tree, opts)
	if err != nil {
		return "", 0, diags, err
	}

	if opts.VerifyIdempotent {
		again, err := syntax.Parse(ctx, []byte(code), lang, syntax.WithFilePath(req.FilePath))
		if err != nil {
			return "", 0, diags, fmt.Errorf("reparse formatted output: %w", err)
		}
		second, _, err := render(again, opts)
		if err != nil {
			return "", 0, diags, err
		}
		if second != code {
			return "", 0, diags, fmt.Errorf("%w: %s", ErrNotIdempotent, req.FilePath)
		}
	}
	return code, countVerbatim(elem), diags, nil
}

func render(tree *syntax.Tree, opts config.Options) (string, ir.Element, error) {
	elem, ok := formatter.New(opts).FormatRoot(tree)
	if !ok {
		return "", nil, ErrNoRule
	}
	return printer.Print(elem, printer.FromConfig(opts)).Code, elem, nil
}

func countVerbatim(e ir.Element) int {
	n := 0
	ir.Walk(e, func(el ir.Element) bool {
		if _, ok := el.(ir.Verbatim); ok {
			n++
		}
		return true
	})
	return n
}

func (s *Service) record(ctx context.Context, lang syntax.Language, res *Result, size int, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res.Cached:
		outcome = "cached"
	}
	langAttr := attribute.String("language", string(lang))
	s.metrics.FormatsTotal.Add(ctx, 1, metric.WithAttributes(langAttr, attribute.String("outcome", outcome)))
	s.metrics.FormatDuration.Record(ctx, res.Duration.Seconds(), metric.WithAttributes(langAttr))
	s.metrics.SourceBytes.Record(ctx, int64(size), metric.WithAttributes(langAttr))
	if err == nil && res.Verbatim > 0 {
		s.metrics.VerbatimTotal.Add(ctx, int64(res.Verbatim), metric.WithAttributes(langAttr))
	}
}
