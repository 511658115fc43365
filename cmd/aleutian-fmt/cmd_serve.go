// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianFmt/services/format"
	"github.com/AleutianAI/AleutianFmt/services/format/telemetry"
)

type serveFlags struct {
	addr          string
	ratePerSecond float64
	rateBurst     int
	debug         bool
	shutdownGrace time.Duration
}

func newServeCmd(a *app) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the formatting HTTP API",
		Long: `Serve the formatting API:

  POST /v1/format            format a source text
  POST /v1/format/check      report whether a source text is formatted
  GET  /v1/format/languages  supported languages
  GET  /v1/format/health     health check
  GET  /metrics              Prometheus metrics

Tracing is configured with ALEUTIANFMT_TRACES_EXPORTER (otlp, stdout, none)
and ALEUTIANFMT_OTLP_ENDPOINT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", ":8080", "Listen address")
	fl.Float64Var(&f.ratePerSecond, "rate", 20, "Requests per second per client (0 disables limiting)")
	fl.IntVar(&f.rateBurst, "burst", 40, "Burst size for --rate")
	fl.BoolVar(&f.debug, "debug", false, "Gin debug mode and access log")
	fl.DurationVar(&f.shutdownGrace, "shutdown-grace", 10*time.Second, "Time allowed for in-flight requests on shutdown")
	return cmd
}

func (a *app) serve(ctx context.Context, f serveFlags) error {
	tcfg, err := telemetry.DefaultConfig(format.ServiceVersion, nil)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	shutdownTelemetry, err := telemetry.Init(ctx, tcfg, nil)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("init telemetry: %w", err)}
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	if f.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := format.NewRouter(a.svc, format.RouterConfig{
		RatePerSecond: f.ratePerSecond,
		RateBurst:     f.rateBurst,
		Metrics:       telemetry.MetricsHandler(),
		AccessLog:     f.debug,
	})

	srv := &http.Server{
		Addr:              f.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting aleutian-fmt server",
			slog.String("address", f.addr),
			slog.String("version", format.ServiceVersion),
			slog.String("options_file", a.source))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return &exitError{code: 2, err: err}
	case <-ctx.Done():
	}

	slog.Info("shutting down aleutian-fmt server")
	sctx, cancel := context.WithTimeout(context.Background(), f.shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
