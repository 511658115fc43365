// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MaxConfigFileSize caps project option files (1MB).
	MaxConfigFileSize = 1024 * 1024

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ALEUTIANFMT"
)

// ProjectFileNames are searched, in order, in each directory from the
// start directory up to the filesystem root.
var ProjectFileNames = []string{".aleutianfmt.yaml", ".aleutianfmt.yml"}

// ErrConfigTooLarge indicates a project file above MaxConfigFileSize.
var ErrConfigTooLarge = errors.New("config file too large")

// =============================================================================
// Embedded defaults
// =============================================================================

//go:embed default_options.yaml
var defaultOptionsYAML []byte

// =============================================================================
// Metrics
// =============================================================================

var (
	configLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aleutianfmt_config_loads_total",
		Help: "Total option loads by source of the project layer",
	}, []string{"source"})

	configLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aleutianfmt_config_load_errors_total",
		Help: "Total option loads that failed",
	})

	configLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aleutianfmt_config_load_duration_seconds",
		Help:    "Duration of option loading",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1},
	})
)

var configTracer = otel.Tracer("aleutian.fmt.config")

// =============================================================================
// Loading
// =============================================================================

// LoadOptions controls where Load looks for option layers.
type LoadOptions struct {
	// Fs is the filesystem for project files. Defaults to the OS filesystem.
	Fs afero.Fs

	// ConfigPath names the project file explicitly. When empty the file is
	// discovered upwards from StartDir.
	ConfigPath string

	// StartDir is where discovery begins. Defaults to the working directory.
	StartDir string

	// Lookup resolves environment variables. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)

	// Overrides are applied last.
	Overrides Overrides

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Loaded is the result of Load.
type Loaded struct {
	Options Options

	// Source is the project file that contributed, or "" when none did.
	Source string
}

// Load resolves options from defaults, project file, environment and
// overrides, then validates them.
//
// # Description
//
// Each layer only replaces the keys it sets. A missing project file is
// not an error; an explicit ConfigPath that does not exist is.
//
// # Inputs
//
//   - ctx: Context for tracing.
//   - lo: Layer sources. The zero value uses the OS filesystem, the
//     working directory and the process environment.
//
// # Outputs
//
//   - *Loaded: The validated options and the contributing file.
//   - error: Wraps ErrInvalidOptions, ErrConfigTooLarge, or an I/O or
//     YAML error.
//
// # Example
//
//	loaded, err := config.Load(ctx, config.LoadOptions{StartDir: "src"})
//	if err != nil {
//	    return err
//	}
//	f := formatter.New(loaded.Options)
//
// # Thread Safety
//
// Safe for concurrent use.
func Load(ctx context.Context, lo LoadOptions) (*Loaded, error) {
	ctx, span := configTracer.Start(ctx, "config.Load")
	defer span.End()
	start := time.Now()
	defer func() { configLoadDuration.Observe(time.Since(start).Seconds()) }()

	loaded, err := load(ctx, lo)
	if err != nil {
		configLoadErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	source := "defaults"
	if loaded.Source != "" {
		source = "file"
	}
	configLoads.WithLabelValues(source).Inc()
	span.SetAttributes(attribute.String("config.source", loaded.Source))
	return loaded, nil
}

func load(_ context.Context, lo LoadOptions) (*Loaded, error) {
	fs := lo.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := lo.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lookup := lo.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	opts, err := parseOptions(defaultOptionsYAML, Options{})
	if err != nil {
		return nil, err
	}

	path := lo.ConfigPath
	if path == "" {
		path, err = discover(fs, lo.StartDir)
		if err != nil {
			return nil, err
		}
	}
	if path != "" {
		data, err := readCapped(fs, path)
		if err != nil {
			return nil, err
		}
		opts, err = parseOptions(data, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("loaded project options", slog.String("path", path))
	}

	if err := envconfig.Process(EnvPrefix, &opts, lookup); err != nil {
		return nil, fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}

	opts = opts.Apply(lo.Overrides)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Loaded{Options: opts, Source: path}, nil
}

// discover walks from dir to the root and returns the first project file.
func discover(fs afero.Fs, dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		for _, name := range ProjectFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func readCapped(fs afero.Fs, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening options file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > MaxConfigFileSize {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", path, ErrConfigTooLarge, MaxConfigFileSize)
	}
	return data, nil
}
