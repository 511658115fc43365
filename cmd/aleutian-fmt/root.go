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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianFmt/pkg/logging"
	"github.com/AleutianAI/AleutianFmt/services/format"
	"github.com/AleutianAI/AleutianFmt/services/format/cache"
	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/storage/badger"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	lineWidth   int
	indentStyle string
	indentWidth int
	quoteStyle  string
	jobs        int
	cacheDir    string
	logLevel    string
	logJSON     bool
	logDir      string
}

// app holds what a command needs once the persistent flags are resolved.
type app struct {
	flags  globalFlags
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *logging.Logger
	store  *badger.Store
	svc    *format.Service
	source string
}

// newRootCmd builds the command tree. The returned app must be closed
// after Execute.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "aleutian-fmt",
		Short:         "Format JavaScript and TypeScript source",
		Long:          "aleutian-fmt formats JavaScript and TypeScript files, keeping statements it cannot parse exactly as written.",
		Version:       format.ServiceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Options file (default: nearest .aleutianfmt.yaml)")
	pf.IntVar(&a.flags.lineWidth, "line-width", 0, "Maximum line width")
	pf.StringVar(&a.flags.indentStyle, "indent-style", "", "Indentation: tab or space")
	pf.IntVar(&a.flags.indentWidth, "indent-width", 0, "Columns per indentation level")
	pf.StringVar(&a.flags.quoteStyle, "quote-style", "", "Preferred string quote: double or single")
	pf.IntVarP(&a.flags.jobs, "jobs", "j", 0, "Files formatted in parallel (default: number of CPUs)")
	pf.StringVar(&a.flags.cacheDir, "cache-dir", "", "Directory for the result cache (disabled when empty)")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.logJSON, "log-json", false, "Log as JSON")
	pf.StringVar(&a.flags.logDir, "log-dir", "", "Also write JSON logs to this directory")

	root.AddCommand(
		newFormatCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newDumpCmd(a),
	)
	return root, a
}

// setup builds the logger, loads options and creates the service.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(a.flags.logLevel)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	a.logger, err = logging.New(logging.Config{
		Level:   level,
		JSON:    a.flags.logJSON,
		LogDir:  a.flags.logDir,
		Service: "aleutian-fmt",
		Writer:  a.stderr,
	})
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	slog.SetDefault(a.logger.Slog())

	loaded, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigPath: a.flags.configPath,
		StartDir:   startDir(args),
		Overrides:  a.overrides(cmd),
	})
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("load options: %w", err)}
	}
	a.source = loaded.Source
	if loaded.Source != "" {
		slog.Debug("loaded options", slog.String("path", loaded.Source))
	}

	cfg := format.DefaultServiceConfig()
	cfg.Options = loaded.Options
	opts := []format.ServiceOption{format.WithLogger(a.logger.Slog())}
	if a.flags.cacheDir != "" {
		bcfg := badger.DefaultConfig(a.flags.cacheDir)
		bcfg.Logger = a.logger.Slog()
		a.store, err = badger.Open(bcfg)
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("open cache: %w", err)}
		}
		opts = append(opts, format.WithCache(cache.New(a.store, cache.WithLogger(a.logger.Slog()))))
	}
	a.svc = format.NewService(cfg, opts...)
	return nil
}

// overrides collects the option flags that were set explicitly.
func (a *app) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	flags := cmd.Flags()
	if flags.Changed("line-width") {
		ov.LineWidth = &a.flags.lineWidth
	}
	if flags.Changed("indent-style") {
		ov.IndentStyle = &a.flags.indentStyle
	}
	if flags.Changed("indent-width") {
		ov.IndentWidth = &a.flags.indentWidth
	}
	if flags.Changed("quote-style") {
		ov.QuoteStyle = &a.flags.quoteStyle
	}
	return ov
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.logger != nil {
		if cerr := a.logger.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// startDir is where project option discovery begins: the first path
// argument, or its directory when it is a file.
func startDir(args []string) string {
	for _, arg := range args {
		if arg == "-" {
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return arg
		}
		return filepath.Dir(arg)
	}
	return ""
}
