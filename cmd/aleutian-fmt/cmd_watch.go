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
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianFmt/services/format/runner"
	"github.com/AleutianAI/AleutianFmt/services/format/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Format files in a directory as they are saved",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, dir, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 150*time.Millisecond, "Quiet period before formatting a batch of saves")
	return cmd
}

func (a *app) watch(ctx context.Context, dir string, debounce time.Duration) error {
	r := runner.New(a.svc, runner.Config{
		Mode:   runner.ModeWrite,
		Jobs:   a.flags.jobs,
		Out:    a.stdout,
		Logger: a.logger.Slog(),
	})
	handle := func(ctx context.Context, paths []string) {
		for _, path := range paths {
			res := r.File(ctx, path)
			if res.Err != nil {
				fmt.Fprintf(a.stderr, "%s: %v\n", path, res.Err)
			}
		}
	}

	w, err := watch.New(dir, handle,
		watch.WithDebounce(debounce),
		watch.WithIgnore(runner.DefaultIgnore...),
		watch.WithFilter(func(path string) bool { return r.Accepts(dir, path) }),
		watch.WithLogger(a.logger.Slog()))
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if err := w.Start(ctx); err != nil {
		return &exitError{code: 2, err: err}
	}
	slog.Info("watching for changes", slog.String("dir", dir))
	fmt.Fprintf(a.stderr, "watching %s (ctrl-c to stop)\n", dir)

	<-ctx.Done()
	w.Stop()
	return nil
}
