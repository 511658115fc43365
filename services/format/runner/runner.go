// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package runner formats many files at once: it expands paths into source
// files, formats them in parallel and writes, checks, diffs or lists the
// results.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianFmt/services/format"
	"github.com/AleutianAI/AleutianFmt/services/format/diff"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// ErrNoFiles is returned when the given paths contain no source files.
var ErrNoFiles = errors.New("no files to format")

// DefaultIgnore lists directory names that are never descended into.
var DefaultIgnore = []string{".git", "node_modules", "dist", "build"}

var filesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aleutianfmt_runner_files_total",
	Help: "Files processed by the runner, by outcome",
}, []string{"outcome"})

// Mode selects what happens to a formatted file.
type Mode int

const (
	// ModeWrite rewrites files whose formatting changed.
	ModeWrite Mode = iota

	// ModeCheck reports files that are not formatted.
	ModeCheck

	// ModeDiff prints a unified diff for files that are not formatted.
	ModeDiff

	// ModeList prints the paths of files that are not formatted.
	ModeList
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeDiff:
		return "diff"
	case ModeList:
		return "list"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Formatter formats one source text. *format.Service implements it.
type Formatter interface {
	Format(ctx context.Context, req format.Request) (*format.Result, error)
}

// Config configures a Runner.
type Config struct {
	// Fs is the filesystem to read and write. Defaults to the OS filesystem.
	Fs afero.Fs

	// Mode selects the action for changed files.
	Mode Mode

	// Jobs bounds parallel files. Defaults to GOMAXPROCS.
	Jobs int

	// Out receives paths, reports and diffs. Defaults to io.Discard.
	Out io.Writer

	// Color enables coloured diffs.
	Color bool

	// Ignore lists directory names skipped while walking. Defaults to
	// DefaultIgnore.
	Ignore []string

	// Extensions lists file extensions picked up while walking. Defaults to
	// every registered language extension. Explicit file arguments are
	// always formatted.
	Extensions []string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	Changed  bool
	Verbatim int
	Err      error
}

// Summary aggregates a run.
type Summary struct {
	Files     int
	Changed   int
	Unchanged int
	Failed    int
	Duration  time.Duration
	Results   []FileResult
}

// Errors returns the per-file errors joined, or nil.
func (s *Summary) Errors() error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Runner formats files.
//
// # Thread Safety
//
// Safe for concurrent use. Output to Config.Out is serialised.
type Runner struct {
	fmter  Formatter
	cfg    Config
	exts   map[string]bool
	ignore map[string]bool
	outMu  sync.Mutex
}

// New creates a runner.
func New(f Formatter, cfg Config) *Runner {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Ignore == nil {
		cfg.Ignore = DefaultIgnore
	}
	if cfg.Extensions == nil {
		cfg.Extensions = syntax.NewLanguageRegistry().Extensions()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &Runner{
		fmter:  f,
		cfg:    cfg,
		exts:   make(map[string]bool, len(cfg.Extensions)),
		ignore: make(map[string]bool, len(cfg.Ignore)),
	}
	for _, e := range cfg.Extensions {
		r.exts[strings.ToLower(e)] = true
	}
	for _, d := range cfg.Ignore {
		r.ignore[d] = true
	}
	return r
}

// Expand resolves paths into a sorted, de-duplicated file list.
// Directories are walked recursively, skipping ignored directory names
// and files without a known extension.
func (r *Runner) Expand(ctx context.Context, paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := r.cfg.Fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = afero.Walk(r.cfg.Fs, root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if fi.IsDir() {
				if path != root && r.ignore[fi.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if r.Accepts(root, path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	slices.Sort(files)
	return files, nil
}

// Accepts reports whether path has a known source extension and no
// ignored directory between root and the file. Directories above root
// are not checked, so a project checked out under build/ still formats.
func (r *Runner) Accepts(root, path string) bool {
	if !r.exts[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(filepath.Dir(rel))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return true
	}
	for _, part := range strings.Split(rel, "/") {
		if r.ignore[part] {
			return false
		}
	}
	return true
}

// Run formats every file under paths.
//
// # Description
//
// Expands paths, then formats files in parallel with at most Config.Jobs
// in flight. A file that fails is recorded in the summary and does not
// stop the others; only expansion failures and cancellation fail the run.
//
// # Outputs
//
//   - *Summary: Per-file results in path order and totals.
//   - error: ErrNoFiles, an expansion error, or the context error.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	files, err := r.Expand(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.File(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{Files: len(files), Results: results}
	for _, res := range results {
		switch {
		case res.Err != nil:
			sum.Failed++
		case res.Changed:
			sum.Changed++
		default:
			sum.Unchanged++
		}
	}
	sum.Duration = time.Since(start)
	r.cfg.Logger.Info("format run complete",
		slog.String("mode", r.cfg.Mode.String()),
		slog.Int("files", sum.Files),
		slog.Int("changed", sum.Changed),
		slog.Int("failed", sum.Failed),
		slog.Duration("duration", sum.Duration))
	return sum, nil
}

// File formats one file and applies the configured mode.
func (r *Runner) File(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}
	res.Changed, res.Verbatim, res.Err = r.file(ctx, path)

	outcome := "unchanged"
	switch {
	case res.Err != nil:
		outcome = "failed"
		r.cfg.Logger.Warn("format failed", slog.String("path", path), slog.String("error", res.Err.Error()))
	case res.Changed:
		outcome = "changed"
	}
	filesProcessed.WithLabelValues(outcome).Inc()
	return res
}

func (r *Runner) file(ctx context.Context, path string) (bool, int, error) {
	info, err := r.cfg.Fs.Stat(path)
	if err != nil {
		return false, 0, err
	}
	src, err := afero.ReadFile(r.cfg.Fs, path)
	if err != nil {
		return false, 0, err
	}
	if len(src) == 0 {
		return false, 0, nil
	}
	out, err := r.fmter.Format(ctx, format.Request{Source: src, FilePath: path})
	if err != nil {
		return false, 0, err
	}
	if !out.Changed {
		return false, out.Verbatim, nil
	}

	switch r.cfg.Mode {
	case ModeWrite:
		if err := afero.WriteFile(r.cfg.Fs, path, []byte(out.Code), info.Mode().Perm()); err != nil {
			return true, out.Verbatim, fmt.Errorf("write: %w", err)
		}
		r.printf("%s\n", path)
	case ModeCheck:
		st := diff.Count(string(src), out.Code)
		r.printf("%s (+%d -%d)\n", path, st.Added, st.Deleted)
	case ModeDiff:
		text, err := diff.Unified(strings.TrimPrefix(filepath.ToSlash(path), "/"), string(src), out.Code, diff.DefaultContext)
		if err != nil {
			return true, out.Verbatim, err
		}
		if r.cfg.Color {
			text = diff.Colorize(text)
		}
		r.printf("%s", text)
	case ModeList:
		r.printf("%s\n", path)
	}
	return true, out.Verbatim, nil
}

func (r *Runner) printf(layout string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.cfg.Out, layout, args...)
}
