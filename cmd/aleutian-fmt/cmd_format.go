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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianFmt/services/format"
	"github.com/AleutianAI/AleutianFmt/services/format/diff"
	"github.com/AleutianAI/AleutianFmt/services/format/runner"
)

type formatFlags struct {
	write         bool
	check         bool
	diff          bool
	list          bool
	stdinFilepath string
}

func newFormatCmd(a *app) *cobra.Command {
	var f formatFlags
	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format files, directories or stdin",
		Long: `Format files and directories. Directories are walked recursively,
skipping node_modules, .git, dist and build. With no paths, or "-",
stdin is formatted to stdout.

A single file without --write, --check, --diff or --list is printed
to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFormat(cmd, args, f)
		},
	}
	fl := cmd.Flags()
	fl.BoolVarP(&f.write, "write", "w", false, "Rewrite files in place")
	fl.BoolVarP(&f.check, "check", "c", false, "Report unformatted files and exit 1 if any")
	fl.BoolVarP(&f.diff, "diff", "d", false, "Print unified diffs")
	fl.BoolVarP(&f.list, "list", "l", false, "List unformatted files")
	fl.StringVar(&f.stdinFilepath, "stdin-filepath", "", "Path used to pick the language for stdin")
	cmd.MarkFlagsMutuallyExclusive("write", "check", "diff", "list")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Exit 1 if any file is not formatted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return a.runFormat(cmd, args, formatFlags{check: true})
		},
	}
}

func (a *app) runFormat(cmd *cobra.Command, args []string, f formatFlags) error {
	ctx := cmd.Context()
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return a.formatStdin(cmd, f)
	}

	mode, ok := f.mode()
	if !ok {
		if len(args) == 1 {
			if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
				return a.printFile(cmd, args[0])
			}
		}
		return &exitError{code: 2, err: errors.New("formatting a directory or several files needs --write, --check, --diff or --list")}
	}

	r := runner.New(a.svc, runner.Config{
		Mode:  mode,
		Jobs:  a.flags.jobs,
		Out:   a.stdout,
		Color: mode == runner.ModeDiff && diff.ShouldColor(a.stdout),
	})
	sum, err := r.Run(ctx, args)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if err := sum.Errors(); err != nil {
		return &exitError{code: 1, err: err}
	}
	if mode == runner.ModeCheck && sum.Changed > 0 {
		fmt.Fprintf(a.stderr, "%d of %d files are not formatted\n", sum.Changed, sum.Files)
		return &exitError{code: 1}
	}
	return nil
}

func (f formatFlags) mode() (runner.Mode, bool) {
	switch {
	case f.write:
		return runner.ModeWrite, true
	case f.check:
		return runner.ModeCheck, true
	case f.diff:
		return runner.ModeDiff, true
	case f.list:
		return runner.ModeList, true
	default:
		return 0, false
	}
}

func (a *app) formatStdin(cmd *cobra.Command, f formatFlags) error {
	if f.write {
		return &exitError{code: 2, err: errors.New("--write cannot be used with stdin")}
	}
	src, err := io.ReadAll(a.stdin)
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("read stdin: %w", err)}
	}
	name := f.stdinFilepath
	if name == "" {
		name = "stdin"
	}
	if len(src) == 0 {
		return nil
	}
	res, err := a.svc.Format(cmd.Context(), format.Request{Source: src, FilePath: f.stdinFilepath})
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("%s: %w", name, err)}
	}

	switch {
	case f.check:
		if res.Changed {
			fmt.Fprintf(a.stderr, "%s is not formatted\n", name)
			return &exitError{code: 1}
		}
	case f.diff:
		text, err := diff.Unified(name, string(src), res.Code, diff.DefaultContext)
		if err != nil {
			return err
		}
		if diff.ShouldColor(a.stdout) {
			text = diff.Colorize(text)
		}
		fmt.Fprint(a.stdout, text)
	case f.list:
		if res.Changed {
			fmt.Fprintln(a.stdout, name)
		}
	default:
		fmt.Fprint(a.stdout, res.Code)
	}
	return nil
}

func (a *app) printFile(cmd *cobra.Command, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	res, err := a.svc.Format(cmd.Context(), format.Request{Source: src, FilePath: path})
	if errors.Is(err, format.ErrEmptySource) {
		return nil
	}
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("%s: %w", path, err)}
	}
	fmt.Fprint(a.stdout, res.Code)
	return nil
}
