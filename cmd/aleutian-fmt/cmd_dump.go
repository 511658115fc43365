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
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianFmt/services/format/ast"
	"github.com/AleutianAI/AleutianFmt/services/format/formatter"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

func newDumpCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:       "dump cst|ast|ir <file>",
		Short:     "Print the syntax tree, typed statements or format IR of a file",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), validDumpStage),
		ValidArgs: []string{"cst", "ast", "ir"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[1])
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			language, err := a.svc.Language(lang, args[1])
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			tree, err := syntax.Parse(cmd.Context(), src, language, syntax.WithFilePath(args[1]))
			if err != nil {
				return &exitError{code: 1, err: err}
			}

			switch args[0] {
			case "cst":
				dumpCST(a.stdout, tree.Root(), 0)
			case "ast":
				dumpAST(a.stdout, tree)
			case "ir":
				el, ok := formatter.New(a.svc.Options()).FormatRoot(tree)
				if !ok {
					return &exitError{code: 1, err: fmt.Errorf("%s: no formatting rule for the root", args[1])}
				}
				fmt.Fprintln(a.stdout, ir.Debug(el))
				fmt.Fprintf(a.stdout, "# comments: %d\n", ir.CountComments(el))
			}
			for _, d := range tree.Diagnostics() {
				fmt.Fprintf(a.stderr, "%s:%d:%d: %s\n", args[1], d.Line, d.Column, d.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "language", "", "Language (default: from the file extension)")
	return cmd
}

func validDumpStage(_ *cobra.Command, args []string) error {
	switch args[0] {
	case "cst", "ast", "ir":
		return nil
	default:
		return fmt.Errorf("unknown stage %q: want cst, ast or ir", args[0])
	}
}

// dumpCST prints one line per node and token, indented by depth. Nodes
// without a formatting rule are marked [verbatim].
func dumpCST(w io.Writer, n *syntax.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s@%s", indent, n.Kind(), n.Range())
	if n.Kind() == syntax.KindUnknownNode || n.Kind() == syntax.KindError {
		fmt.Fprintf(w, " (%s)", n.GrammarName())
	}
	if n.Kind() != syntax.KindList && !formatter.HasRule(n.Kind()) {
		fmt.Fprint(w, " [verbatim]")
	}
	fmt.Fprintln(w)
	for _, child := range n.Children() {
		if node, ok := child.AsNode(); ok {
			dumpCST(w, node, depth+1)
			continue
		}
		if tok, ok := child.AsToken(); ok {
			fmt.Fprintf(w, "%s  %s@%s %q\n", indent, tok.Kind(), tok.Range(), tok.Text())
		}
	}
}

// dumpAST prints the program's statements as seen through the typed
// projection. Items that do not cast to a statement are flagged.
func dumpAST(w io.Writer, tree *syntax.Tree) {
	program, ok := ast.Cast[ast.Program](tree.Root())
	if !ok {
		fmt.Fprintf(w, "root %s is not a program\n", tree.Root().Kind())
		return
	}
	list := program.Statements()
	fmt.Fprintf(w, "Program %s (%d statements)\n", program.Range(), list.Len())
	for i, child := range list.Syntax().ChildNodes() {
		text := firstLine(child.TrimmedText())
		if stmt, ok := ast.Cast[ast.Statement](child); ok {
			fmt.Fprintf(w, "  %d %s@%s %q\n", i, stmt.Kind(), stmt.Range(), text)
			continue
		}
		fmt.Fprintf(w, "  %d !%s@%s %q (not a statement)\n", i, child.Kind(), child.Range(), text)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
