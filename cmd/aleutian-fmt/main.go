// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Command aleutian-fmt formats JavaScript and TypeScript source.
//
// Usage:
//
//	aleutian-fmt format src/app.js              # print formatted file
//	aleutian-fmt format --write src             # rewrite files in place
//	aleutian-fmt check src                      # exit 1 if anything is unformatted
//	aleutian-fmt format --diff src              # show unified diffs
//	cat a.ts | aleutian-fmt format --stdin-filepath a.ts
//	aleutian-fmt watch src                      # format on save
//	aleutian-fmt serve --addr :8080             # HTTP API
//	aleutian-fmt dump cst|ast|ir src/app.js     # inspect intermediate forms
//
// Options come from the embedded defaults, the nearest .aleutianfmt.yaml,
// ALEUTIANFMT_* environment variables and finally the command-line flags.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code: 0 on success, 1
// when check finds unformatted files or a file fails, 2 on usage and setup
// errors.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, a := newRootCmd(stdin, stdout, stderr)
	defer func() {
		if err := a.close(); err != nil {
			fmt.Fprintf(stderr, "aleutian-fmt: %v\n", err)
		}
	}()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "aleutian-fmt: %v\n", exit.err)
		}
		return exit.code
	}
	fmt.Fprintf(stderr, "aleutian-fmt: %v\n", err)
	return 2
}

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}
