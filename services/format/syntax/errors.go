// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"errors"
	"fmt"
)

// Sentinel errors for parse and tree construction failures.
//
// These errors can be checked using errors.Is() to determine the
// category of failure without inspecting error messages.
var (
	// ErrUnsupportedLanguage indicates that no grammar is registered for
	// the requested language name or file extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrParseFailed indicates that tree-sitter produced no tree at all.
	//
	// Syntax errors in the source do NOT produce this error: they are
	// lowered into ERROR nodes and reported as diagnostics.
	ErrParseFailed = errors.New("parse failed")

	// ErrInvalidContent indicates content that cannot be parsed.
	//
	// Common causes:
	//   - Nil content slice
	//   - Non-UTF-8 encoding
	ErrInvalidContent = errors.New("invalid content")

	// ErrFileTooLarge indicates content above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnbalancedTree indicates a Builder event sequence that does not
	// describe a single well-nested tree. This is a programmer error.
	ErrUnbalancedTree = errors.New("unbalanced syntax tree")
)

// ParseError provides the location of a parse failure.
//
// ParseError wraps an underlying error with the file and position where
// it occurred. It can be unwrapped to reach the sentinel cause.
//
// Example:
//
//	tree, err := syntax.Parse(ctx, content, syntax.JavaScript, syntax.WithFilePath("a.js"))
//	var parseErr *syntax.ParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Printf("%s:%d:%d: %s\n", parseErr.FilePath, parseErr.Line, parseErr.Column, parseErr.Message)
//	}
type ParseError struct {
	// FilePath is the path to the file where the error occurred.
	FilePath string

	// Line is the 1-indexed line number, 0 if unknown.
	Line int

	// Column is the 1-indexed column, 0 if unknown.
	Column int

	// Message describes the error in human-readable form.
	Message string

	// Cause is the underlying error, usually one of the sentinels above.
	Cause error
}

// Error returns a formatted error message including file location.
//
// Format depends on available location information:
//   - With line and column: "file.js:10:5: unexpected token"
//   - With line only:       "file.js:10: unexpected token"
//   - Without location:     "file.js: unexpected token"
func (e *ParseError) Error() string {
	path := e.FilePath
	if path == "" {
		path = "<input>"
	}
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WrapParseError wraps err with file context. ParseErrors are returned
// unchanged; nil stays nil.
func WrapParseError(err error, filePath string) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &ParseError{
		FilePath: filePath,
		Message:  err.Error(),
		Cause:    err,
	}
}
