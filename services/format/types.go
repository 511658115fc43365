// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"time"

	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// Request is one formatting job.
type Request struct {
	// Source is the file content.
	Source []byte

	// FilePath is used for language detection and in errors. Optional.
	FilePath string

	// Language overrides detection ("javascript", "typescript", "tsx").
	Language string

	// Options overrides the service defaults when non-nil.
	Options *config.Options
}

// Result is the outcome of a formatting job.
type Result struct {
	// Code is the formatted text.
	Code string

	// Changed reports whether Code differs from the source.
	Changed bool

	// Language is the grammar that was used.
	Language syntax.Language

	// Diagnostics lists recovered syntax errors. Empty for cached results.
	Diagnostics []syntax.Diagnostic

	// Verbatim counts list items that were kept as written.
	Verbatim int

	// Duration is the wall time of the call.
	Duration time.Duration

	// Cached reports a cache hit.
	Cached bool
}

// =============================================================================
// HTTP
// =============================================================================

// FormatRequest is the body of POST /v1/format and /v1/format/check.
type FormatRequest struct {
	// Source is the text to format.
	Source string `json:"source" binding:"required"`

	// FilePath selects the language by extension.
	FilePath string `json:"file_path,omitempty"`

	// Language overrides detection.
	Language string `json:"language,omitempty"`

	// Options overrides individual server defaults.
	Options config.Overrides `json:"options"`
}

// FormatResponse is returned by POST /v1/format.
type FormatResponse struct {
	Code        string              `json:"code"`
	Changed     bool                `json:"changed"`
	Language    string              `json:"language"`
	Verbatim    int                 `json:"verbatim"`
	Cached      bool                `json:"cached"`
	DurationMs  float64             `json:"duration_ms"`
	Diagnostics []syntax.Diagnostic `json:"diagnostics,omitempty"`
}

// CheckResponse is returned by POST /v1/format/check.
type CheckResponse struct {
	Formatted bool   `json:"formatted"`
	Language  string `json:"language"`
	Diff      string `json:"diff,omitempty"`
}

// LanguagesResponse is returned by GET /v1/format/languages.
type LanguagesResponse struct {
	Languages  []string `json:"languages"`
	Extensions []string `json:"extensions"`
}

// HealthResponse is returned by GET /v1/format/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`
}
