// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config provides formatter options and their loading.
//
// Options are layered: the embedded defaults, then a project file
// (.aleutianfmt.yaml), then ALEUTIANFMT_* environment variables, then
// explicit overrides from the caller (CLI flags, request bodies). The
// result is validated before use.
//
// Thread Safety:
//
//	Options is a plain value. All exported functions are safe for
//	concurrent use.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Indentation and quoting choices.
const (
	IndentTab   = "tab"
	IndentSpace = "space"

	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"

	QuoteDouble = "double"
	QuoteSingle = "single"

	TrailingCommaAll  = "all"
	TrailingCommaES5  = "es5"
	TrailingCommaNone = "none"
)

// ErrInvalidOptions indicates options that failed validation.
var ErrInvalidOptions = errors.New("invalid formatter options")

// Options controls formatting output.
//
// # Fields
//
//   - IndentStyle: "tab" or "space".
//   - IndentWidth: Columns per indentation level (1-16). Also the width of
//     a tab when measuring lines.
//   - LineWidth: Target maximum line width (20-320).
//   - LineEnding: "lf" or "crlf".
//   - QuoteStyle: Preferred quote for string literals, "double" or
//     "single". Strings whose content contains quotes or escapes keep
//     their original quotes.
//   - TrailingComma: "all", "es5" or "none"; applies to lists that break
//     across lines.
//   - BracketSpacing: Print `{ a }` rather than `{a}` in objects, imports
//     and exports.
//   - VerifyIdempotent: Re-format the output and fail when it changes.
//   - SkipOnSyntaxError: Refuse to format files with syntax errors
//     instead of keeping erroneous statements verbatim.
//   - MaxFileSize: Largest accepted source in bytes.
type Options struct {
	IndentStyle       string `yaml:"indent_style" json:"indent_style" envconfig:"INDENT_STYLE" validate:"oneof=tab space"`
	IndentWidth       int    `yaml:"indent_width" json:"indent_width" envconfig:"INDENT_WIDTH" validate:"min=1,max=16"`
	LineWidth         int    `yaml:"line_width" json:"line_width" envconfig:"LINE_WIDTH" validate:"min=20,max=320"`
	LineEnding        string `yaml:"line_ending" json:"line_ending" envconfig:"LINE_ENDING" validate:"oneof=lf crlf"`
	QuoteStyle        string `yaml:"quote_style" json:"quote_style" envconfig:"QUOTE_STYLE" validate:"oneof=double single"`
	TrailingComma     string `yaml:"trailing_comma" json:"trailing_comma" envconfig:"TRAILING_COMMA" validate:"oneof=all es5 none"`
	BracketSpacing    bool   `yaml:"bracket_spacing" json:"bracket_spacing" envconfig:"BRACKET_SPACING"`
	VerifyIdempotent  bool   `yaml:"verify_idempotent" json:"verify_idempotent" envconfig:"VERIFY_IDEMPOTENT"`
	SkipOnSyntaxError bool   `yaml:"skip_on_syntax_error" json:"skip_on_syntax_error" envconfig:"SKIP_ON_SYNTAX_ERROR"`
	MaxFileSize       int    `yaml:"max_file_size" json:"max_file_size" envconfig:"MAX_FILE_SIZE" validate:"min=1"`
}

// Overrides holds optional per-field replacements, e.g. from CLI flags or
// an HTTP request. Nil fields are left unchanged.
type Overrides struct {
	IndentStyle       *string `json:"indent_style,omitempty"`
	IndentWidth       *int    `json:"indent_width,omitempty"`
	LineWidth         *int    `json:"line_width,omitempty"`
	LineEnding        *string `json:"line_ending,omitempty"`
	QuoteStyle        *string `json:"quote_style,omitempty"`
	TrailingComma     *string `json:"trailing_comma,omitempty"`
	BracketSpacing    *bool   `json:"bracket_spacing,omitempty"`
	VerifyIdempotent  *bool   `json:"verify_idempotent,omitempty"`
	SkipOnSyntaxError *bool   `json:"skip_on_syntax_error,omitempty"`
}

// Apply returns o with every non-nil override applied.
func (o Options) Apply(ov Overrides) Options {
	if ov.IndentStyle != nil {
		o.IndentStyle = strings.ToLower(*ov.IndentStyle)
	}
	if ov.IndentWidth != nil {
		o.IndentWidth = *ov.IndentWidth
	}
	if ov.LineWidth != nil {
		o.LineWidth = *ov.LineWidth
	}
	if ov.LineEnding != nil {
		o.LineEnding = strings.ToLower(*ov.LineEnding)
	}
	if ov.QuoteStyle != nil {
		o.QuoteStyle = strings.ToLower(*ov.QuoteStyle)
	}
	if ov.TrailingComma != nil {
		o.TrailingComma = strings.ToLower(*ov.TrailingComma)
	}
	if ov.BracketSpacing != nil {
		o.BracketSpacing = *ov.BracketSpacing
	}
	if ov.VerifyIdempotent != nil {
		o.VerifyIdempotent = *ov.VerifyIdempotent
	}
	if ov.SkipOnSyntaxError != nil {
		o.SkipOnSyntaxError = *ov.SkipOnSyntaxError
	}
	return o
}

// ValidationError describes the first invalid field.
type ValidationError struct {
	Field string
	Rule  string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%v fails %q", ErrInvalidOptions, e.Field, e.Value, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOptions
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks every field against its allowed range.
func (o Options) Validate() error {
	err := optionsValidator().Struct(o)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Value()}
	}
	return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
}

// UseTabs reports whether indentation uses tab characters.
func (o Options) UseTabs() bool { return o.IndentStyle == IndentTab }

// SingleQuote reports whether string literals prefer single quotes.
func (o Options) SingleQuote() bool { return o.QuoteStyle == QuoteSingle }

// Hash returns a stable digest of the options, used in cache keys.
func (o Options) Hash() string {
	data, err := yaml.Marshal(o)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", o))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Defaults returns the embedded default options.
func Defaults() Options {
	opts, err := parseOptions(defaultOptionsYAML, Options{})
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return opts
}

// parseOptions overlays the YAML document data onto base. Keys absent
// from the document keep their base values.
func parseOptions(data []byte, base Options) (Options, error) {
	opts := base
	if len(strings.TrimSpace(string(data))) == 0 {
		return opts, nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return base, fmt.Errorf("parsing options: %w", err)
	}
	return opts, nil
}
