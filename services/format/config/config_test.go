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
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	opts := Defaults()
	assert.Equal(t, IndentSpace, opts.IndentStyle)
	assert.Equal(t, 2, opts.IndentWidth)
	assert.Equal(t, 80, opts.LineWidth)
	assert.Equal(t, LineEndingLF, opts.LineEnding)
	assert.Equal(t, QuoteDouble, opts.QuoteStyle)
	assert.Equal(t, TrailingCommaAll, opts.TrailingComma)
	assert.True(t, opts.BracketSpacing)
	assert.NoError(t, opts.Validate())
}

func TestLoad_Layers(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := filepath.FromSlash("/repo")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "src", "deep"), 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(root, ".aleutianfmt.yaml"),
		[]byte("line_width: 100\nquote_style: single\n"), 0o644))

	width := 120
	loaded, err := Load(context.Background(), LoadOptions{
		Fs:       fs,
		StartDir: filepath.Join(root, "src", "deep"),
		Lookup:   envMap(map[string]string{"ALEUTIANFMT_INDENT_STYLE": "tab"}),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".aleutianfmt.yaml"), loaded.Source)
	assert.Equal(t, 100, loaded.Options.LineWidth)
	assert.Equal(t, QuoteSingle, loaded.Options.QuoteStyle)
	assert.Equal(t, IndentTab, loaded.Options.IndentStyle)
	assert.Equal(t, 2, loaded.Options.IndentWidth, "unset keys keep defaults")

	loaded, err = Load(context.Background(), LoadOptions{
		Fs:        fs,
		StartDir:  root,
		Lookup:    noEnv,
		Overrides: Overrides{LineWidth: &width},
	})
	require.NoError(t, err)
	assert.Equal(t, 120, loaded.Options.LineWidth)
}

func TestLoad_NoProjectFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0o755))
	loaded, err := Load(context.Background(), LoadOptions{Fs: fs, StartDir: "/empty", Lookup: noEnv})
	require.NoError(t, err)
	assert.Empty(t, loaded.Source)
	assert.Equal(t, Defaults(), loaded.Options)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad/.aleutianfmt.yaml", []byte("line_width: 5\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/unknown/.aleutianfmt.yaml", []byte("colour: blue\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/big/.aleutianfmt.yaml",
		[]byte("# "+strings.Repeat("x", MaxConfigFileSize)+"\n"), 0o644))

	tests := []struct {
		name   string
		lo     LoadOptions
		target error
	}{
		{"out of range", LoadOptions{Fs: fs, StartDir: "/bad", Lookup: noEnv}, ErrInvalidOptions},
		{"too large", LoadOptions{Fs: fs, StartDir: "/big", Lookup: noEnv}, ErrConfigTooLarge},
		{"bad env", LoadOptions{Fs: fs, StartDir: "/", Lookup: envMap(map[string]string{
			"ALEUTIANFMT_QUOTE_STYLE": "backtick",
		})}, ErrInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.lo)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())
		})
	}

	_, err := Load(context.Background(), LoadOptions{Fs: fs, StartDir: "/unknown", Lookup: noEnv})
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(context.Background(), LoadOptions{Fs: fs, ConfigPath: "/missing.yaml", Lookup: noEnv})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	opts := Defaults()
	opts.IndentWidth = 0
	err := opts.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "IndentWidth", verr.Field)
	assert.Equal(t, "min", verr.Rule)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestApply(t *testing.T) {
	style := "TAB"
	spacing := false
	got := Defaults().Apply(Overrides{IndentStyle: &style, BracketSpacing: &spacing})
	assert.Equal(t, IndentTab, got.IndentStyle)
	assert.False(t, got.BracketSpacing)
	assert.True(t, got.UseTabs())
	assert.Equal(t, Defaults().LineWidth, got.LineWidth)
}

func TestHash(t *testing.T) {
	a, b := Defaults(), Defaults()
	assert.Equal(t, a.Hash(), b.Hash())
	b.LineWidth = 81
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Len(t, a.Hash(), 16)
}
