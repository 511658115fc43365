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
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianFmt/services/format/cache"
	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/storage/badger"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

func newCachedService(t *testing.T) (*Service, *cache.Cache) {
	t.Helper()
	store, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	c := cache.New(store)
	return NewService(DefaultServiceConfig(), WithCache(c)), c
}

func TestService_Format(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	ctx := context.Background()

	tests := []struct {
		name     string
		req      Request
		want     string
		lang     syntax.Language
		changed  bool
		verbatim int
	}{
		{
			name:    "javascript",
			req:     Request{Source: []byte("let   x=1"), FilePath: "a.js"},
			want:    "let x = 1;\n",
			lang:    syntax.JavaScript,
			changed: true,
		},
		{
			name: "already formatted",
			req:  Request{Source: []byte("let x = 1;\n")},
			want: "let x = 1;\n",
			lang: syntax.JavaScript,
		},
		{
			name:     "typescript by extension",
			req:      Request{Source: []byte("let x: number = 1;\nfoo( a );\n"), FilePath: "a.ts"},
			want:     "let x: number = 1;\nfoo(a);\n",
			lang:     syntax.TypeScript,
			changed:  true,
			verbatim: 1,
		},
		{
			name:    "explicit language wins",
			req:     Request{Source: []byte("foo( a )"), FilePath: "a.ts", Language: "javascript"},
			want:    "foo(a);\n",
			lang:    syntax.JavaScript,
			changed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Format(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Code)
			assert.Equal(t, tt.lang, res.Language)
			assert.Equal(t, tt.changed, res.Changed)
			assert.Equal(t, tt.verbatim, res.Verbatim)
			assert.False(t, res.Cached)
		})
	}
}

func TestService_FormatOptions(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	opts := config.Defaults()
	opts.QuoteStyle = config.QuoteSingle
	opts.IndentStyle = config.IndentTab

	res, err := svc.Format(context.Background(), Request{
		Source:  []byte(`if (a) { x = "b" }`),
		Options: &opts,
	})
	require.NoError(t, err)
	assert.Equal(t, "if (a) {\n\tx = 'b';\n}\n", res.Code)
}

func TestService_FormatErrors(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	ctx := context.Background()

	_, err := svc.Format(ctx, Request{})
	assert.True(t, errors.Is(err, ErrEmptySource))

	bad := config.Defaults()
	bad.IndentWidth = 0
	_, err = svc.Format(ctx, Request{Source: []byte("a;"), Options: &bad})
	assert.True(t, errors.Is(err, config.ErrInvalidOptions))

	_, err = svc.Format(ctx, Request{Source: []byte("a;"), Language: "cobol"})
	assert.True(t, errors.Is(err, syntax.ErrUnsupportedLanguage))

	small := config.Defaults()
	small.MaxFileSize = 4
	_, err = svc.Format(ctx, Request{Source: []byte(strings.Repeat("a;", 10)), Options: &small})
	assert.True(t, errors.Is(err, syntax.ErrFileTooLarge))

	strict := config.Defaults()
	strict.SkipOnSyntaxError = true
	_, err = svc.Format(ctx, Request{Source: []byte("function broken( { let = ; }"), Options: &strict})
	assert.True(t, errors.Is(err, ErrSyntaxErrors))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Format(canceled, Request{Source: []byte("a;")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestService_FormatSyntaxErrorsKeepText(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	src := "foo(;\nbar( 1 );\n"

	res, err := svc.Format(context.Background(), Request{Source: []byte(src)})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, strings.Join(strings.Fields(src), ""), strings.Join(strings.Fields(res.Code), ""))
}

func TestService_VerifyIdempotent(t *testing.T) {
	svc := NewService(DefaultServiceConfig())
	opts := config.Defaults()
	opts.VerifyIdempotent = true

	res, err := svc.Format(context.Background(), Request{
		Source:  []byte("class A extends B{static x=1;get y(){return [1,2,3]}}"),
		Options: &opts,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
}

func TestService_Cache(t *testing.T) {
	svc, c := newCachedService(t)
	ctx := context.Background()
	req := Request{Source: []byte("foo( a )"), FilePath: "a.js"}

	first, err := svc.Format(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Format(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Changed, second.Changed)
	assert.Empty(t, second.Diagnostics)

	opts := config.Defaults()
	opts.LineWidth = 40
	third, err := svc.Format(ctx, Request{Source: req.Source, FilePath: "a.js", Options: &opts})
	require.NoError(t, err)
	assert.False(t, third.Cached, "different options use a different key")

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_CacheSkipsFailures(t *testing.T) {
	svc, c := newCachedService(t)
	ctx := context.Background()
	strict := config.Defaults()
	strict.SkipOnSyntaxError = true

	for range 2 {
		_, err := svc.Format(ctx, Request{Source: []byte("foo(;"), Options: &strict})
		assert.True(t, errors.Is(err, ErrSyntaxErrors))
	}
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Language(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	tests := []struct {
		name, lang, path string
		want             syntax.Language
		wantErr          bool
	}{
		{"default", "", "", syntax.JavaScript, false},
		{"by extension", "", "x/y.tsx", syntax.TSX, false},
		{"unknown extension", "", "x/y.txt", syntax.JavaScript, false},
		{"by name", "TypeScript", "y.js", syntax.TypeScript, false},
		{"unknown name", "ruby", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Language(tt.lang, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Concurrent(t *testing.T) {
	svc, _ := newCachedService(t)
	ctx := context.Background()
	sources := []string{"a( 1 )", "b( 2 )", "let   x=1", "if(a){b()}"}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 40 {
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			_, err := svc.Format(ctx, Request{Source: []byte(src)})
			errs <- err
		}(sources[i%len(sources)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
