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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(cfg RouterConfig) *gin.Engine {
	return NewRouter(NewService(DefaultServiceConfig()), cfg)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleFormat(t *testing.T) {
	router := newTestRouter(RouterConfig{})
	single := "single"

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
		want     string
	}{
		{
			name:     "formats",
			body:     FormatRequest{Source: "let   x='a'", FilePath: "a.js"},
			wantCode: http.StatusOK,
			want:     "let x = \"a\";\n",
		},
		{
			name: "option overrides",
			body: map[string]any{
				"source":  `x = "a"`,
				"options": map[string]any{"quote_style": single},
			},
			wantCode: http.StatusOK,
			want:     "x = 'a';\n",
		},
		{
			name:     "missing source",
			body:     map[string]any{"file_path": "a.js"},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "malformed json",
			body:     "{",
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_REQUEST",
		},
		{
			name:     "invalid options",
			body:     map[string]any{"source": "a;", "options": map[string]any{"line_width": 1}},
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_OPTIONS",
		},
		{
			name:     "unsupported language",
			body:     FormatRequest{Source: "a;", Language: "cobol"},
			wantCode: http.StatusBadRequest,
			wantErr:  "UNSUPPORTED_LANGUAGE",
		},
		{
			name: "syntax errors rejected",
			body: map[string]any{
				"source":  "foo(;",
				"options": map[string]any{"skip_on_syntax_error": true},
			},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "SYNTAX_ERRORS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/v1/format", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			if tt.wantErr != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantErr, resp.Code)
				assert.NotEmpty(t, resp.Error)
				return
			}
			var resp FormatResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Code)
			assert.True(t, resp.Changed)
			assert.Equal(t, "javascript", resp.Language)
		})
	}
}

func TestHandleFormat_BodyLimit(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.Options.MaxFileSize = 16
	router := NewRouter(NewService(cfg), RouterConfig{})

	tests := []struct {
		name   string
		source string
	}{
		{"body over limit", strings.Repeat("a", int(maxBodySize(16))+1)},
		{"source over limit", strings.Repeat("a", 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/v1/format", FormatRequest{Source: tt.source})
			require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "SOURCE_TOO_LARGE", resp.Code)
		})
	}

	w := doJSON(t, router, http.MethodPost, "/v1/format", FormatRequest{Source: "a;"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHandleFormat_RequestIDEchoed(t *testing.T) {
	router := newTestRouter(RouterConfig{})
	req := httptest.NewRequest(http.MethodPost, "/v1/format", strings.NewReader(`{"source":"a;"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestHandleCheck(t *testing.T) {
	router := newTestRouter(RouterConfig{})

	w := doJSON(t, router, http.MethodPost, "/v1/format/check", FormatRequest{Source: "let x = 1;\n"})
	require.Equal(t, http.StatusOK, w.Code)
	var ok CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Formatted)
	assert.Empty(t, ok.Diff)

	w = doJSON(t, router, http.MethodPost, "/v1/format/check", FormatRequest{Source: "let   x=1\n", FilePath: "src/a.js"})
	require.Equal(t, http.StatusOK, w.Code)
	var bad CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.False(t, bad.Formatted)
	assert.Contains(t, bad.Diff, "--- a/src/a.js")
	assert.Contains(t, bad.Diff, "+++ b/src/a.js")
	assert.Contains(t, bad.Diff, "-let   x=1")
	assert.Contains(t, bad.Diff, "+let x = 1;")
}

func TestHandleLanguagesAndHealth(t *testing.T) {
	router := newTestRouter(RouterConfig{})

	w := doJSON(t, router, http.MethodGet, "/v1/format/languages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var langs LanguagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &langs))
	assert.Equal(t, []string{"javascript", "tsx", "typescript"}, langs.Languages)
	assert.Contains(t, langs.Extensions, ".ts")

	w = doJSON(t, router, http.MethodGet, "/v1/format/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, ServiceVersion, health.Version)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(RouterConfig{RatePerSecond: 0.001, RateBurst: 2})

	for range 2 {
		w := doJSON(t, router, http.MethodGet, "/v1/format/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(t, router, http.MethodGet, "/v1/format/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMITED", resp.Code)
}

func TestClientLimiters_SweepsIdleClients(t *testing.T) {
	l := newClientLimiters(1, 1)
	now := l.now()
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))
	assert.Len(t, l.clients, 2)

	now = now.Add(10 * time.Minute)
	assert.True(t, l.allow("c"))
	assert.Len(t, l.clients, 1)
}

func TestNewRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	router := newTestRouter(RouterConfig{Metrics: metrics})

	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
}
