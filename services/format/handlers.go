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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianFmt/services/format/config"
	"github.com/AleutianAI/AleutianFmt/services/format/diff"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// Handlers contains the HTTP handlers for the format service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleFormat handles POST /v1/format.
//
// Description:
//
//	Formats the request source with the server defaults, overridden by
//	any options in the body.
//
// Request Body:
//
//	FormatRequest
//
// Response:
//
//	200 OK: FormatResponse
//	400 Bad Request: Invalid body, options or language
//	413 Request Entity Too Large: Source above max_file_size
//	422 Unprocessable Entity: Syntax errors with skip_on_syntax_error
//	500 Internal Server Error: Formatting failed
func (h *Handlers) HandleFormat(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With(slog.String("request_id", requestID), slog.String("handler", "HandleFormat"))

	req, ok := h.bind(c, logger)
	if !ok {
		return
	}
	res, err := h.svc.Format(c.Request.Context(), req)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	logger.Info("formatted",
		slog.String("language", string(res.Language)),
		slog.Bool("changed", res.Changed),
		slog.Bool("cached", res.Cached),
		slog.Int("verbatim", res.Verbatim))

	c.JSON(http.StatusOK, FormatResponse{
		Code:        res.Code,
		Changed:     res.Changed,
		Language:    string(res.Language),
		Verbatim:    res.Verbatim,
		Cached:      res.Cached,
		DurationMs:  float64(res.Duration.Microseconds()) / 1000,
		Diagnostics: res.Diagnostics,
	})
}

// HandleCheck handles POST /v1/format/check.
//
// Description:
//
//	Reports whether the source is already formatted, with a unified diff
//	when it is not.
//
// Response:
//
//	200 OK: CheckResponse
//	4xx/5xx: As HandleFormat
func (h *Handlers) HandleCheck(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With(slog.String("request_id", requestID), slog.String("handler", "HandleCheck"))

	req, ok := h.bind(c, logger)
	if !ok {
		return
	}
	res, err := h.svc.Format(c.Request.Context(), req)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	resp := CheckResponse{Formatted: !res.Changed, Language: string(res.Language)}
	if res.Changed {
		name := req.FilePath
		if name == "" {
			name = "input"
		}
		resp.Diff, err = diff.Unified(name, string(req.Source), res.Code, diff.DefaultContext)
		if err != nil {
			h.fail(c, logger, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /v1/format/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: ServiceVersion})
}

// HandleLanguages handles GET /v1/format/languages.
func (h *Handlers) HandleLanguages(c *gin.Context) {
	reg := h.svc.Registry()
	c.JSON(http.StatusOK, LanguagesResponse{
		Languages:  reg.Languages(),
		Extensions: reg.Extensions(),
	})
}

// bodyOverhead is the room a request body gets beyond its source: JSON
// framing, escapes and options.
const bodyOverhead = 64 << 10

// maxBodySize bounds a request body for sources of up to maxSource bytes.
// Escaping can double a source's size in JSON.
func maxBodySize(maxSource int) int64 {
	return 2*int64(maxSource) + bodyOverhead
}

func (h *Handlers) bind(c *gin.Context, logger *slog.Logger) (Request, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize(h.svc.Options().MaxFileSize))

	var body FormatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", slog.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "Request body too large",
				Code:  "SOURCE_TOO_LARGE",
			})
			return Request{}, false
		}
		logger.Warn("invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return Request{}, false
	}
	opts := h.svc.Options().Apply(body.Options)
	return Request{
		Source:   []byte(body.Source),
		FilePath: body.FilePath,
		Language: body.Language,
		Options:  &opts,
	}, true
}

func (h *Handlers) fail(c *gin.Context, logger *slog.Logger, err error) {
	status, code := http.StatusInternalServerError, "FORMAT_FAILED"
	var verr *config.ValidationError
	switch {
	case errors.Is(err, ErrEmptySource):
		status, code = http.StatusBadRequest, "EMPTY_SOURCE"
	case errors.As(err, &verr):
		status, code = http.StatusBadRequest, "INVALID_OPTIONS"
	case errors.Is(err, syntax.ErrUnsupportedLanguage):
		status, code = http.StatusBadRequest, "UNSUPPORTED_LANGUAGE"
	case errors.Is(err, syntax.ErrInvalidContent):
		status, code = http.StatusBadRequest, "INVALID_CONTENT"
	case errors.Is(err, syntax.ErrFileTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "SOURCE_TOO_LARGE"
	case errors.Is(err, ErrSyntaxErrors):
		status, code = http.StatusUnprocessableEntity, "SYNTAX_ERRORS"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	}
	if status >= http.StatusInternalServerError {
		logger.Error("format failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("format rejected", slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// getOrCreateRequestID returns the X-Request-ID header or a new UUID and
// echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
