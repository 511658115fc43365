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

import "errors"

// Sentinel errors for the format service.
var (
	// ErrEmptySource indicates a request without source text.
	ErrEmptySource = errors.New("source is empty")

	// ErrSyntaxErrors indicates the source has syntax errors and the
	// options ask to skip such files.
	ErrSyntaxErrors = errors.New("source has syntax errors")

	// ErrNotIdempotent indicates that formatting the output again changed
	// it. Only reported when idempotency verification is enabled.
	ErrNotIdempotent = errors.New("formatting is not idempotent")

	// ErrNoRule indicates the tree root could not be formatted at all.
	ErrNoRule = errors.New("no formatting rule for root")
)
