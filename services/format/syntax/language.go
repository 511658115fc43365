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
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language selects the tree-sitter grammar used for parsing.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// grammar returns the tree-sitter language for l, or nil when unknown.
func (l Language) grammar() *sitter.Language {
	switch l {
	case JavaScript:
		return javascript.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return nil
	}
}

// LanguageRegistry resolves languages by name and file extension.
//
// Description:
//
//	The default registry knows JavaScript (.js .mjs .cjs .jsx),
//	TypeScript (.ts .mts .cts) and TSX (.tsx). Extensions are matched
//	case-insensitively and include the leading dot.
//
// Thread Safety:
//
//	LanguageRegistry is safe for concurrent use.
type LanguageRegistry struct {
	mu          sync.RWMutex
	byName      map[string]Language
	byExtension map[string]Language
}

// NewLanguageRegistry returns a registry with the built-in languages.
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		byName:      make(map[string]Language),
		byExtension: make(map[string]Language),
	}
	r.Register(JavaScript, ".js", ".mjs", ".cjs", ".jsx")
	r.Register(TypeScript, ".ts", ".mts", ".cts")
	r.Register(TSX, ".tsx")
	return r
}

// Register associates a language with file extensions. Later
// registrations of the same extension win.
func (r *LanguageRegistry) Register(lang Language, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[string(lang)] = lang
	for _, ext := range exts {
		r.byExtension[strings.ToLower(ext)] = lang
	}
}

// ByName returns the language registered under name.
func (r *LanguageRegistry) ByName(name string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.byName[strings.ToLower(name)]
	return lang, ok
}

// ByPath returns the language for a file path's extension.
func (r *LanguageRegistry) ByPath(path string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Languages returns the registered language names, sorted.
func (r *LanguageRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the registered extensions, sorted.
func (r *LanguageRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
