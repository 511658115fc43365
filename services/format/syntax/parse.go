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
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultMaxFileSize is the largest input Parse accepts (10 MiB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the size above which Parse logs a warning (1 MiB).
	WarnFileSize = 1 * 1024 * 1024
)

// ParseOption configures a Parse call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	filePath    string
	maxFileSize int
}

// WithFilePath sets the path used in errors, logs and spans.
func WithFilePath(path string) ParseOption {
	return func(c *parseConfig) {
		c.filePath = path
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize. Values <= 0 are ignored.
func WithMaxFileSize(bytes int) ParseOption {
	return func(c *parseConfig) {
		if bytes > 0 {
			c.maxFileSize = bytes
		}
	}
}

// Parse parses source with tree-sitter and lowers the result into a CST.
//
// Description:
//
//	The tree-sitter parse is error tolerant. ERROR nodes lower into
//	KindError nodes; MISSING leaves carry no text and only produce a
//	diagnostic. The returned tree is lossless (root.Text() equals
//	the input) and every production with a many-child field carries a
//	KindList child, even when the list is empty or the input is broken.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//   - content: Source bytes. Must be non-nil valid UTF-8.
//   - lang: Grammar to use.
//   - opts: Optional file path and size limit.
//
// Outputs:
//   - *Tree: The lowered tree. Never nil on success.
//   - error: ErrInvalidContent, ErrFileTooLarge, ErrUnsupportedLanguage,
//     a *ParseError wrapping ErrParseFailed, or a context error.
//
// Example:
//
//	tree, err := syntax.Parse(ctx, []byte("continue;"), syntax.JavaScript)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(tree.Root().Kind()) // PROGRAM
//
// Thread Safety:
//
//	Parse is safe for concurrent use; each call owns its tree-sitter parser.
func Parse(ctx context.Context, content []byte, lang Language, opts ...ParseOption) (*Tree, error) {
	cfg := parseConfig{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	grammar := lang.grammar()
	if grammar == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: nil content", ErrInvalidContent)
	}
	if len(content) > cfg.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), cfg.maxFileSize)
	}
	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", cfg.filePath),
			slog.Int("size_bytes", len(content)))
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	ctx, span := startParseSpan(ctx, lang, cfg.filePath, len(content))
	defer span.End()
	start := time.Now()

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tsTree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tree-sitter parse failed")
		recordParseMetrics(ctx, lang, time.Since(start), 0, false)
		return nil, &ParseError{
			FilePath: cfg.filePath,
			Message:  "tree-sitter parse failed",
			Cause:    fmt.Errorf("%w: %v", ErrParseFailed, err),
		}
	}
	defer tsTree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tsTree.RootNode()
	if root == nil {
		recordParseMetrics(ctx, lang, time.Since(start), 0, false)
		return nil, &ParseError{FilePath: cfg.filePath, Message: "tree-sitter returned nil root node", Cause: ErrParseFailed}
	}

	l := newLowerer(content)
	built, err := l.lowerRoot(root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lowering failed")
		recordParseMetrics(ctx, lang, time.Since(start), 0, false)
		return nil, &ParseError{FilePath: cfg.filePath, Message: "lowering failed", Cause: fmt.Errorf("%w: %v", ErrParseFailed, err)}
	}

	tree := &Tree{
		root:        built,
		source:      string(content),
		language:    lang,
		diagnostics: l.diagnostics,
	}

	span.SetAttributes(attribute.Int("syntax.diagnostic_count", len(l.diagnostics)))
	recordParseMetrics(ctx, lang, time.Since(start), len(l.diagnostics), true)
	return tree, nil
}

// lowerer converts a tree-sitter tree into the CST.
//
// Leaves become tokens (named leaves are wrapped in a node of their own
// kind), byte gaps between leaves become whitespace trivia, and list
// productions get a KindList child.
type lowerer struct {
	src         []byte
	b           *Builder
	pos         int
	lineStarts  []int
	diagnostics []Diagnostic
}

func newLowerer(src []byte) *lowerer {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lowerer{src: src, b: NewBuilder(), lineStarts: starts}
}

func (l *lowerer) lowerRoot(root *sitter.Node) (*Node, error) {
	l.b.StartNode(KindProgram)
	l.children(root, KindProgram)
	l.gap(len(l.src))
	l.b.FinishNode()
	return l.b.Finish()
}

func (l *lowerer) node(n *sitter.Node) {
	start, end := int(n.StartByte()), int(n.EndByte())
	typ := n.Type()

	if n.IsMissing() {
		l.diagnose(start, fmt.Sprintf("missing %s", typ), SeverityError)
		return
	}
	if end <= start || end <= l.pos {
		return
	}
	if typ == tsNodeComment {
		l.leafToken(KindComment, start, end)
		return
	}
	if n.ChildCount() == 0 {
		l.leaf(n, typ, start, end)
		return
	}

	kind := KindUnknownNode
	if n.IsNamed() {
		if k, ok := namedKinds[typ]; ok {
			kind = k
		}
	}
	if kind == KindError {
		l.diagnose(start, "syntax error", SeverityError)
	}

	l.gap(start)
	l.b.startNode(kind, grammarName(kind, typ))
	l.children(n, kind)
	l.gap(end)
	l.b.FinishNode()
}

func (l *lowerer) leaf(n *sitter.Node, typ string, start, end int) {
	if !n.IsNamed() {
		kind, ok := anonymousKinds[typ]
		if !ok {
			kind = KindUnknownToken
		}
		l.leafToken(kind, start, end)
		return
	}

	kind, ok := namedKinds[typ]
	if !ok {
		kind = KindUnknownNode
	}
	tokKind, ok := leafTokenKinds[kind]
	if !ok {
		tokKind = KindUnknownToken
	}
	if kind == KindError {
		l.diagnose(start, "unexpected input", SeverityError)
	}

	l.gap(start)
	l.b.startNode(kind, grammarName(kind, typ))
	l.leafToken(tokKind, start, end)
	l.b.FinishNode()
}

func (l *lowerer) leafToken(kind Kind, start, end int) {
	l.gap(start)
	if start < l.pos {
		start = l.pos
	}
	if end <= start {
		return
	}
	l.b.Token(kind, string(l.src[start:end]))
	l.pos = end
}

// children lowers the children of n, wrapping the list span of list
// productions in a KindList node.
func (l *lowerer) children(n *sitter.Node, kind Kind) {
	count := int(n.ChildCount())
	kids := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if child := n.Child(i); child != nil {
			kids = append(kids, child)
		}
	}

	spec, ok := listSpecs[kind]
	if !ok {
		for _, child := range kids {
			l.node(child)
		}
		return
	}

	start, end := listBounds(kids, spec)
	for _, child := range kids[:start] {
		l.node(child)
	}
	l.b.StartNode(KindList)
	for _, child := range kids[start:end] {
		l.node(child)
	}
	l.b.FinishNode()
	for _, child := range kids[end:] {
		l.node(child)
	}
}

// listBounds returns the [start, end) child span of a list. The list
// starts after the first open delimiter and ends at the last close
// delimiter; missing delimiters extend it to the edges.
func listBounds(kids []*sitter.Node, spec listSpec) (int, int) {
	start := 0
	if spec.open != nil {
		for i, child := range kids {
			if anonymousMatch(child, spec.open) {
				start = i + 1
				break
			}
		}
	}
	end := len(kids)
	if spec.close != nil {
		for i := len(kids) - 1; i >= start; i-- {
			if anonymousMatch(kids[i], spec.close) {
				end = i
				break
			}
		}
	}
	return start, end
}

func anonymousMatch(n *sitter.Node, match func(Kind) bool) bool {
	if n.IsNamed() || n.IsMissing() || n.ChildCount() != 0 {
		return false
	}
	kind, ok := anonymousKinds[n.Type()]
	return ok && match(kind)
}

// gap emits the source between the cursor and until as trivia. Runs of
// non-whitespace (text hidden by the grammar) become unknown tokens.
func (l *lowerer) gap(until int) {
	if until > len(l.src) {
		until = len(l.src)
	}
	if until <= l.pos {
		return
	}
	text := l.src[l.pos:until]
	for len(text) > 0 {
		space := isTriviaSpace(text)
		i := 0
		for i < len(text) {
			r, size := utf8.DecodeRune(text[i:])
			if isSpaceRune(r) != space {
				break
			}
			i += size
		}
		kind := KindWhitespace
		if !space {
			kind = KindUnknownToken
		}
		l.b.Token(kind, string(text[:i]))
		text = text[i:]
	}
	l.pos = until
}

func isTriviaSpace(text []byte) bool {
	r, _ := utf8.DecodeRune(text)
	return isSpaceRune(r)
}

func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func (l *lowerer) diagnose(offset int, message string, severity Severity) {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Range:    TextRange{Start: offset, End: offset},
		Line:     line,
		Column:   offset - l.lineStarts[line-1] + 1,
		Message:  message,
		Severity: severity,
	})
}

func grammarName(kind Kind, typ string) string {
	if kind == KindUnknownNode || kind == KindError {
		return typ
	}
	return ""
}
