// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch reports saved source files under a directory tree, in
// debounced batches, for format-on-save.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Handler receives the distinct paths written or created since the last
// batch, sorted. It runs on the watcher's goroutine; batches never overlap.
type Handler func(ctx context.Context, paths []string)

// DefaultIgnore lists directory names that are never watched.
var DefaultIgnore = []string{".git", "node_modules", "dist", "build", ".idea", ".cache"}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the tree must be quiet before a batch is
// delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithIgnore replaces the ignored directory names.
func WithIgnore(names ...string) Option {
	return func(w *Watcher) { w.ignore = names }
}

// WithFilter restricts reported files to those accept returns true for.
func WithFilter(accept func(path string) bool) Option {
	return func(w *Watcher) { w.accept = accept }
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher watches a directory tree recursively.
//
// # Description
//
// Create and write events for accepted files are collected; once no
// event has arrived for the debounce window the distinct paths are
// handed to the handler. Directories created while watching are added.
// Editors that save by rename-over produce a create for the final path,
// which is reported like a write.
//
// # Thread Safety
//
// Start and Stop are safe to call from any goroutine. Stop waits for the
// handler to return.
type Watcher struct {
	root     string
	handler  Handler
	debounce time.Duration
	ignore   []string
	accept   func(string) bool
	logger   *slog.Logger

	fsw      *fsnotify.Watcher
	paths    chan string
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// New creates a watcher for root. Nothing is watched until Start.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s: not a directory", root)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		handler:  handler,
		debounce: 150 * time.Millisecond,
		ignore:   DefaultIgnore,
		accept:   func(string) bool { return true },
		logger:   slog.Default(),
		fsw:      fsw,
		paths:    make(chan string, 256),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start adds the tree to the watch list and begins delivering batches.
// Watching ends when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.started = true

	w.wg.Add(2)
	go w.readEvents(ctx)
	go w.deliver(ctx)
	return nil
}

// Stop ends watching and waits for the goroutines to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) ignored(name string) bool {
	for _, ig := range w.ignore {
		if name == ig {
			return true
		}
	}
	return false
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) readEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) && !w.ignored(filepath.Base(ev.Name)) {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("watch new directory", slog.String("path", ev.Name), slog.String("error", err.Error()))
			}
		}
		return
	}
	if !w.accept(ev.Name) {
		return
	}
	select {
	case w.paths <- ev.Name:
	default:
		w.logger.Warn("watch queue full, dropping event", slog.String("path", ev.Name))
	}
}

func (w *Watcher) deliver(ctx context.Context) {
	defer w.wg.Done()
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		sort.Strings(batch)
		clear(pending)
		w.handler(ctx, batch)
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.done:
			timer.Stop()
			return
		case p := <-w.paths:
			pending[p] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			flush()
		}
	}
}
