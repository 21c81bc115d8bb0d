// Package watcher rebuilds the lexical index when note files change on
// disk outside the server, for example when a user edits a note file
// directly. Events are debounced so a burst of writes triggers one
// rebuild.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required after the last
// filesystem event before a rebuild fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes the notes base directory and its project
// subdirectories and invokes a rebuild callback after changes settle.
type Watcher struct {
	baseDir  string
	debounce time.Duration
	rebuild  func(context.Context) error
	logger   *log.Logger
}

// New creates a watcher over baseDir. rebuild is called after each
// debounced burst of changes; its errors are logged, not fatal, since
// the next change will retry. A non-positive debounce uses
// DefaultDebounce.
func New(baseDir string, debounce time.Duration, rebuild func(context.Context) error, logger *log.Logger) (*Watcher, error) {
	if rebuild == nil {
		return nil, fmt.Errorf("rebuild callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Watcher{
		baseDir:  baseDir,
		debounce: debounce,
		rebuild:  rebuild,
		logger:   logger,
	}, nil
}

// Run watches until ctx is canceled. It returns nil on cancellation
// and an error only if the watch cannot be established or the
// underlying watcher dies.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.baseDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.baseDir, err)
	}
	// Projects are one level of subdirectories under the base.
	entries, err := os.ReadDir(w.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read base directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := fsw.Add(filepath.Join(w.baseDir, e.Name())); err != nil {
				w.logger.Warn("failed to watch project directory", "dir", e.Name(), "error", err)
			}
		}
	}

	w.logger.Info("watching for external note changes", "dir", w.baseDir, "debounce", w.debounce)

	// The timer starts stopped; relevant events reset it, and only its
	// expiry triggers a rebuild.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(fsw, event) {
				continue
			}
			w.logger.Debug("note change detected", "op", event.Op.String(), "path", event.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("rebuild after file change failed", "error", err)
			} else {
				w.logger.Debug("index rebuilt after file change")
			}

		case werr, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", werr)
		}
	}
}

// relevant reports whether an event should schedule a rebuild, and
// registers newly created project directories along the way.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	// A new entry directly under the base dir is a project directory;
	// start watching it. Its contents still count as changes.
	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(w.baseDir) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fsw.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new project directory", "dir", base, "error", err)
			}
			return true
		}
	}

	if !strings.HasSuffix(base, ".md") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
