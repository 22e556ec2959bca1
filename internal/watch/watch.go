// Package watch reports batches of changed decision logs below a
// directory.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc receives the sorted, root-relative paths that changed since
// the previous call. A returned error is logged and does not stop the
// watcher.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher follows every directory below root. New directories are picked
// up as they appear.
type Watcher struct {
	root     string
	pattern  string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New starts watching root for files whose root-relative, slash-separated
// path matches pattern (doublestar syntax). Events are delivered by Run.
func New(root, pattern string, debounce time.Duration) (*Watcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("watch: invalid pattern %q", pattern)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{root: root, pattern: pattern, debounce: debounce, fsw: fsw}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("setting up watcher: %w", err)
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// matches reports whether path is a file the watcher cares about.
func (w *Watcher) matches(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	ok, _ := doublestar.Match(w.pattern, rel)
	return rel, ok
}

// Run delivers debounced batches to fn until ctx is cancelled, then closes
// the watcher. It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	defer w.fsw.Close()

	changed := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						slog.Warn("watch: add directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			rel, ok := w.matches(ev.Name)
			if !ok {
				continue
			}
			changed[rel] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			if len(changed) == 0 {
				continue
			}
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			changed = make(map[string]bool)

			slog.Debug("watch: change batch", "files", len(paths))
			if err := fn(ctx, paths); err != nil {
				slog.Warn("watch: change handler failed", "error", err)
			}
		}
	}
}
