// Package watcher reloads skill tree sources when files below the source
// root change.
package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a source tree for changes to files matching the include
// patterns
type Watcher struct {
	root     string
	patterns []string
	onChange func()
	debounce time.Duration
}

// New creates a new source watcher
func New(root string, patterns []string, onChange func()) *Watcher {
	return &Watcher{
		root:     root,
		patterns: patterns,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Matches reports whether a path relative to the root is a source file
func (w *Watcher) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Watch starts watching the source tree. Every directory below the root is
// watched so editors that replace files are seen. It blocks until the
// context is cancelled or an error occurs.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}

	log.Printf("watcher: watching %s for %v", w.root, w.patterns)

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						log.Printf("watcher: failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}

			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil || !w.Matches(rel) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				// Debounce rapid changes
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				name := rel
				debounceTimer = time.AfterFunc(w.debounce, func() {
					log.Printf("watcher: source changed: %s", name)
					w.onChange()
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher: %v", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
