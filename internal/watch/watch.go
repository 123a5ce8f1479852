// Package watch reports changes to files in the scratch tree, batched after
// a quiet period, so the container can be repacked while levels are edited
// with other tools.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher follows a directory tree.
type Watcher struct {
	fs       *fsnotify.Watcher
	patterns []string
	debounce time.Duration
	closeCh  chan struct{}
	once     sync.Once
}

// New watches root and every directory below it. Only files whose base
// name matches one of patterns are reported; no patterns match everything.
func New(root string, patterns []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fw,
		patterns: patterns,
		debounce: debounce,
		closeCh:  make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// Close stops the watcher. Run returns once it notices.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

// Match reports whether path is a file the watcher reports.
func (w *Watcher) Match(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if len(w.patterns) == 0 {
		return true
	}
	for _, p := range w.patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

// Run delivers changed paths to onChange, sorted and deduplicated, once no
// further change arrived for the debounce period. Watcher errors go to
// onError when it is not nil. Run blocks until ctx is done or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string), onError func(error)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.addTree(event.Name); err != nil && onError != nil {
						onError(err)
					}
					continue
				}
			}
			if !w.Match(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			onChange(paths)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		case <-w.closeCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
