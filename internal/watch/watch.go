// Package watch reports when a normalized file disappears from disk.
//
// The front ends use it to drop a handle whose file was deleted or moved
// by another program, so the UI never offers a path that no longer exists.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by Wait after Close.
var ErrClosed = errors.New("watcher closed")

// Watcher observes a single file through its parent directory.
//
// Watching the directory rather than the file keeps working on platforms
// where a removed file silently drops its own watch.
type Watcher struct {
	target  string
	fs      *fsnotify.Watcher
	done    chan struct{}
	closeMu sync.Once
}

// New starts watching target.
func New(target string) (*Watcher, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		target: abs,
		fs:     fw,
		done:   make(chan struct{}),
	}, nil
}

// Target returns the watched path.
func (w *Watcher) Target() string {
	return w.target
}

// Wait blocks until the target is removed or renamed away.
//
// It returns nil on removal, ErrClosed after Close and the context error
// when ctx ends first.
func (w *Watcher) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return ErrClosed
		case event, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				return nil
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			return fmt.Errorf("watch %s: %w", w.target, err)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeMu.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
