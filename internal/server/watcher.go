package server

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs a rebuild callback whenever files under the source tree
// change. Rebuild failures are logged, not fatal; the next change tries
// again.
type Watcher struct {
	dir     string
	rebuild func(context.Context) error
}

// NewWatcher creates a Watcher over dir that invokes rebuild on change.
func NewWatcher(dir string, rebuild func(context.Context) error) *Watcher {
	return &Watcher{dir: dir, rebuild: rebuild}
}

// Run watches until ctx is canceled. Events are debounced so one save
// burst triggers one rebuild.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	// fsnotify does not recurse; watch every directory in the tree.
	err = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories need their own watch.
				_ = fsw.Add(event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		case <-fire:
			timer = nil
			if err := w.rebuild(ctx); err != nil {
				log.Printf("rebuild failed: %v", err)
			}
		}
	}
}
