// Package watcher reports content changes of a single input file.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// DefaultDebounce collapses the bursts of events editors and exporters emit
// for one save.
const DefaultDebounce = 200 * time.Millisecond

// FileEvent is emitted once per settled content change.
type FileEvent struct {
	Path        string
	Operation   string
	Fingerprint string
}

// FileWatcher watches the directory of path so that replace-by-rename saves
// are seen too, and filters events down to path itself.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	events   chan FileEvent

	last      string
	closeOnce sync.Once
	done      chan struct{}
}

// NewFileWatcher starts watching path. A debounce of 0 uses DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		events:   make(chan FileEvent, 16),
		done:     make(chan struct{}),
	}
	// changes are reported relative to the content at start
	fw.last, _, _ = util.FileFingerprint(abs)

	go fw.processEvents()
	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)

	var (
		timer    *time.Timer
		fire     <-chan time.Time
		lastOp   fsnotify.Op
		relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename
	)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path || !event.Op.Has(relevant) {
				continue
			}
			lastOp = event.Op
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fingerprint, _, err := util.FileFingerprint(fw.path)
			if err != nil {
				util.LogDebugf("Watched file %s not readable yet: %v", fw.path, err)
				continue
			}
			if fingerprint == fw.last {
				continue
			}
			fw.last = fingerprint
			select {
			case fw.events <- FileEvent{Path: fw.path, Operation: lastOp.String(), Fingerprint: fingerprint}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())

		case <-fw.done:
			return
		}
	}
}

// Events delivers settled changes; it is closed after Close.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

// Run calls fn for every change until ctx is done or the watcher closes. fn
// runs sequentially; its errors are logged and watching continues.
func Run(ctx context.Context, fw *FileWatcher, fn func(FileEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events():
			if !ok {
				return nil
			}
			util.LogInfof("%s changed (%s)", event.Path, event.Operation)
			if err := fn(event); err != nil {
				util.LogErrorf("Processing %s failed: %v", event.Path, err)
			}
		}
	}
}
