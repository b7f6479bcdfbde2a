package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changed source files in bursts: changes that come closer
// together than the debounce interval are delivered in one call.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
}

// NewWatcher watches the given files and directories. Directories are
// watched recursively, hidden ones excluded.
func NewWatcher(paths []string, extensions []string, debounce time.Duration) (*Watcher, error) {
	var fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	var w = &Watcher{
		watcher:    fsWatcher,
		extensions: extensions,
		debounce:   debounce,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, path := range paths {
		var info, err = os.Stat(path)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if !info.IsDir() {
			// editors often replace files, so the parent is watched instead
			path = filepath.Dir(path)
		}
		if err := w.watchDirRecursive(path); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) SetLogger(logger *slog.Logger) {
	w.logger = logger
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		w.logger.Debug("watching", "dir", path)
		return w.watcher.Add(path)
	})
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	for _, ext := range w.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Run calls fn with the sorted paths changed during each burst, until ctx is
// done or the watcher is closed. fn runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(paths []string)) error {
	var pending = make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchDirRecursive(event.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "dir", event.Name, "err", err)
					}
					continue
				}
			}
			if !w.matches(event.Name) {
				continue
			}

			pending[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			var paths = make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			timer, fire = nil, nil

			w.logger.Debug("files changed", "paths", paths)
			fn(paths)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}
