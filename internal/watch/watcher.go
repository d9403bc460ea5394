// Package watch observes the source tree and re-runs the build pipeline on
// filesystem changes. Event bursts are debounced into a single rebuild and
// rebuilds are serialized through one worker, so a new change can only be
// picked up after the in-flight build finishes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildFunc runs one full site rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher triggers rebuilds from filesystem events under a source tree.
type Watcher struct {
	srcDir      string
	quietWindow time.Duration
	rebuild     RebuildFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending chan struct{}
}

// New creates a Watcher over srcDir. quietWindow is how long the watcher
// waits after the last event before triggering; non-positive values get a
// 300ms default.
func New(srcDir string, quietWindow time.Duration, rebuild RebuildFunc) *Watcher {
	if quietWindow <= 0 {
		quietWindow = 300 * time.Millisecond
	}
	return &Watcher{
		srcDir:      srcDir,
		quietWindow: quietWindow,
		rebuild:     rebuild,
		pending:     make(chan struct{}, 1),
	}
}

// Run watches until ctx is canceled. Any event under the source tree
// (recursive) triggers a full rebuild; a failed rebuild is logged and the
// loop keeps watching.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, w.srcDir); err != nil {
		return err
	}

	slog.Info("Watching for changes", "dir", w.srcDir, "quiet_window", w.quietWindow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildLoop(ctx)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("Filesystem event", "op", event.Op.String(), "path", event.Name)

			// New directories must join the watch for events beneath
			// them to be seen.
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := addDirsRecursive(watcher, event.Name); err != nil {
						slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			w.trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}

// Trigger requests a rebuild outside the filesystem event path (used by the
// periodic scheduler). It goes through the same debounce and coalescing as
// event-driven triggers.
func (w *Watcher) Trigger() {
	w.trigger()
}

// trigger arms the quiet-window timer; when it fires, a single rebuild
// request lands in the one-slot pending channel. Requests arriving while a
// rebuild is queued collapse into it.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.quietWindow, func() {
		select {
		case w.pending <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
			if err := w.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("Rebuild failed, continuing to watch", "error", err)
			}
		}
	}
}

// addDirsRecursive adds dir and all its subdirectories to the watcher.
func addDirsRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
