package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/ptemp/internal/source"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

// runWatch rewrites location once and then again after every change
// until the command context is cancelled.
func runWatch(cmd *cobra.Command, location string, opts *rewriteOptions) error {
	if location == stdinLocation || !source.IsLocal(location) {
		return errors.New("--watch needs a local file")
	}
	path, err := filepath.Abs(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", location, err)
	}

	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	if _, err := rewriteOnce(ctx, cc, location, opts); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", location, err)
	}
	cc.Logger.Info("watching for changes", "file", path)
	cc.Renderer.Println(cc.Renderer.Styles().Muted.Render("watching " + location + ", press Ctrl+C to stop"))

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		if _, err := rewriteOnce(ctx, cc, location, opts); err != nil {
			cc.Renderer.Error(err.Error())
		}
	}
	return watchLoop(ctx, watcher, path, rebuild)
}

// watchLoop calls rebuild, debounced, for write and create events on path.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, rebuild func()) error {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != path {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
