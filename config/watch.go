package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Reload is one hot-reload result delivered by Watch.
type Reload struct {
	Settings Settings
	Err      error
}

// Watch reloads the settings file whenever it is written or recreated and
// delivers the result on the returned channel until ctx is done.
// The directory is watched rather than the file so that editors which
// replace the file on save are still picked up.
func Watch(ctx context.Context, path string) (<-chan Reload, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan Reload, 1)
	target := filepath.Clean(path)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				settings, err := Load(path)
				r := Reload{Settings: settings, Err: err}
				// keep only the newest reload if the consumer is behind
				select {
				case out <- r:
				default:
					select {
					case <-out:
					default:
					}
					out <- r
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("settings watcher error", "err", err)
			}
		}
	}()
	return out, nil
}
