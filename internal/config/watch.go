package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// Watch reloads the config file whenever it changes and passes the result to
// onChange. Reload errors go to onError and the previous config stays in
// effect. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so editors that save by
// renaming a temp file over the original are still picked up.
func Watch(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if onError == nil {
		onError = func(error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(resolved)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != resolved {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("watch config: %w", err))

		case <-pending:
			pending = nil
			cfg, err := Load(resolved)
			if err != nil {
				onError(err)
				continue
			}
			onChange(cfg)
		}
	}
}
