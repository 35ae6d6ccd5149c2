package fs

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/practicepicker/pkg/log"
)

const defaultDebounce = 100 * time.Millisecond

// ConfigWatcher reports edits to the configuration file. The persistence
// backend is fixed for the process lifetime, so changes are only announced.
type ConfigWatcher struct {
	path     string
	logger   log.Logger
	onChange func(path string)
	delay    time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

// NewConfigWatcher creates a watcher for path. onChange runs after writes
// settle; when nil a "restart required" warning is logged instead.
func NewConfigWatcher(path string, logger log.Logger, onChange func(path string)) *ConfigWatcher {
	w := &ConfigWatcher{
		path:     filepath.Clean(path),
		logger:   logger,
		onChange: onChange,
		delay:    defaultDebounce,
	}
	if w.onChange == nil {
		w.onChange = func(p string) {
			w.logger.Warn("config file changed; restart to apply", log.String("path", p))
		}
	}
	return w
}

// Run watches the directory holding the config file until ctx is done.
// The directory is watched rather than the file so editors that replace the
// file on save are still seen.
func (w *ConfigWatcher) Run(ctx context.Context) {
	if w.path == "" || w.path == "." {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("config watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Warn("config watcher: failed to watch directory", log.String("dir", dir), log.Err(err))
		return
	}
	w.logger.Debug("config watcher started", log.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceNotify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher: error", log.Err(err))
		}
	}
}

func (w *ConfigWatcher) debounceNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		w.onChange(w.path)
	})
}

func (w *ConfigWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
