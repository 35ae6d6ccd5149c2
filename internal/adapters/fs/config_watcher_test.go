package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/practicepicker/pkg/log"
)

func TestConfigWatcherNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "info"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	changed := make(chan string, 4)
	w := NewConfigWatcher(path, log.NewNoopLogger(), func(p string) { changed <- p })
	w.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case p := <-changed:
			if p != filepath.Clean(path) {
				t.Fatalf("expected %s, got %s", path, p)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte(`log_level = "debug"`), 0o644); err != nil {
				t.Fatalf("rewrite config: %v", err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for change notification")
		}
	}
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	changed := make(chan string, 1)
	w := NewConfigWatcher(path, log.NewNoopLogger(), func(p string) { changed <- p })
	w.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "routines.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case p := <-changed:
		t.Fatalf("unexpected notification for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}
