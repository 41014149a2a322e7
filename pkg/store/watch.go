package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch streams the keys of records written under the base path until ctx
// is cancelled. Bursts of writes to the same key are coalesced. Callers
// should drain the channel; it is closed once ctx is done or the watcher
// fails.
func (p *Disk) Watch(ctx context.Context) (<-chan string, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			_ = watcher.Close()
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	keys := make(chan string, 64)

	go func() {
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		var sendMu sync.Mutex
		closed := false
		send := func(key string) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case keys <- key:
			default:
				// Drop when the consumer lags; the record stays readable.
			}
		}

		throttle := newKeyThrottle(100 * time.Millisecond)
		defer func() {
			throttle.Stop()
			sendMu.Lock()
			closed = true
			close(keys)
			sendMu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					dir := filepath.Clean(evt.Name)
					if _, found := watched[dir]; !found {
						if err := watcher.Add(dir); err == nil {
							watched[dir] = struct{}{}
						}
					}
					continue
				}
				if key := p.keyForPath(evt.Name); key != "" {
					throttle.Enqueue(key, send)
				}
			}
		}
	}()

	return keys, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// keyForPath maps a file under the base path back to its record key.
func (p *Disk) keyForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if strings.HasPrefix(parts[len(parts)-1], ".") {
		return ""
	}
	return strings.Join(parts, keySeparator)
}

// keyThrottle coalesces rapid notifications for the same key so a record
// is announced once per burst of writes.
type keyThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	order   []string
	delay   time.Duration
}

func newKeyThrottle(delay time.Duration) *keyThrottle {
	return &keyThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *keyThrottle) Enqueue(key string, send func(string)) {
	t.mu.Lock()
	if _, ok := t.pending[key]; !ok {
		t.pending[key] = struct{}{}
		t.order = append(t.order, key)
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *keyThrottle) flush(send func(string)) {
	t.mu.Lock()
	order := t.order
	t.pending = make(map[string]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, key := range order {
		send(key)
	}
}

func (t *keyThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
