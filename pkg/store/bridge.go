// Package store provides the key-value bridge that carries handoff
// records from the place text is entered to the viewer that renders it.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"tableflip.dev/jview/pkg/logging"
)

// Bridge is the storage contract every caller uses. A missing key is
// reported with ok == false and a nil error.
type Bridge interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Lister is implemented by bridges that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Watcher is implemented by bridges that can report newly written keys.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// ErrNoWatch is returned when follow mode is requested on a bridge that
// cannot watch.
var ErrNoWatch = errors.New("store: backend does not support watching")

// Select picks the bridge implementation for cfg. In auto mode the disk
// backend is used when its directory is writable and the memory backend
// otherwise.
func Select(cfg Config, log *logging.Logger) (Bridge, error) {
	if log == nil {
		log = logging.Nop()
	}
	switch cfg.Backend() {
	case BackendMemory:
		return NewMemory(), nil
	case BackendDisk:
		if err := probe(cfg.BasePath()); err != nil {
			return nil, err
		}
		return NewDisk(cfg.BasePath()), nil
	default:
		if err := probe(cfg.BasePath()); err != nil {
			log.Warn("persistent store unavailable, records will not outlive this process",
				zap.String("path", cfg.BasePath()), zap.Error(err))
			return NewMemory(), nil
		}
		return NewDisk(cfg.BasePath()), nil
	}
}

// Load reads the configuration and selects a bridge for it.
func Load(log *logging.Logger) (Config, Bridge, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	b, err := Select(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, b, nil
}

func probe(basePath string) error {
	if basePath == "" {
		return errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return fmt.Errorf("store: ensure base path: %w", err)
	}
	f, err := os.CreateTemp(basePath, ".probe-*")
	if err != nil {
		return fmt.Errorf("store: base path not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
