package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

type testConfig struct {
	path    string
	backend Backend
}

func (t testConfig) BasePath() string     { return t.path }
func (t testConfig) Backend() Backend     { return t.backend }
func (t testConfig) ViewerBase() string   { return DefaultViewerBase }
func (t testConfig) ViewerAddr() string   { return DefaultViewerAddr }
func (t testConfig) LogLevel() string     { return "info" }
func (t testConfig) LogDevelopment() bool { return false }

func bridges(t *testing.T) map[string]Bridge {
	return map[string]Bridge{
		"disk":   NewDisk(t.TempDir()),
		"memory": NewMemory(),
	}
}

func TestBridgeSetGet(t *testing.T) {
	for name, b := range bridges(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, ok, err := b.Get(ctx, "json-view:missing"); err != nil || ok {
				t.Fatalf("expected absent key without error, got ok=%v err=%v", ok, err)
			}
			if err := b.Set(ctx, "json-view:abc", `{"a":1}`); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := b.Get(ctx, "json-view:abc")
			if err != nil || !ok || v != `{"a":1}` {
				t.Fatalf("get: %q %v %v", v, ok, err)
			}
			if err := b.Set(ctx, "xml-view:abc", `<a/>`); err != nil {
				t.Fatalf("set: %v", err)
			}
			if v, _, _ := b.Get(ctx, "json-view:abc"); v != `{"a":1}` {
				t.Fatalf("namespaces collided, got %q", v)
			}
		})
	}
}

func TestBridgeKeys(t *testing.T) {
	for name, b := range bridges(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{"json-view:b", "json-view:a", "xml-view:c"} {
				if err := b.Set(ctx, k, "x"); err != nil {
					t.Fatalf("set %s: %v", k, err)
				}
			}
			keys, err := b.(Lister).Keys(ctx, "json-view:")
			if err != nil {
				t.Fatalf("keys: %v", err)
			}
			if len(keys) != 2 || keys[0] != "json-view:a" || keys[1] != "json-view:b" {
				t.Fatalf("unexpected keys %v", keys)
			}
		})
	}
}

func TestBridgeCancelledContext(t *testing.T) {
	for name, b := range bridges(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := b.Set(ctx, "json-view:x", "1"); err == nil {
				t.Fatalf("expected error on cancelled context")
			}
		})
	}
}

func TestDiskRejectsPathKeys(t *testing.T) {
	d := NewDisk(t.TempDir())
	for _, key := range []string{"", "../escape", "a/b"} {
		if err := d.Set(context.Background(), key, "x"); err == nil {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestDiskLayout(t *testing.T) {
	base := t.TempDir()
	d := NewDisk(base)
	if err := d.Set(context.Background(), "json-view:tok", "{}"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "json-view", "tok")); err != nil {
		t.Fatalf("expected record file on disk: %v", err)
	}
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()

	b, err := Select(testConfig{path: dir, backend: BackendAuto}, nil)
	if err != nil {
		t.Fatalf("select auto: %v", err)
	}
	if _, ok := b.(*Disk); !ok {
		t.Fatalf("expected disk backend for writable dir, got %T", b)
	}

	b, err = Select(testConfig{path: dir, backend: BackendMemory}, nil)
	if err != nil {
		t.Fatalf("select memory: %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Fatalf("expected memory backend, got %T", b)
	}

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission probe needs an unprivileged unix user")
	}
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o500); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	b, err = Select(testConfig{path: filepath.Join(locked, "db"), backend: BackendAuto}, nil)
	if err != nil {
		t.Fatalf("select fallback: %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Fatalf("expected memory fallback, got %T", b)
	}
	if _, err := Select(testConfig{path: filepath.Join(locked, "db"), backend: BackendDisk}, nil); err == nil {
		t.Fatalf("expected forced disk backend to fail")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JVIEW_CONFIG_PATH", dir)
	t.Setenv("JVIEW_PATH", filepath.Join(dir, "db"))
	t.Setenv("JVIEW_BACKEND", "memory")
	t.Setenv("JVIEW_VIEWER_BASE", "http://localhost:9999/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "db") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.Backend() != BackendMemory {
		t.Fatalf("unexpected backend %q", cfg.Backend())
	}
	if cfg.ViewerBase() != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ViewerBase())
	}
	if cfg.ViewerAddr() != DefaultViewerAddr {
		t.Fatalf("unexpected addr %q", cfg.ViewerAddr())
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("JVIEW_CONFIG_PATH", t.TempDir())
	t.Setenv("JVIEW_BACKEND", "cloud")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error")
	}
}
