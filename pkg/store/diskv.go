package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// keySeparator splits a record key into its namespace directory and file
// name, so "json-view:abc" lives at <base>/json-view/abc.
const keySeparator = ":"

// Disk is the persistent bridge backed by diskv.
type Disk struct {
	d        *diskv.Diskv
	basePath string
}

// NewDisk opens a diskv store rooted at basePath.
func NewDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}
}

func (p *Disk) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validKey(key); err != nil {
		return err
	}
	if err := p.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *Disk) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if err := validKey(key); err != nil {
		return "", false, err
	}
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return string(val), true, nil
}

func (p *Disk) Keys(ctx context.Context, prefix string) ([]string, error) {
	// diskv resolves a prefix to a directory, so only whole namespaces can
	// be handed to it.
	walkPrefix := ""
	if i := strings.LastIndex(prefix, keySeparator); i >= 0 {
		walkPrefix = prefix[:i+1]
	}
	keys := make([]string, 0)
	for key := range p.d.KeysPrefix(walkPrefix, ctx.Done()) {
		if !strings.HasPrefix(key, prefix) || strings.HasPrefix(pathLeaf(key), ".") {
			continue
		}
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("store: key required")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("store: invalid key %q", key)
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, keySeparator)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	parts := make([]string, 0, len(pathKey.Path))
	for _, p := range pathKey.Path {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s%s%s", strings.Join(parts, keySeparator), keySeparator, pathKey.FileName)
}

func pathLeaf(key string) string {
	return keyToPathTransform(key).FileName
}
