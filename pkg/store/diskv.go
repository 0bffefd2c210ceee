package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/pokedex/pkg/favorites"
)

// Persistence is a flat key-value directory on disk.
type Persistence interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Erase(key string) error
	Keys(ctx context.Context) []string
	BasePath() string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) BasePath() string { return p.basePath }

// Read returns the stored value. It bypasses the diskv cache so changes made
// by another process are visible.
func (p *persistence) Read(key string) ([]byte, error) {
	if !p.d.Has(key) {
		return nil, favorites.ErrNotStored
	}
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *persistence) Write(key string, value []byte) error {
	if err := p.d.Write(key, value); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Erase(key string) error {
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

// Keys lists stored keys. Dot files such as the log are skipped.
func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if pk := keyToPathTransform(key); strings.HasPrefix(pk.FileName, ".") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Keys may be namespaced with "/"; each segment but the last becomes a
// directory.
func keyToPathTransform(key string) *diskv.PathKey {
	path := strings.Split(key, "/")
	last := len(path) - 1
	return &diskv.PathKey{
		Path:     path[:last],
		FileName: path[last],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) (key string) {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}
