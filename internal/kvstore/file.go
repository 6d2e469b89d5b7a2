package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores one file per key under a root directory.
// Writes go to a temp file first and are renamed into place so readers never see partial values.
type FileBackend struct {
	mu   sync.Mutex
	root string
}

// NewFileBackend ensures root exists and returns a backend rooted there.
func NewFileBackend(root string) (*FileBackend, error) {
	if root == "" {
		return nil, fmt.Errorf("file backend: %w", ErrNotConfigured)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("file backend: %w", err)
	}
	return &FileBackend{root: root}, nil
}

// Root exposes the backend directory.
func (f *FileBackend) Root() string {
	return f.root
}

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.root, url.PathEscape(key)+".json")
}

func (f *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (f *FileBackend) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (f *FileBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
