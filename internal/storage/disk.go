package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prospekt/internal/domain"
)

// DiskStore stores artifacts under a single root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the store root if needed and returns the store.
func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &DiskStore{root: abs}, nil
}

// Save writes data under path, creating parent directories.
func (s *DiskStore) Save(_ context.Context, path string, data []byte) (string, error) {
	target, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return filepath.ToSlash(filepath.Clean(path)), nil
}

// Load reads the bytes stored under path.
func (s *DiskStore) Load(_ context.Context, path string) ([]byte, error) {
	target, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return data, nil
}

// Resolve maps path under the root, rejecting traversal outside it.
func (s *DiskStore) Resolve(path string) (string, error) {
	target := filepath.Join(s.root, filepath.FromSlash(path))
	target = filepath.Clean(target)
	if target != s.root && !strings.HasPrefix(target, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes store root: %w", path, domain.ErrValidation)
	}
	return target, nil
}
