// Package storage persists small JSON documents under the storefront data
// directory, one file per key. It is the local-storage analog the cart,
// session, and catalog location stores write through to.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes JSON documents keyed by name.
type Store struct {
	dir string
}

const defaultDataDir = "~/.local/share/storefront"

// DefaultDir returns the default data directory.
func DefaultDir() string {
	return defaultDataDir
}

// Open prepares a store rooted at dir, creating it as needed.
// An empty dir uses the default data directory.
func Open(dir string) (*Store, error) {
	resolved, err := resolveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: resolved}, nil
}

// Get decodes the document stored under key into dest. It reports false
// when no document exists, which is not an error.
func (s *Store) Get(key string, dest any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set writes v as the document for key, replacing any previous value.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	// 0600 because session documents carry tokens.
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the document for key. Missing documents are not an error.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func resolveDir(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		trimmed = defaultDataDir
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
