// Package cache maps worldmap files to output directories keyed by content.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// completeMarker is written last so an interrupted export is not mistaken for
// a finished one
const completeMarker = ".complete"

// Cache handles cache directory operations and file validation
type Cache struct {
	root string
}

// CacheManager creates a cache rooted at ~/.wmset/cache
func CacheManager() *Cache {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return New(filepath.Join(".", ".wmset", "cache"))
	}
	return New(filepath.Join(homeDir, ".wmset", "cache"))
}

// New creates a cache rooted at dir
func New(dir string) *Cache {
	return &Cache{root: dir}
}

// GetCacheDir returns the cache root
func (m *Cache) GetCacheDir() string {
	return m.root
}

// Hash returns the xxhash64 of data as 16 hex digits
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// HashFile streams a file through xxhash64
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

// GetEntryDir returns the output directory for a content hash
func (m *Cache) GetEntryDir(hash string) string {
	return filepath.Join(m.root, hash)
}

// EnsureDir creates a directory and all parent directories
func (m *Cache) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a file exists
func (m *Cache) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsComplete reports whether an export for hash finished
func (m *Cache) IsComplete(hash string) bool {
	return m.FileExists(filepath.Join(m.GetEntryDir(hash), completeMarker))
}

// MarkComplete records that the export for hash finished
func (m *Cache) MarkComplete(hash string) error {
	dir := m.GetEntryDir(hash)
	if err := m.EnsureDir(dir); err != nil {
		return fmt.Errorf("creating cache entry %s: %w", hash, err)
	}
	return os.WriteFile(filepath.Join(dir, completeMarker), nil, 0644)
}

// Invalidate removes the cache entry for hash
func (m *Cache) Invalidate(hash string) error {
	if err := os.RemoveAll(m.GetEntryDir(hash)); err != nil {
		return fmt.Errorf("removing cache entry %s: %w", hash, err)
	}
	return nil
}
