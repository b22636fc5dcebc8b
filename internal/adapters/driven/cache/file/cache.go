// Package file provides a JSON-file-backed index cache so document-hash
// state survives restarts alongside the vector index.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.IndexCacheStore = (*Cache)(nil)

// Cache persists the docID -> hash map as a JSON file. Every mutation is
// flushed with a temp-file-and-rename write, so an interrupted save never
// corrupts the cache.
type Cache struct {
	mu     sync.RWMutex
	path   string
	hashes map[string]string
}

// New loads the cache at path, starting empty when the file is absent.
func New(path string) (*Cache, error) {
	c := &Cache{
		path:   path,
		hashes: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read cache: %v", domain.ErrStoreIO, err)
	}
	if err := json.Unmarshal(data, &c.hashes); err != nil {
		return nil, fmt.Errorf("%w: decode cache: %v", domain.ErrStoreIO, err)
	}
	return c, nil
}

// Get returns the recorded hash for a document.
func (c *Cache) Get(_ context.Context, documentID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hash, ok := c.hashes[documentID]
	return hash, ok, nil
}

// Put records the hash for a document and flushes to disk.
func (c *Cache) Put(_ context.Context, documentID, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[documentID] = hash
	return c.save()
}

// Delete forgets a document and flushes to disk.
func (c *Cache) Delete(_ context.Context, documentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hashes[documentID]; !ok {
		return nil
	}
	delete(c.hashes, documentID)
	return c.save()
}

// save writes the map atomically. Caller holds the write lock.
func (c *Cache) save() error {
	data, err := json.Marshal(c.hashes)
	if err != nil {
		return fmt.Errorf("%w: encode cache: %v", domain.ErrStoreIO, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create cache directory: %v", domain.ErrStoreIO, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp cache: %v", domain.ErrStoreIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write cache: %v", domain.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close cache: %v", domain.ErrStoreIO, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace cache: %v", domain.ErrStoreIO, err)
	}
	return nil
}
