// Package memory provides an in-memory index cache for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.IndexCacheStore = (*Cache)(nil)

// Cache maps document IDs to the content hash last indexed.
type Cache struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{hashes: make(map[string]string)}
}

// Get returns the recorded hash for a document.
func (c *Cache) Get(_ context.Context, documentID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hash, ok := c.hashes[documentID]
	return hash, ok, nil
}

// Put records the hash for a document.
func (c *Cache) Put(_ context.Context, documentID, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[documentID] = hash
	return nil
}

// Delete forgets a document.
func (c *Cache) Delete(_ context.Context, documentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hashes, documentID)
	return nil
}
