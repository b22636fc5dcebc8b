// Package memory provides an in-memory flat-index vector store with
// exact brute-force search and optional JSON file persistence.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/similarity"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds configuration for the in-memory store.
type Config struct {
	// Dimension is the fixed vector dimension (required).
	Dimension int

	// Path is the JSON file used by Persist/Load. Optional; when empty
	// the store is purely in-memory and Persist fails.
	Path string
}

// Store keeps entries in insertion order and answers queries by scanning
// every vector. Adds are applied as one batch under the write lock, so a
// concurrent reader never observes a partially written batch.
type Store struct {
	mu        sync.RWMutex
	dimension int
	path      string
	entries   []domain.Entry
}

// snapshot is the persisted JSON layout.
type snapshot struct {
	Dimension int            `json:"dimension"`
	Metric    string         `json:"metric"`
	Entries   []domain.Entry `json:"entries"`
}

// New creates an in-memory vector store.
func New(cfg Config) (*Store, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d",
			domain.ErrInvalidConfiguration, cfg.Dimension)
	}
	return &Store{
		dimension: cfg.Dimension,
		path:      cfg.Path,
	}, nil
}

// Add validates every vector before mutating anything, then appends the
// whole batch under the write lock and returns the assigned IDs.
func (s *Store) Add(_ context.Context, entries []domain.Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	for i := range entries {
		if len(entries[i].Vector) != s.dimension {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, i, len(entries[i].Vector), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(entries))
	for i := range entries {
		e := entries[i]
		e.ID = uuid.New().String()
		e.Vector = append([]float32(nil), e.Vector...)
		s.entries = append(s.entries, e)
		ids[i] = e.ID
	}
	return ids, nil
}

// Query scans all entries, applies the filter, and returns the topK best
// by cosine similarity. Ties keep insertion order.
func (s *Store) Query(
	_ context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidArgument, topK)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, store expects %d",
			domain.ErrDimensionMismatch, len(vector), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.entries))
	for i := range s.entries {
		if filter != nil && !filter.Matches(s.entries[i].Metadata) {
			continue
		}
		results = append(results, domain.SearchResult{
			Entry: s.entries[i],
			Score: similarity.Cosine(vector, s.entries[i].Vector),
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes entries by ID. Unknown IDs are ignored.
func (s *Store) Delete(_ context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeWhere(func(e *domain.Entry) bool {
		_, ok := drop[e.ID]
		return ok
	}), nil
}

// DeleteByDocument removes every entry belonging to a document.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeWhere(func(e *domain.Entry) bool {
		return e.DocumentID == documentID
	}), nil
}

// removeWhere filters the entry slice in place, preserving order.
// Caller holds the write lock.
func (s *Store) removeWhere(match func(*domain.Entry) bool) int {
	kept := s.entries[:0]
	removed := 0
	for i := range s.entries {
		if match(&s.entries[i]) {
			removed++
			continue
		}
		kept = append(kept, s.entries[i])
	}
	s.entries = kept
	return removed
}

// Persist writes the index to the configured path. The snapshot goes to
// a temporary file in the same directory first and is renamed over the
// target, so an interrupted write never corrupts the on-disk index.
func (s *Store) Persist(_ context.Context) error {
	if s.path == "" {
		return fmt.Errorf("%w: no persistence path configured", domain.ErrStoreIO)
	}

	s.mu.RLock()
	snap := snapshot{
		Dimension: s.dimension,
		Metric:    similarity.MetricCosine,
		Entries:   append([]domain.Entry(nil), s.entries...),
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: marshal index: %v", domain.ErrStoreIO, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create index directory: %v", domain.ErrStoreIO, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStoreIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write index: %v", domain.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close index file: %v", domain.ErrStoreIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace index file: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// Load replaces the store contents with the persisted snapshot. A
// snapshot written with a different dimension or metric is rejected.
func (s *Store) Load(_ context.Context) error {
	if s.path == "" {
		return fmt.Errorf("%w: no persistence path configured", domain.ErrStoreIO)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: read index: %v", domain.ErrStoreIO, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: decode index: %v", domain.ErrStoreIO, err)
	}
	if snap.Dimension != s.dimension {
		return fmt.Errorf("%w: index was persisted with dimension %d, store expects %d",
			domain.ErrInvalidConfiguration, snap.Dimension, s.dimension)
	}
	if snap.Metric != similarity.MetricCosine {
		return fmt.Errorf("%w: index was persisted with metric %q, store expects %q",
			domain.ErrInvalidConfiguration, snap.Metric, similarity.MetricCosine)
	}

	s.mu.Lock()
	s.entries = snap.Entries
	s.mu.Unlock()
	return nil
}

// Dimension returns the configured vector dimension.
func (s *Store) Dimension() int { return s.dimension }

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close releases resources.
func (s *Store) Close() error { return nil }
