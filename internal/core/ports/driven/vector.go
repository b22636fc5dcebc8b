package driven

import (
	"context"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

// VectorStore persists (vector, text, metadata) entries and answers
// nearest-neighbour queries. The similarity metric and vector dimension
// are fixed per store instance at construction; reopening a persisted
// index with a different dimension or metric is a configuration error.
//
// Implementations: an in-memory flat index with JSON persistence, and a
// SQLite-backed store with metadata filtering.
type VectorStore interface {
	// Add inserts a batch of entries and returns the assigned IDs in
	// input order. All vectors are validated against the store dimension
	// before anything is written: a mismatch fails the whole batch with
	// domain.ErrDimensionMismatch and leaves the store unchanged. The
	// batch becomes queryable atomically.
	Add(ctx context.Context, entries []domain.Entry) ([]string, error)

	// Query returns up to topK results ordered by descending similarity,
	// ties kept in insertion order. A non-positive topK fails with
	// domain.ErrInvalidArgument. When filter is non-nil, only entries
	// whose metadata matches are eligible and topK applies after
	// filtering. An empty store returns an empty slice, not an error.
	Query(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.SearchResult, error)

	// Delete removes entries by ID and returns the number removed.
	// Unknown IDs are ignored, so retries are idempotent.
	Delete(ctx context.Context, ids []string) (int, error)

	// DeleteByDocument removes every entry belonging to a document and
	// returns the number removed. Used when re-indexing modified content.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// Persist flushes the index to its durable backing. The on-disk
	// artifact is never left half-written.
	Persist(ctx context.Context) error

	// Load restores the index from its durable backing, reproducing an
	// equivalent queryable store.
	Load(ctx context.Context) error

	// Dimension returns the configured vector dimension.
	Dimension() int

	// Count returns the number of stored entries.
	Count() int

	// Close releases resources.
	Close() error
}
