package driven

import "context"

// IndexCacheStore maps document IDs to the content hash last indexed.
// The indexer consults it to skip unchanged documents, so re-indexing
// costs at most one embedding run per unique content version.
//
// It is an explicit, injectable store with its own lifecycle rather than
// hidden process state, so tests can use an in-memory variant.
type IndexCacheStore interface {
	// Get returns the last-indexed hash for a document, and whether one
	// is recorded.
	Get(ctx context.Context, documentID string) (string, bool, error)

	// Put records the hash for a document.
	Put(ctx context.Context, documentID, hash string) error

	// Delete forgets a document. Unknown IDs are a no-op.
	Delete(ctx context.Context, documentID string) error
}
