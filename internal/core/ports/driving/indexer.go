package driving

import (
	"context"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

// IndexStatus describes the outcome of indexing one document.
type IndexStatus string

// Possible indexing outcomes.
const (
	// StatusSkipped means the content hash matched the cache; no
	// embedding calls were made.
	StatusSkipped IndexStatus = "skipped"

	// StatusIndexed means the document was chunked, embedded and stored.
	StatusIndexed IndexStatus = "indexed"

	// StatusFailed means the document was left as it was before the call.
	StatusFailed IndexStatus = "failed"
)

// IndexOutcome reports what happened to a single document.
type IndexOutcome struct {
	// DocumentID identifies the document.
	DocumentID string

	// Status is skipped, indexed or failed.
	Status IndexStatus

	// Chunks is the number of entries written when Status is indexed.
	Chunks int

	// Err carries the failure when Status is failed.
	Err error
}

// Indexer orchestrates chunking, embedding and storage.
type Indexer interface {
	// IndexDocument indexes one document. Unchanged content is skipped
	// without any provider calls. Failures are atomic per document: the
	// store gains no partial entries and the cache is not updated, so a
	// retry redoes the whole document. Concurrent calls for the same
	// document ID are serialised.
	IndexDocument(ctx context.Context, doc *domain.Document) (IndexOutcome, error)

	// IndexAll indexes documents through a bounded worker pool.
	// Per-document failures are reported in the outcomes and joined in
	// the returned error; the remaining documents still proceed.
	IndexAll(ctx context.Context, docs []*domain.Document) ([]IndexOutcome, error)

	// RemoveDocument deletes a document's entries from the store and
	// forgets its cache record. Returns the number of entries removed.
	RemoveDocument(ctx context.Context, documentID string) (int, error)
}
