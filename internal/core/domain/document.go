package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is a unit of source content submitted for indexing.
// It is the canonical representation before chunking.
type Document struct {
	// ID is the stable identifier for the document (e.g. a file path).
	ID string

	// Title is the human-readable title.
	Title string

	// Text is the full raw text content.
	Text string

	// Metadata contains arbitrary key-value pairs copied onto every
	// entry produced from this document.
	Metadata map[string]any

	// CreatedAt is when the document was first seen.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// ContentHash returns the hex-encoded SHA-256 of the document text.
// The indexer compares it against the cache to skip unchanged content.
func (d *Document) ContentHash() string {
	sum := sha256.Sum256([]byte(d.Text))
	return hex.EncodeToString(sum[:])
}

// Chunk is a contiguous substring of a document prepared for embedding.
// Chunks are ephemeral: they exist between chunking and embedding and are
// never persisted independently of their entry.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the ordinal position within the document.
	Index int

	// Text is the chunk content.
	Text string

	// Start and End are the rune offsets this chunk spans in the
	// original text (End exclusive).
	Start int
	End   int
}

// Entry is the unit stored in a vector store: an embedded chunk together
// with the text and metadata needed to assemble retrieval context.
type Entry struct {
	// ID is assigned by the store on Add.
	ID string

	// DocumentID links back to the source document.
	DocumentID string

	// Text is the chunk text that was embedded.
	Text string

	// Vector is the embedding. Its length must equal the store dimension.
	Vector []float32

	// Metadata is copied from the document, plus chunk-level keys.
	Metadata map[string]any
}
