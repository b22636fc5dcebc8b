// Package chunker splits raw document text into overlapping fixed-size
// passages suitable for embedding. Splitting is purely positional and
// counted in runes, so chunk boundaries are reproducible across runs
// regardless of the byte encoding of the input.
package chunker

import (
	"fmt"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// Chunker produces deterministic fixed-size chunks with overlap.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. It fails with domain.ErrInvalidConfiguration
// when either parameter is non-positive or overlap >= size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, size)
	}
	if overlap <= 0 {
		return nil, fmt.Errorf("%w: chunk overlap must be positive, got %d", domain.ErrInvalidConfiguration, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidConfiguration, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured chunk size in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in runes.
func (c *Chunker) Overlap() int { return c.overlap }

// Split divides text into chunks for the given document ID. Consecutive
// chunks share exactly the configured overlap; the final chunk may be
// shorter than the chunk size. Empty text yields no chunks. The same
// text and parameters always produce the same sequence.
func (c *Chunker) Split(documentID, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := c.size - c.overlap

	estimated := (len(runes) / step) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			Index:      len(chunks),
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}
