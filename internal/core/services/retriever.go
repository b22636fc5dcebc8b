package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driving"
	"github.com/glasswing-labs/ragcore/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// DefaultMaxContextChars bounds the assembled context block.
const DefaultMaxContextChars = 8000

// RetrieverService answers semantic queries and assembles retrieval
// context with source tracking.
type RetrieverService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore

	maxContextChars int
	dedupeByDoc     bool
}

// RetrieverOption configures the retriever service.
type RetrieverOption func(*RetrieverService)

// WithMaxContextChars sets the maximum length of the context block.
func WithMaxContextChars(n int) RetrieverOption {
	return func(s *RetrieverService) {
		if n > 0 {
			s.maxContextChars = n
		}
	}
}

// WithDedupeByDocument keeps only the best-ranked passage per document
// when assembling context.
func WithDedupeByDocument(dedupe bool) RetrieverOption {
	return func(s *RetrieverService) {
		s.dedupeByDoc = dedupe
	}
}

// NewRetrieverService creates a retriever service.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	opts ...RetrieverOption,
) *RetrieverService {
	s := &RetrieverService{
		embedder:        embedder,
		store:           store,
		maxContextChars: DefaultMaxContextChars,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds the query and delegates to the vector store. Errors from
// either collaborator pass through.
func (s *RetrieverService) Search(
	ctx context.Context, query string, topK int, filter domain.Filter,
) ([]domain.SearchResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q, topK: %d", query, topK)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	logger.Debug("Results: %d", len(results))
	return results, nil
}

// GetRelevantContext concatenates the top-ranked passages into a single
// context block bounded by the configured length, dropping lowest-ranked
// passages first. Sources lists distinct contributing documents in rank
// order with their best score.
func (s *RetrieverService) GetRelevantContext(
	ctx context.Context, query string, topK int,
) (string, []domain.Source, error) {
	results, err := s.Search(ctx, query, topK, nil)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, nil
	}

	var blocks []string
	used := 0
	var sources []domain.Source
	seenDoc := make(map[string]int) // documentID -> index into sources

	for _, result := range results {
		docID := result.Entry.DocumentID
		if s.dedupeByDoc {
			if _, seen := seenDoc[docID]; seen {
				continue
			}
		}

		block := fmt.Sprintf("[Document %d] (Source: %s, Relevance: %.2f)\n%s\n",
			len(blocks)+1, docID, result.Score, result.Entry.Text)

		// Results arrive best-first, so stopping here truncates the
		// lowest-ranked passages.
		if used+len(block) > s.maxContextChars && len(blocks) > 0 {
			break
		}

		blocks = append(blocks, block)
		used += len(block) + 1

		if idx, seen := seenDoc[docID]; seen {
			if result.Score > sources[idx].Score {
				sources[idx].Score = result.Score
			}
			continue
		}
		seenDoc[docID] = len(sources)
		sources = append(sources, domain.Source{
			DocumentID: docID,
			Title:      metadataTitle(result.Entry.Metadata),
			Score:      result.Score,
		})
	}

	return strings.Join(blocks, "\n"), sources, nil
}

// metadataTitle extracts the document title an entry carries, if any.
func metadataTitle(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	if title, ok := metadata["title"].(string); ok {
		return title
	}
	return ""
}
