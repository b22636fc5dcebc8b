package driving

import (
	"context"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

// Retriever answers semantic queries against the indexed corpus.
type Retriever interface {
	// Search embeds the query text and returns the top-k most similar
	// entries. Provider and store errors pass through unwrapped.
	Search(ctx context.Context, query string, topK int, filter domain.Filter) ([]domain.SearchResult, error)

	// GetRelevantContext assembles the top-ranked passages into a single
	// context block bounded by a maximum length, dropping lowest-ranked
	// passages first. Sources lists the distinct contributing documents
	// in rank order, each with its best score. An empty store yields
	// ("", nil, nil).
	GetRelevantContext(ctx context.Context, query string, topK int) (string, []domain.Source, error)
}
