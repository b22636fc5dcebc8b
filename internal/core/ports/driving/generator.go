package driving

import (
	"context"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

// Generator produces cited answers grounded in retrieved context.
type Generator interface {
	// Generate retrieves context for the query, prompts the text
	// generation provider and returns the answer with citations. When
	// retrieval finds nothing the generation still proceeds with an
	// empty context and the response is marked ungrounded.
	Generate(ctx context.Context, query string, topK int) (*domain.GeneratedResponse, error)

	// GenerateWithContext bypasses retrieval and generates against an
	// explicitly supplied context block.
	GenerateWithContext(ctx context.Context, query, contextText string) (string, error)
}
