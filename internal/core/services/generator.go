package services

import (
	"context"
	"fmt"

	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driving"
	"github.com/glasswing-labs/ragcore/internal/logger"
)

// Ensure GeneratorService implements the interface.
var _ driving.Generator = (*GeneratorService)(nil)

// Default generation parameters.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
)

const groundedPrompt = `You are a helpful assistant. Answer the question using only the context provided below. If the context does not contain the answer, say that you don't know.

Context:
%s

Question: %s

Answer:`

const ungroundedPrompt = `You are a helpful assistant. Answer the following question as best you can.

Question: %s

Answer:`

// GeneratorService combines retrieval with the external text generation
// capability and attaches citations.
type GeneratorService struct {
	retriever driving.Retriever
	llm       driven.LLMService

	maxTokens         int
	temperature       float64
	citationThreshold float64
}

// GeneratorOption configures the generator service.
type GeneratorOption func(*GeneratorService)

// WithMaxTokens sets the generation token budget.
func WithMaxTokens(n int) GeneratorOption {
	return func(s *GeneratorService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(t float64) GeneratorOption {
	return func(s *GeneratorService) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithCitationThreshold drops sources scoring below the threshold from
// the citation list.
func WithCitationThreshold(t float64) GeneratorOption {
	return func(s *GeneratorService) {
		s.citationThreshold = t
	}
}

// NewGeneratorService creates a generator service.
func NewGeneratorService(
	retriever driving.Retriever,
	llm driven.LLMService,
	opts ...GeneratorOption,
) *GeneratorService {
	s := &GeneratorService{
		retriever:   retriever,
		llm:         llm,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate retrieves context for the query, prompts the LLM, and builds
// one citation per contributing document. Zero retrieval results do not
// block generation: the response proceeds ungrounded with no citations.
func (s *GeneratorService) Generate(
	ctx context.Context, query string, topK int,
) (*domain.GeneratedResponse, error) {
	logger.Section("Generate")
	logger.Debug("Query: %q, topK: %d", query, topK)

	contextText, sources, err := s.retriever.GetRelevantContext(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	grounded := len(sources) > 0
	if !grounded {
		logger.Info("No relevant context found, generating ungrounded answer")
	}

	prompt := buildPrompt(query, contextText)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	var citations []domain.Citation
	for _, source := range sources {
		if source.Score < s.citationThreshold {
			continue
		}
		citations = append(citations, domain.Citation{
			Source: source.DocumentID,
			Title:  source.Title,
			Score:  source.Score,
		})
	}

	return &domain.GeneratedResponse{
		Text:      text,
		Citations: citations,
		Query:     query,
		Context:   contextText,
		Grounded:  grounded,
	}, nil
}

// GenerateWithContext generates against an explicitly supplied context
// block, bypassing retrieval.
func (s *GeneratorService) GenerateWithContext(
	ctx context.Context, query, contextText string,
) (string, error) {
	prompt := buildPrompt(query, contextText)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return text, nil
}

// buildPrompt embeds the retrieved passages and the query. An empty
// context falls back to a plain question prompt.
func buildPrompt(query, contextText string) string {
	if contextText == "" {
		return fmt.Sprintf(ungroundedPrompt, query)
	}
	return fmt.Sprintf(groundedPrompt, contextText, query)
}
