// Package ai provides factory functions for creating AI service adapters
// from configuration.
package ai

import (
	"fmt"
	"os"

	ollamaembed "github.com/glasswing-labs/ragcore/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/glasswing-labs/ragcore/internal/adapters/driven/embedding/openai"
	openaillm "github.com/glasswing-labs/ragcore/internal/adapters/driven/llm/openai"
	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
)

// Supported embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// CreateEmbeddingService creates the configured embedding service.
// An empty provider defaults to OpenAI. The OpenAI API key falls back
// to the OPENAI_API_KEY environment variable.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	switch provider {
	case "", ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     openAIKey(cfg),
			BaseURL:    cfg.GetString("openai.base_url"),
			Model:      cfg.GetString("openai.embedding_model"),
			Dimensions: cfg.GetInt("openai.embedding_dimensions"),
		})
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("ollama.base_url"),
			Model:      cfg.GetString("ollama.embedding_model"),
			Dimensions: cfg.GetInt("ollama.embedding_dimensions"),
		}), nil
	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrInvalidConfiguration, provider)
	}
}

// CreateLLMService creates the configured text generation service.
func CreateLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.Config{
		APIKey:  openAIKey(cfg),
		BaseURL: cfg.GetString("openai.base_url"),
		Model:   cfg.GetString("openai.llm_model"),
	})
}

func openAIKey(cfg driven.ConfigStore) string {
	if key := cfg.GetString("openai.api_key"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
