package ai

import (
	"errors"
	"testing"

	configfile "github.com/glasswing-labs/ragcore/internal/adapters/driven/config/file"
	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
)

func newConfig(t *testing.T, values map[string]any) driven.ConfigStore {
	t.Helper()
	cfg, err := configfile.NewConfigStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for k, v := range values {
		if err := cfg.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func TestCreateEmbeddingService(t *testing.T) {
	t.Run("openai requires an api key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg := newConfig(t, map[string]any{"embedding.provider": "openai"})

		_, err := CreateEmbeddingService(cfg)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("openai key from config", func(t *testing.T) {
		cfg := newConfig(t, map[string]any{
			"embedding.provider": "openai",
			"openai.api_key":     "sk-test",
		})

		svc, err := CreateEmbeddingService(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svc.Close()
		if svc.ModelName() == "" {
			t.Error("expected a default model name")
		}
	})

	t.Run("openai key from environment", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-env")
		cfg := newConfig(t, nil)

		if _, err := CreateEmbeddingService(cfg); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := newConfig(t, map[string]any{"embedding.provider": "ollama"})

		svc, err := CreateEmbeddingService(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svc.Close()
		if svc.Dimensions() == 0 {
			t.Error("expected a default dimension")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := newConfig(t, map[string]any{"embedding.provider": "parrot"})

		_, err := CreateEmbeddingService(cfg)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})
}

func TestCreateLLMService(t *testing.T) {
	t.Run("requires an api key", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg := newConfig(t, nil)

		_, err := CreateLLMService(cfg)
		if !errors.Is(err, domain.ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("custom model", func(t *testing.T) {
		cfg := newConfig(t, map[string]any{
			"openai.api_key":   "sk-test",
			"openai.llm_model": "gpt-4o",
		})

		svc, err := CreateLLMService(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svc.Close()
		if svc.ModelName() != "gpt-4o" {
			t.Errorf("expected gpt-4o, got %s", svc.ModelName())
		}
	})
}
