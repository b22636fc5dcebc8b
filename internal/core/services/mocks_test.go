package services

import (
	"context"
	"sync"

	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
)

// --- Mock providers shared by the service tests ---
// Stores and caches use the real memory adapters; only the external
// providers are mocked.

// mockEmbedder returns configured vectors per text and counts calls.
type mockEmbedder struct {
	mu         sync.Mutex
	dimension  int
	vectors    map[string][]float32
	embedErr   error
	embedCalls int
	batchCalls int
}

func newMockEmbedder(dimension int) *mockEmbedder {
	return &mockEmbedder{
		dimension: dimension,
		vectors:   make(map[string][]float32),
	}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	// Unconfigured texts embed to a fixed unit vector.
	v := make([]float32, m.dimension)
	v[0] = 1
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vectorFor(text)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dimension }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Close() error      { return nil }

func (m *mockEmbedder) calls() (embed, batch int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls, m.batchCalls
}

// mockLLM returns a fixed answer and records the last prompt and options.
type mockLLM struct {
	mu         sync.Mutex
	response   string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
	genCalls   int
}

func (m *mockLLM) Generate(
	_ context.Context, prompt string, opts driven.GenerateOptions,
) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genCalls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }
