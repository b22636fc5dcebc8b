package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectormemory "github.com/glasswing-labs/ragcore/internal/adapters/driven/vector/memory"
	"github.com/glasswing-labs/ragcore/internal/core/domain"
)

func newRetrieverFixture(t *testing.T, opts ...RetrieverOption) (*RetrieverService, *mockEmbedder, *vectormemory.Store) {
	t.Helper()

	embedder := newMockEmbedder(2)
	store, err := vectormemory.New(vectormemory.Config{Dimension: 2})
	require.NoError(t, err)

	return NewRetrieverService(embedder, store, opts...), embedder, store
}

func seedEntries(t *testing.T, store *vectormemory.Store, entries []domain.Entry) {
	t.Helper()
	_, err := store.Add(context.Background(), entries)
	require.NoError(t, err)
}

func TestRetrieverService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked results", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t)
		embedder.vectors["east?"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: "east", Vector: []float32{1, 0}},
			{DocumentID: "doc2", Text: "north", Vector: []float32{0, 1}},
		})

		results, err := svc.Search(ctx, "east?", 2, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "east", results[0].Entry.Text)
	})

	t.Run("embedding failure propagates", func(t *testing.T) {
		svc, embedder, _ := newRetrieverFixture(t)
		embedder.embedErr = errors.New("provider down")

		_, err := svc.Search(ctx, "anything", 2, nil)
		assert.Error(t, err)
	})

	t.Run("filter passes through to the store", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t)
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: "a", Vector: []float32{1, 0},
				Metadata: map[string]any{"category": "notes"}},
			{DocumentID: "doc2", Text: "b", Vector: []float32{1, 0},
				Metadata: map[string]any{"category": "mail"}},
		})

		results, err := svc.Search(ctx, "q", 10, domain.Filter{"category": "mail"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "doc2", results[0].Entry.DocumentID)
	})
}

func TestRetrieverService_GetRelevantContext(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty context and no sources", func(t *testing.T) {
		svc, _, _ := newRetrieverFixture(t)

		contextText, sources, err := svc.GetRelevantContext(ctx, "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, contextText)
		assert.Nil(t, sources)
	})

	t.Run("passages appear in rank order", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t)
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc-far", Text: "far passage", Vector: []float32{0, 1}},
			{DocumentID: "doc-near", Text: "near passage", Vector: []float32{1, 0}},
		})

		contextText, sources, err := svc.GetRelevantContext(ctx, "q", 5)
		require.NoError(t, err)
		assert.Less(t, strings.Index(contextText, "near passage"), strings.Index(contextText, "far passage"))
		require.Len(t, sources, 2)
		assert.Equal(t, "doc-near", sources[0].DocumentID)
	})

	t.Run("budget drops the lowest ranked passages", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t, WithMaxContextChars(120))
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: strings.Repeat("a", 60), Vector: []float32{1, 0}},
			{DocumentID: "doc2", Text: strings.Repeat("b", 60), Vector: []float32{1, 0.2}},
		})

		contextText, sources, err := svc.GetRelevantContext(ctx, "q", 5)
		require.NoError(t, err)
		assert.Contains(t, contextText, strings.Repeat("a", 60))
		assert.NotContains(t, contextText, strings.Repeat("b", 60))
		require.Len(t, sources, 1)
		assert.Equal(t, "doc1", sources[0].DocumentID)
	})

	t.Run("sources are distinct per document with best score", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t)
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: "best chunk", Vector: []float32{1, 0},
				Metadata: map[string]any{"title": "Doc One"}},
			{DocumentID: "doc1", Text: "worse chunk", Vector: []float32{1, 1},
				Metadata: map[string]any{"title": "Doc One"}},
			{DocumentID: "doc2", Text: "other doc", Vector: []float32{1, 0.5},
				Metadata: map[string]any{"title": "Doc Two"}},
		})

		contextText, sources, err := svc.GetRelevantContext(ctx, "q", 5)
		require.NoError(t, err)
		require.Len(t, sources, 2)
		assert.Equal(t, "doc1", sources[0].DocumentID)
		assert.Equal(t, "Doc One", sources[0].Title)
		assert.InDelta(t, 1.0, sources[0].Score, 1e-6, "source keeps its best chunk score")

		// All three passages still appear in the context.
		assert.Contains(t, contextText, "best chunk")
		assert.Contains(t, contextText, "worse chunk")
		assert.Contains(t, contextText, "other doc")
	})

	t.Run("dedupe keeps one passage per document", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t, WithDedupeByDocument(true))
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: "best chunk", Vector: []float32{1, 0}},
			{DocumentID: "doc1", Text: "worse chunk", Vector: []float32{1, 1}},
		})

		contextText, sources, err := svc.GetRelevantContext(ctx, "q", 5)
		require.NoError(t, err)
		assert.Contains(t, contextText, "best chunk")
		assert.NotContains(t, contextText, "worse chunk")
		require.Len(t, sources, 1)
	})

	t.Run("blocks are labelled with source and relevance", func(t *testing.T) {
		svc, embedder, store := newRetrieverFixture(t)
		embedder.vectors["q"] = []float32{1, 0}

		seedEntries(t, store, []domain.Entry{
			{DocumentID: "doc1", Text: "passage", Vector: []float32{1, 0}},
		})

		contextText, _, err := svc.GetRelevantContext(ctx, "q", 5)
		require.NoError(t, err)
		assert.Contains(t, contextText, fmt.Sprintf("[Document 1] (Source: doc1, Relevance: %.2f)", 1.0))
	})
}
