// Package services implements the driving ports on top of the driven
// capability interfaces.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/glasswing-labs/ragcore/internal/chunker"
	"github.com/glasswing-labs/ragcore/internal/core/domain"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driven"
	"github.com/glasswing-labs/ragcore/internal/core/ports/driving"
	"github.com/glasswing-labs/ragcore/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// DefaultIndexConcurrency bounds the worker pool used by IndexAll.
const DefaultIndexConcurrency = 4

// IndexerService orchestrates chunking, embedding and storage with a
// content-hash cache. Same-document calls are serialised through a
// per-document mutex; different documents may index in parallel.
type IndexerService struct {
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
	cache    driven.IndexCacheStore

	limiter     *rate.Limiter
	concurrency int

	mu       sync.Mutex
	docLocks map[string]*sync.Mutex
}

// IndexerOption configures the indexer service.
type IndexerOption func(*IndexerService)

// WithConcurrency sets the worker pool size for IndexAll.
func WithConcurrency(n int) IndexerOption {
	return func(s *IndexerService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRateLimiter throttles embedding batches to respect provider
// rate limits.
func WithRateLimiter(l *rate.Limiter) IndexerOption {
	return func(s *IndexerService) {
		s.limiter = l
	}
}

// NewIndexerService creates an indexer service.
func NewIndexerService(
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	cache driven.IndexCacheStore,
	opts ...IndexerOption,
) *IndexerService {
	s := &IndexerService{
		chunker:     ch,
		embedder:    embedder,
		store:       store,
		cache:       cache,
		concurrency: DefaultIndexConcurrency,
		docLocks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IndexDocument indexes one document. Ordering matters for atomicity:
// embeddings are generated before any store mutation, old entries are
// replaced and the cache is updated only after the new batch is stored.
// A failure or cancellation before the store add leaves store and cache
// exactly as they were.
func (s *IndexerService) IndexDocument(
	ctx context.Context, doc *domain.Document,
) (driving.IndexOutcome, error) {
	outcome := driving.IndexOutcome{DocumentID: doc.ID, Status: driving.StatusFailed}

	if doc.ID == "" {
		err := fmt.Errorf("%w: document ID is required", domain.ErrInvalidArgument)
		outcome.Err = err
		return outcome, err
	}

	lock := s.documentLock(doc.ID)
	lock.Lock()
	defer lock.Unlock()

	hash := doc.ContentHash()

	cached, ok, err := s.cache.Get(ctx, doc.ID)
	if err != nil {
		err = fmt.Errorf("read index cache: %w", err)
		outcome.Err = err
		return outcome, err
	}
	if ok && cached == hash {
		logger.Debug("Document %s unchanged, skipping", doc.ID)
		outcome.Status = driving.StatusSkipped
		outcome.Err = nil
		return outcome, nil
	}

	chunks := s.chunker.Split(doc.ID, doc.Text)
	logger.Debug("Document %s: %d chunks", doc.ID, len(chunks))

	var entries []domain.Entry
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Text
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				outcome.Err = err
				return outcome, err
			}
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			err = fmt.Errorf("embed chunks for %s: %w", doc.ID, err)
			outcome.Err = err
			return outcome, err
		}
		if len(vectors) != len(chunks) {
			err = fmt.Errorf("%w: provider returned %d vectors for %d chunks",
				domain.ErrEmbeddingProvider, len(vectors), len(chunks))
			outcome.Err = err
			return outcome, err
		}

		entries = make([]domain.Entry, len(chunks))
		for i := range chunks {
			entries[i] = domain.Entry{
				DocumentID: doc.ID,
				Text:       chunks[i].Text,
				Vector:     vectors[i],
				Metadata:   entryMetadata(doc, chunks[i].Index),
			}
		}
	}

	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome, err
	}

	// Replace previous entries so re-indexing modified content never
	// accumulates stale chunks.
	removed, err := s.store.DeleteByDocument(ctx, doc.ID)
	if err != nil {
		err = fmt.Errorf("remove previous entries for %s: %w", doc.ID, err)
		outcome.Err = err
		return outcome, err
	}
	if removed > 0 {
		logger.Debug("Document %s: replaced %d previous entries", doc.ID, removed)
	}

	if len(entries) > 0 {
		if _, err := s.store.Add(ctx, entries); err != nil {
			err = fmt.Errorf("store entries for %s: %w", doc.ID, err)
			outcome.Err = err
			return outcome, err
		}
	}

	if err := s.cache.Put(ctx, doc.ID, hash); err != nil {
		err = fmt.Errorf("update index cache for %s: %w", doc.ID, err)
		outcome.Err = err
		return outcome, err
	}

	logger.Info("Indexed %s: %d chunks", doc.ID, len(entries))
	outcome.Status = driving.StatusIndexed
	outcome.Chunks = len(entries)
	outcome.Err = nil
	return outcome, nil
}

// IndexAll fans documents out over a bounded worker pool. Outcomes are
// returned in input order.
func (s *IndexerService) IndexAll(
	ctx context.Context, docs []*domain.Document,
) ([]driving.IndexOutcome, error) {
	outcomes := make([]driving.IndexOutcome, len(docs))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome, err := s.IndexDocument(ctx, docs[i])
			if err != nil {
				logger.Warn("Indexing %s failed: %v", docs[i].ID, err)
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	var errs []error
	for i := range outcomes {
		if outcomes[i].Err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", outcomes[i].DocumentID, outcomes[i].Err))
		}
	}
	return outcomes, errors.Join(errs...)
}

// RemoveDocument deletes a document's entries and cache record.
func (s *IndexerService) RemoveDocument(ctx context.Context, documentID string) (int, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	removed, err := s.store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete entries for %s: %w", documentID, err)
	}
	if err := s.cache.Delete(ctx, documentID); err != nil {
		return removed, fmt.Errorf("forget cache for %s: %w", documentID, err)
	}
	logger.Info("Removed %s: %d entries", documentID, removed)
	return removed, nil
}

// documentLock returns the mutex serialising operations on one document.
func (s *IndexerService) documentLock(documentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.docLocks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.docLocks[documentID] = lock
	}
	return lock
}

// entryMetadata copies document metadata onto an entry and adds the
// chunk-level keys retrieval needs.
func entryMetadata(doc *domain.Document, chunkIndex int) map[string]any {
	meta := make(map[string]any, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	if doc.Title != "" {
		meta["title"] = doc.Title
	}
	meta["chunk"] = chunkIndex
	return meta
}
