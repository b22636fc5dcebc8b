package domain

import "errors"

// Domain errors represent failures the caller can branch on with errors.Is.
// Infrastructure errors are wrapped around these sentinels.
var (
	// ErrInvalidConfiguration indicates a fatal construction-time error:
	// bad chunk/overlap sizes, a non-positive dimension, or an attempt to
	// open a persisted index with a different dimension or metric.
	// Never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument indicates a malformed call, such as a
	// non-positive top-k on a query.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch indicates a vector whose length differs from
	// the store's configured dimension. The whole batch is rejected; the
	// store is left unchanged.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingProvider indicates the embedding provider failed.
	// Transient by default; retry policy belongs to the caller.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrGenerationProvider indicates the text generation provider failed.
	// Transient by default; retry policy belongs to the caller.
	ErrGenerationProvider = errors.New("generation provider error")

	// ErrStoreIO indicates a persistence failure. Persist and Load never
	// leave the on-disk artifact half-written.
	ErrStoreIO = errors.New("store I/O error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
