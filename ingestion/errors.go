package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrExtractorRequired is returned when a feature extractor is not provided.
	ErrExtractorRequired = errors.New("feature extractor required")

	// ErrInvalidMaxAttempts is returned for a retry configuration with
	// fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")

	// ErrCheckpointNeedsSequential is returned when checkpointing is
	// combined with a worker pool. The cursor is a sequential notion; a
	// pool completes items out of order.
	ErrCheckpointNeedsSequential = errors.New("checkpointing requires a sequential pipeline (pool size 1)")
)
