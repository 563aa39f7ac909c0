package storage

import (
	"context"

	"github.com/vektoria/imgest/core"
)

// VectorStore provides the collection lifecycle and insertion operations
// of a remote vector store. Implementations must be thread-safe.
type VectorStore interface {
	// ListCollections returns the names of all collections in the
	// configured database namespace.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a collection with the given schema.
	// The spec must already be validated; the store may still reject it.
	CreateCollection(ctx context.Context, spec core.CollectionSpec) error

	// DropCollection deletes a collection and all its records.
	// Dropping a collection that does not exist is not an error.
	DropCollection(ctx context.Context, name string) error

	// Insert submits records to a collection, tagging each embedding
	// with the given vector field name. The store assigns identifiers.
	// Returns the number of records the store acknowledged as durably
	// accepted, which may be lower than len(records) on rejection.
	Insert(ctx context.Context, collection, vectorField string, records ...core.ImageRecord) (int, error)

	// Close releases the connection to the store.
	Close() error
}

// CheckpointStore persists ingestion cursors so interrupted runs can
// resume. Checkpoints are keyed by dataset fingerprint.
type CheckpointStore interface {
	// Save persists a checkpoint, overwriting any previous cursor for
	// the same dataset. UpdatedAt is set by the implementation.
	Save(ctx context.Context, checkpoint *core.Checkpoint) error

	// Load retrieves the checkpoint for a dataset fingerprint.
	// Returns nil, nil if no checkpoint exists.
	Load(ctx context.Context, dataset string) (*core.Checkpoint, error)

	// Close closes the underlying database.
	Close() error
}
