// Package storagetest provides an in-memory test double for the
// storage.VectorStore interface.
//
// The default behavior models the pieces of a real vector store the
// ingestion tests depend on: collection lifecycle, store-side dimension
// enforcement, and per-call insert acknowledgments. Function fields allow
// injecting failures for specific calls.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/storage"
)

// Store is an in-memory storage.VectorStore double.
type Store struct {
	// ListCollectionsFunc, CreateCollectionFunc, DropCollectionFunc and
	// InsertFunc override the default in-memory behavior if set.
	ListCollectionsFunc  func(ctx context.Context) ([]string, error)
	CreateCollectionFunc func(ctx context.Context, spec core.CollectionSpec) error
	DropCollectionFunc   func(ctx context.Context, name string) error
	InsertFunc           func(ctx context.Context, collection, vectorField string, records ...core.ImageRecord) (int, error)

	mu          sync.Mutex
	collections map[string]core.CollectionSpec
	records     map[string][]map[string]any

	listCalls   int
	createCalls int
	dropCalls   int
	insertCalls int
	closed      bool
}

var _ storage.VectorStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]core.CollectionSpec),
		records:     make(map[string][]map[string]any),
	}
}

// ListCollections returns the names of all collections, in no particular
// order.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	if s.ListCollectionsFunc != nil {
		return s.ListCollectionsFunc(ctx)
	}

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	return names, nil
}

// CreateCollection records the collection schema.
func (s *Store) CreateCollection(ctx context.Context, spec core.CollectionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++

	if s.closed {
		return storage.ErrStorageClosed
	}

	if s.CreateCollectionFunc != nil {
		return s.CreateCollectionFunc(ctx, spec)
	}

	s.collections[spec.Name] = spec
	return nil
}

// DropCollection removes a collection and its records. Dropping an absent
// collection is a no-op, matching real store semantics.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropCalls++

	if s.closed {
		return storage.ErrStorageClosed
	}

	if s.DropCollectionFunc != nil {
		return s.DropCollectionFunc(ctx, name)
	}

	delete(s.collections, name)
	delete(s.records, name)
	return nil
}

// Insert stores the flattened record rows. Records whose vector length
// differs from the collection's declared dimension are rejected the way
// the remote store would reject them. Like the other operations, Insert
// fails with storage.ErrStorageClosed after Close.
func (s *Store) Insert(ctx context.Context, collection, vectorField string, records ...core.ImageRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++

	if s.closed {
		return 0, storage.ErrStorageClosed
	}

	if s.InsertFunc != nil {
		return s.InsertFunc(ctx, collection, vectorField, records...)
	}

	spec, ok := s.collections[collection]
	if !ok {
		return 0, fmt.Errorf("%w: %s", storage.ErrCollectionNotFound, collection)
	}

	for _, record := range records {
		if len(record.Vector) != spec.Dimension {
			return 0, fmt.Errorf("%w: collection expects %d, record has %d",
				storage.ErrDimensionMismatch, spec.Dimension, len(record.Vector))
		}
	}

	for _, record := range records {
		s.records[collection] = append(s.records[collection], record.Fields(vectorField))
	}
	return len(records), nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CollectionSpec returns the stored schema for a collection and whether
// it exists.
func (s *Store) CollectionSpec(name string) (core.CollectionSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec, ok := s.collections[name]
	return spec, ok
}

// Rows returns the flattened rows inserted into a collection.
func (s *Store) Rows(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.records[collection]...)
}

// ListCalls returns the number of ListCollections calls.
func (s *Store) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// CreateCalls returns the number of CreateCollection calls.
func (s *Store) CreateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls
}

// DropCalls returns the number of DropCollection calls.
func (s *Store) DropCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropCalls
}

// InsertCalls returns the number of Insert calls.
func (s *Store) InsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCalls
}
