// Copyright 2025 Vektoria Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package milvus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/storage"
)

// primaryField is the fixed auto-id primary key of every collection this
// tool creates.
const primaryField = "id"

// Config holds connection settings for a Milvus deployment.
type Config struct {
	// URI is the Milvus server address, e.g. "localhost:19530".
	URI string

	// DBName selects the database namespace. Empty means the server
	// default.
	DBName string
}

// Store implements storage.VectorStore on a Milvus connection.
type Store struct {
	client *milvusclient.Client
	logger *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// newStore is an internal constructor that returns the concrete type.
func newStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.URI,
		DBName:  cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to milvus at %s: %w", cfg.URI, err)
	}

	return &Store{
		client: client,
		logger: slog.Default().With("component", "milvus-store"),
	}, nil
}

// NewStore connects to Milvus using the provided configuration.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewStore(ctx context.Context, cfg Config) (storage.VectorStore, error) {
	return newStore(ctx, cfg)
}

// ListCollections returns the names of all collections in the configured
// database.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.client.ListCollections(ctx, milvusclient.NewListCollectionOption())
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return names, nil
}

// CreateCollection creates a collection with the schema derived from the
// spec and an AUTOINDEX carrying the requested metric type.
func (s *Store) CreateCollection(ctx context.Context, spec core.CollectionSpec) error {
	schema := collectionSchema(spec)

	opt := milvusclient.NewCreateCollectionOption(spec.Name, schema).
		WithIndexOptions(milvusclient.NewCreateIndexOption(
			spec.Name,
			spec.VectorField,
			index.NewAutoIndex(entity.MetricType(spec.Metric)),
		))

	if err := s.client.CreateCollection(ctx, opt); err != nil {
		return fmt.Errorf("creating collection %s: %w", spec.Name, err)
	}

	s.logger.Debug("collection created",
		"collection", spec.Name, "dimension", spec.Dimension, "metric", spec.Metric)
	return nil
}

// DropCollection deletes a collection and all its records.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(name)); err != nil {
		return fmt.Errorf("dropping collection %s: %w", name, err)
	}
	return nil
}

// Insert submits records as row data. Filename, caption and any extra
// attributes land in the dynamic field; the store assigns identifiers.
func (s *Store) Insert(ctx context.Context, collection, vectorField string, records ...core.ImageRecord) (int, error) {
	rows := make([]any, len(records))
	for i := range records {
		rows[i] = records[i].Fields(vectorField)
	}

	result, err := s.client.Insert(ctx, milvusclient.NewRowBasedInsertOption(collection, rows...))
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", collection, err)
	}

	return int(result.InsertCount), nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.client.Close(context.Background())
}

// collectionSchema builds the Milvus schema for a CollectionSpec: an
// auto-id Int64 primary key plus the vector field, with dynamic fields
// enabled per the spec.
func collectionSchema(spec core.CollectionSpec) *entity.Schema {
	return entity.NewSchema().
		WithName(spec.Name).
		WithDynamicFieldEnabled(spec.DynamicFields).
		WithField(entity.NewField().
			WithName(primaryField).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(spec.AutoID)).
		WithField(entity.NewField().
			WithName(spec.VectorField).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(spec.Dimension)))
}
