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


// Package badger implements storage.CheckpointStore on BadgerDB.
//
// Ingestion cursors are tiny and written often; a local embedded
// key-value store keeps them off the network path entirely.
package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/storage"
)

// Key prefix for ingestion cursors.
const checkpointPrefix = "ingcur"

// CheckpointStore implements storage.CheckpointStore on a BadgerDB
// database.
type CheckpointStore struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.CheckpointStore = (*CheckpointStore)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// openCheckpointStore is an internal constructor that returns the
// concrete type.
func openCheckpointStore(dir string, inMemory bool) (*CheckpointStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		} else if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		opts = badger.DefaultOptions(dir)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &CheckpointStore{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// OpenCheckpointStore opens (or creates) a checkpoint database in the
// given directory.
//
// Returns storage.CheckpointStore interface to enforce abstraction.
func OpenCheckpointStore(dir string) (storage.CheckpointStore, error) {
	return openCheckpointStore(dir, false)
}

// OpenMemoryCheckpointStore opens an in-memory checkpoint database for
// tests.
func OpenMemoryCheckpointStore() (storage.CheckpointStore, error) {
	return openCheckpointStore("", true)
}

// Save persists a checkpoint, overwriting any previous cursor for the
// same dataset.
func (s *CheckpointStore) Save(ctx context.Context, checkpoint *core.Checkpoint) error {
	checkpoint.UpdatedAt = time.Now().UTC()
	key := makeCheckpointKey(checkpoint.Dataset)
	value := storage.MarshalCheckpoint(checkpoint)

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// Load retrieves the checkpoint for a dataset fingerprint.
// Returns nil, nil if no checkpoint exists.
func (s *CheckpointStore) Load(ctx context.Context, dataset string) (*core.Checkpoint, error) {
	var checkpoint *core.Checkpoint
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(dataset))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			checkpoint, unmarshalErr = storage.UnmarshalCheckpoint(val)
			return unmarshalErr
		})
	})

	return checkpoint, err
}

// Close closes the underlying database.
func (s *CheckpointStore) Close() error {
	return s.db.Close()
}

// makeCheckpointKey generates the key for a dataset cursor.
func makeCheckpointKey(dataset string) []byte {
	return []byte(checkpointPrefix + ":" + dataset)
}
