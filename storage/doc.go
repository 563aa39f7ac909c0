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


// Package storage provides the storage abstraction layer for imgest.
//
// Two concerns live behind it:
//
//   - VectorStore: the remote vector-search collection that holds the
//     ingested records (storage/milvus in production,
//     storage/storagetest in tests)
//   - CheckpointStore: the local cursor that makes sequential ingestion
//     runs resumable (storage/badger)
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the interface
// types defined here to enforce abstraction:
//
//	store, err := milvus.NewStore(ctx, cfg)       // returns storage.VectorStore
//	cps, err := badger.OpenCheckpointStore(dir)   // returns storage.CheckpointStore
//
// # Thread Safety
//
// All implementations must be thread-safe; the ingestion pipeline may
// issue inserts from a bounded worker pool.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout
// support.
package storage
