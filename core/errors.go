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


package core

import "errors"

// Configuration errors. These are fatal and surface before any store
// interaction.
var (
	// ErrUnsupportedDataset indicates an unknown dataset type selector.
	ErrUnsupportedDataset = errors.New("unsupported dataset type")

	// ErrInvalidDimension indicates a collection dimension <= 0.
	ErrInvalidDimension = errors.New("dimension must be a positive integer")

	// ErrEmptyCollectionName indicates the collection Name field is empty.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrEmptyVectorField indicates the VectorField field is empty.
	ErrEmptyVectorField = errors.New("vector field name cannot be empty")

	// ErrInvalidCollectionSpec indicates a CollectionSpec failed validation.
	ErrInvalidCollectionSpec = errors.New("invalid collection spec")
)

// Per-item errors. These are contained within one pipeline iteration: the
// item is skipped, the run continues.
var (
	// ErrItemLoad indicates an image file is missing or corrupt.
	ErrItemLoad = errors.New("image load failed")

	// ErrExtraction indicates the feature extractor rejected an image.
	ErrExtraction = errors.New("feature extraction failed")

	// ErrInsert indicates the store rejected a record.
	ErrInsert = errors.New("insert failed")
)

// Record errors.
var (
	// ErrInvalidImageRecord indicates an ImageRecord failed validation.
	ErrInvalidImageRecord = errors.New("invalid image record")

	// ErrEmptyFilename indicates the Filename field is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrEmptyVector indicates the embedding vector is empty.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")

	// ErrReservedField indicates an Extra attribute collides with a
	// reserved field name.
	ErrReservedField = errors.New("extra field uses a reserved name")
)
