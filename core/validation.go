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

import "fmt"

// ParseDatasetType maps a CLI selector onto a DatasetType.
// Anything outside the closed set fails with ErrUnsupportedDataset.
func ParseDatasetType(s string) (DatasetType, error) {
	switch DatasetType(s) {
	case DatasetFlickr8k:
		return DatasetFlickr8k, nil
	case DatasetFlickr30k:
		return DatasetFlickr30k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDataset, s)
	}
}

// Validate checks a CollectionSpec according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - VectorField must not be empty
//   - Dimension must be a positive integer
//
// NOT validated:
//   - Metric (the store rejects unknown metric types on creation)
func (s CollectionSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCollectionSpec, ErrEmptyCollectionName)
	}

	if s.VectorField == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCollectionSpec, ErrEmptyVectorField)
	}

	if s.Dimension <= 0 {
		return fmt.Errorf("%w: %w: got %d", ErrInvalidCollectionSpec, ErrInvalidDimension, s.Dimension)
	}

	return nil
}

// ValidateImageRecord validates an ImageRecord before insertion.
//
// Validation rules:
//   - Filename must not be empty
//   - Vector must not be empty
//   - Extra keys must not collide with reserved field names
//
// NOT validated:
//   - Caption (datasets may legitimately carry empty captions)
//   - Vector length (a mismatch with the collection dimension surfaces
//     as a store rejection, not a local error)
func ValidateImageRecord(record *ImageRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidImageRecord)
	}

	if record.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImageRecord, ErrEmptyFilename)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidImageRecord, ErrEmptyVector)
	}

	for key := range record.Extra {
		if key == FieldFilename || key == FieldCaption {
			return fmt.Errorf("%w: %w: %q", ErrInvalidImageRecord, ErrReservedField, key)
		}
	}

	return nil
}
