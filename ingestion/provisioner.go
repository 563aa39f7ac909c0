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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/storage"
)

// Outcome reports what provisioning did to the target collection.
type Outcome int

const (
	// OutcomeCreated means the collection did not exist and was created.
	OutcomeCreated Outcome = iota + 1

	// OutcomeSkipped means the collection already exists and replacement
	// was not requested. Its schema is unverified: the caller must not
	// ingest into it.
	OutcomeSkipped

	// OutcomeReplaced means an existing collection was dropped and
	// recreated with the new schema.
	OutcomeReplaced
)

// String returns the outcome name for log lines.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeReplaced:
		return "replaced"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Provisioner ensures the target collection exists with the desired
// schema before ingestion.
type Provisioner struct {
	store  storage.VectorStore
	logger *slog.Logger
}

// NewProvisioner creates a provisioner. A nil logger falls back to
// slog.Default().
func NewProvisioner(store storage.VectorStore, logger *slog.Logger) (*Provisioner, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{store: store, logger: logger}, nil
}

// Provision creates the collection described by spec, or skips/replaces
// an existing one depending on forceReplace.
//
// The spec is validated before any store interaction; a dimension <= 0
// never reaches the network. When the name already exists and
// forceReplace is false, the existing collection is left untouched and
// OutcomeSkipped is returned - the caller must not proceed to ingest,
// since the existing schema is unknown and may be incompatible.
func (p *Provisioner) Provision(ctx context.Context, spec core.CollectionSpec, forceReplace bool) (Outcome, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}

	existing, err := p.store.ListCollections(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing collections: %w", err)
	}

	if slices.Contains(existing, spec.Name) {
		if !forceReplace {
			p.logger.Warn("collection already exists, leaving it untouched; "+
				"rerun with --replace-collection for a fresh collection with the same name "+
				"(destroying the existing one)",
				"collection", spec.Name)
			return OutcomeSkipped, nil
		}

		if err := p.store.DropCollection(ctx, spec.Name); err != nil {
			return 0, fmt.Errorf("dropping collection %s: %w", spec.Name, err)
		}
		p.logger.Info("collection dropped", "collection", spec.Name)

		if err := p.store.CreateCollection(ctx, spec); err != nil {
			return 0, err
		}
		p.logger.Info("collection replaced",
			"collection", spec.Name, "dimension", spec.Dimension, "metric", spec.Metric)
		return OutcomeReplaced, nil
	}

	// Absent name: forceReplace with nothing to drop is the plain
	// create branch, not an error.
	if err := p.store.CreateCollection(ctx, spec); err != nil {
		return 0, err
	}
	p.logger.Info("collection created",
		"collection", spec.Name, "dimension", spec.Dimension, "metric", spec.Metric)
	return OutcomeCreated, nil
}
