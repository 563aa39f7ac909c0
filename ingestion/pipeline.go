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
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/vektoria/imgest/ai"
	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/dataset"
	"github.com/vektoria/imgest/storage"
)

// Pipeline drives a dataset through feature extraction into a vector
// store collection, one record per image. Item failures are contained:
// they are logged and the run continues.
type Pipeline struct {
	store     storage.VectorStore
	extractor ai.FeatureExtractor
	logger    *slog.Logger

	pool     *ants.Pool
	poolSize int

	maxAttempts int
	retryDelay  time.Duration

	checkpoints storage.CheckpointStore
	fingerprint string

	progressWriter io.Writer
	reportInterval int

	extraFields map[string]string
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPoolSize enables a bounded worker pool for concurrent item
// processing. Size 1 (the default) keeps the run strictly sequential;
// insertion order is only guaranteed in sequential mode.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.poolSize = size
		return nil
	}
}

// WithRetry makes the extraction and insert calls retry transient
// failures with exponential backoff. Default is a single attempt.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithCheckpoints persists a cursor keyed by the dataset fingerprint
// after every item, and resumes from it on the next run. Requires the
// sequential pipeline: a worker pool completes items out of order, so
// a cursor would skip unfinished work.
func WithCheckpoints(store storage.CheckpointStore, fingerprint string) Option {
	return func(p *Pipeline) error {
		p.checkpoints = store
		p.fingerprint = fingerprint
		return nil
	}
}

// WithProgress prints a progress line to writer every reportInterval
// processed items. Default is no progress output.
func WithProgress(writer io.Writer, reportInterval int) Option {
	return func(p *Pipeline) error {
		if reportInterval < 1 {
			reportInterval = 1
		}
		p.progressWriter = writer
		p.reportInterval = reportInterval
		return nil
	}
}

// WithExtraFields attaches static dynamic attributes to every inserted
// record. Keys must not collide with the reserved field names; the
// collision surfaces as a per-item validation error.
func WithExtraFields(fields map[string]string) Option {
	return func(p *Pipeline) error {
		p.extraFields = fields
		return nil
	}
}

// New creates an ingestion pipeline.
func New(store storage.VectorStore, extractor ai.FeatureExtractor, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		store:       store,
		extractor:   extractor,
		logger:      slog.Default(),
		poolSize:    1,
		maxAttempts: 1,
		retryDelay:  time.Second,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.checkpoints != nil && p.poolSize > 1 {
		return nil, ErrCheckpointNeedsSequential
	}

	if p.poolSize > 1 {
		pool, err := ants.NewPool(p.poolSize)
		if err != nil {
			return nil, err
		}
		p.pool = pool
	}

	return p, nil
}

// Release frees the worker pool, if any. The pipeline must not be used
// after Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
		p.pool = nil
	}
}

// Run ingests every item of the dataset into the collection, tagging
// embeddings with the given vector field name.
//
// Attempted counts every item the pipeline processed, successful or
// not; Inserted counts only records the store acknowledged. Both are
// returned even when the run is cut short by cancellation, alongside
// the context's error.
func (p *Pipeline) Run(ctx context.Context, ds dataset.Dataset, collection, vectorField string) (core.IngestionResult, error) {
	total := ds.Len()
	p.logger.Info("starting ingestion",
		"items", total, "collection", collection, "poolSize", p.poolSize)

	startIndex := 0
	if p.checkpoints != nil {
		checkpoint, err := p.checkpoints.Load(ctx, p.fingerprint)
		if err != nil {
			return core.IngestionResult{}, fmt.Errorf("loading checkpoint: %w", err)
		}
		if checkpoint != nil {
			startIndex = checkpoint.NextIndex
			p.logger.Info("resuming from checkpoint",
				"dataset", p.fingerprint, "nextIndex", startIndex)
		}
	}

	var tracker *progressTracker
	if p.progressWriter != nil {
		tracker = newProgressTracker(p.progressWriter, total, p.reportInterval)
		tracker.start()
		if startIndex > 0 {
			tracker.increment(startIndex)
		}
	}

	var attempted, inserted atomic.Int64

	process := func(item dataset.Item) {
		attempted.Add(1)
		count, err := p.processItem(ctx, item, collection, vectorField)
		if err != nil {
			p.logger.Warn("item failed, continuing",
				"image", item.ImagePath, "error", err)
		} else {
			inserted.Add(int64(count))
		}
		if tracker != nil {
			tracker.increment(1)
		}
	}

	var runErr error
	if p.pool != nil {
		var wg sync.WaitGroup
		runErr = ds.ForEach(ctx, func(i int, item dataset.Item) error {
			if i < startIndex {
				return nil
			}
			wg.Add(1)
			if err := p.pool.Submit(func() {
				defer wg.Done()
				process(item)
			}); err != nil {
				wg.Done()
				return fmt.Errorf("submitting item to pool: %w", err)
			}
			return nil
		})
		wg.Wait()
	} else {
		runErr = ds.ForEach(ctx, func(i int, item dataset.Item) error {
			if i < startIndex {
				return nil
			}
			process(item)
			// A cancelled item's insert was aborted, so the cursor must
			// not advance past it: the resumed run retries it.
			if p.checkpoints != nil && ctx.Err() == nil {
				checkpoint := &core.Checkpoint{Dataset: p.fingerprint, NextIndex: i + 1}
				if err := p.checkpoints.Save(ctx, checkpoint); err != nil {
					p.logger.Warn("failed to save checkpoint", "error", err)
				}
			}
			return nil
		})
	}

	if tracker != nil && runErr == nil {
		tracker.finish()
	}

	result := core.IngestionResult{
		Attempted: int(attempted.Load()),
		Inserted:  int(inserted.Load()),
	}

	if runErr != nil {
		p.logger.Warn("ingestion interrupted",
			"attempted", result.Attempted, "inserted", result.Inserted, "error", runErr)
		return result, runErr
	}

	p.logger.Info("ingestion complete",
		"attempted", result.Attempted, "inserted", result.Inserted)
	return result, nil
}

// processItem handles one image end to end: load, extract, insert.
// Returns the number of records the store acknowledged.
func (p *Pipeline) processItem(ctx context.Context, item dataset.Item, collection, vectorField string) (int, error) {
	img, err := dataset.LoadImage(item.ImagePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrItemLoad, err)
	}

	var vector []float32
	err = retryWithBackoff(ctx, func() error {
		var exErr error
		vector, exErr = p.extractor.GetImageFeatures(ctx, img)
		return exErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrExtraction, err)
	}

	record := core.ImageRecord{
		Filename: item.ImagePath,
		Caption:  item.BestCaption(),
		Vector:   vector,
		Extra:    p.extraFields,
	}
	if err := core.ValidateImageRecord(&record); err != nil {
		return 0, err
	}

	var count int
	err = retryWithBackoff(ctx, func() error {
		var insErr error
		count, insErr = p.store.Insert(ctx, collection, vectorField, record)
		return insErr
	}, p.maxAttempts, p.retryDelay)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrInsert, err)
	}

	return count, nil
}
