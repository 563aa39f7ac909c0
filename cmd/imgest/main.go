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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/vektoria/imgest/ai"
	"github.com/vektoria/imgest/ai/clip"
	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/dataset"
	"github.com/vektoria/imgest/ingestion"
	"github.com/vektoria/imgest/storage"
	"github.com/vektoria/imgest/storage/badger"
	"github.com/vektoria/imgest/storage/milvus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "imgest",
		Usage: "Ingest image datasets into a Milvus vector collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "insert",
				Usage:  "Embed an image dataset and insert it into a collection",
				Action: insertCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data-path",
						Aliases:  []string{"p"},
						Usage:    "Path to the dataset root directory",
						Required: true,
						EnvVars:  []string{"IMGEST_DATA_PATH"},
					},
					&cli.StringFlag{
						Name:     "data-type",
						Aliases:  []string{"t"},
						Usage:    "Dataset layout (flickr8k, flickr30k)",
						Required: true,
						EnvVars:  []string{"IMGEST_DATA_TYPE"},
					},
					&cli.StringFlag{
						Name:    "uri",
						Usage:   "Milvus server address",
						Value:   "localhost:19530",
						EnvVars: []string{"IMGEST_URI"},
					},
					&cli.StringFlag{
						Name:    "db-name",
						Usage:   "Milvus database name",
						Value:   "default",
						EnvVars: []string{"IMGEST_DB_NAME"},
					},
					&cli.StringFlag{
						Name:    "collection-name",
						Usage:   "Target collection name",
						Value:   "flickr_images",
						EnvVars: []string{"IMGEST_COLLECTION_NAME"},
					},
					&cli.IntFlag{
						Name:    "dimension",
						Usage:   "Embedding vector dimension",
						Value:   768,
						EnvVars: []string{"IMGEST_DIMENSION"},
					},
					&cli.StringFlag{
						Name:    "metric-type",
						Usage:   "Similarity metric for the vector index (COSINE, L2, IP)",
						Value:   "COSINE",
						EnvVars: []string{"IMGEST_METRIC_TYPE"},
					},
					&cli.StringFlag{
						Name:    "vector-field",
						Usage:   "Name of the vector field in the collection schema",
						Value:   "vector",
						EnvVars: []string{"IMGEST_VECTOR_FIELD"},
					},
					&cli.BoolFlag{
						Name:    "replace-collection",
						Usage:   "Drop and recreate the collection if it already exists",
						EnvVars: []string{"IMGEST_REPLACE_COLLECTION"},
					},
					&cli.StringFlag{
						Name:    "extractor-host",
						Usage:   "Feature extraction service host URL",
						Value:   "http://localhost:8080/v1",
						EnvVars: []string{"IMGEST_EXTRACTOR_HOST"},
					},
					&cli.StringFlag{
						Name:    "extractor-model",
						Usage:   "Feature extraction model name",
						Value:   "jina-clip-v1",
						EnvVars: []string{"IMGEST_EXTRACTOR_MODEL"},
					},
					&cli.StringFlag{
						Name:    "extractor-api-key",
						Usage:   "API key for hosted extraction services",
						EnvVars: []string{"IMGEST_EXTRACTOR_API_KEY"},
					},
					&cli.IntFlag{
						Name:    "pool-size",
						Usage:   "Worker pool size (1 means sequential ingestion)",
						Value:   1,
						EnvVars: []string{"IMGEST_POOL_SIZE"},
					},
					&cli.IntFlag{
						Name:    "max-retries",
						Usage:   "Maximum attempts for extraction and insert calls",
						Value:   1,
						EnvVars: []string{"IMGEST_MAX_RETRIES"},
					},
					&cli.DurationFlag{
						Name:    "retry-delay",
						Usage:   "Base delay for exponential backoff",
						Value:   1 * time.Second,
						EnvVars: []string{"IMGEST_RETRY_DELAY"},
					},
					&cli.StringFlag{
						Name:    "checkpoint-dir",
						Usage:   "Directory for resume checkpoints (requires pool-size 1)",
						EnvVars: []string{"IMGEST_CHECKPOINT_DIR"},
					},
					&cli.IntFlag{
						Name:    "report-interval",
						Usage:   "Report progress every N images",
						Value:   50,
						EnvVars: []string{"IMGEST_REPORT_INTERVAL"},
					},
				},
			},
		},
	}
}

func insertCommand(c *cli.Context) error {
	ctx := c.Context

	// Resolve the dataset before touching the network: a bad path or an
	// unknown type should fail without a server round trip.
	dataType, err := core.ParseDatasetType(c.String("data-type"))
	if err != nil {
		return err
	}

	dataPath := c.String("data-path")
	ds, err := dataset.Open(dataType, dataPath)
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}

	store, err := milvus.NewStore(ctx, milvus.Config{
		URI:    c.String("uri"),
		DBName: c.String("db-name"),
	})
	if err != nil {
		return fmt.Errorf("connecting to milvus: %w", err)
	}
	defer store.Close()

	spec := core.CollectionSpec{
		Name:          c.String("collection-name"),
		VectorField:   c.String("vector-field"),
		Dimension:     c.Int("dimension"),
		Metric:        c.String("metric-type"),
		AutoID:        true,
		DynamicFields: true,
	}

	extractorConfig := ai.NewConfig(
		ai.WithHost(c.String("extractor-host")),
		ai.WithModel(c.String("extractor-model")),
		ai.WithAPIKey(c.String("extractor-api-key")),
	)
	extractor, err := clip.NewExtractor(extractorConfig)
	if err != nil {
		return fmt.Errorf("creating feature extractor: %w", err)
	}

	opts := []ingestion.Option{
		ingestion.WithProgress(os.Stderr, c.Int("report-interval")),
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}

	if dir := c.String("checkpoint-dir"); dir != "" {
		checkpoints, err := badger.OpenCheckpointStore(dir)
		if err != nil {
			return fmt.Errorf("opening checkpoint store: %w", err)
		}
		defer checkpoints.Close()
		opts = append(opts,
			ingestion.WithCheckpoints(checkpoints, core.DatasetFingerprint(dataType, dataPath)))
	}

	fmt.Fprintf(os.Stderr, "Dataset: %s (%s, %d images)\n", dataPath, dataType, ds.Len())
	fmt.Fprintf(os.Stderr, "Collection: %s\n", spec.Name)
	fmt.Fprintf(os.Stderr, "Extractor: %s @ %s\n", extractorConfig.Model, extractorConfig.Host)
	fmt.Fprintln(os.Stderr)

	outcome, result, runErr := ingest(ctx, store, extractor, ds, spec, c.Bool("replace-collection"), opts...)
	if outcome == ingestion.OutcomeSkipped {
		// The existing collection's schema is unverified; inserting into
		// it could silently mix dimensions. The warning is already logged.
		return nil
	}
	if runErr != nil && result.Attempted == 0 {
		// Failed before any item was processed: provisioning or pipeline
		// setup, not an interrupted run.
		return runErr
	}

	slog.Info("insert finished",
		"outcome", outcome,
		"attempted", result.Attempted,
		"inserted", result.Inserted,
		"failed", result.Attempted-result.Inserted)

	if runErr != nil {
		return fmt.Errorf("ingestion interrupted: %w", runErr)
	}
	return nil
}

// ingest provisions the target collection and, unless provisioning
// skipped an existing one, runs the pipeline over the dataset. A Skipped
// outcome returns before the extractor or the store's insert path is
// ever touched.
func ingest(ctx context.Context, store storage.VectorStore, extractor ai.FeatureExtractor,
	ds dataset.Dataset, spec core.CollectionSpec, replace bool, opts ...ingestion.Option,
) (ingestion.Outcome, core.IngestionResult, error) {
	provisioner, err := ingestion.NewProvisioner(store, slog.Default())
	if err != nil {
		return 0, core.IngestionResult{}, err
	}

	outcome, err := provisioner.Provision(ctx, spec, replace)
	if err != nil {
		return 0, core.IngestionResult{}, fmt.Errorf("provisioning collection: %w", err)
	}
	if outcome == ingestion.OutcomeSkipped {
		return outcome, core.IngestionResult{}, nil
	}

	pipeline, err := ingestion.New(store, extractor, opts...)
	if err != nil {
		return outcome, core.IngestionResult{}, err
	}
	defer pipeline.Release()

	result, err := pipeline.Run(ctx, ds, spec.Name, spec.VectorField)
	return outcome, result, err
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
