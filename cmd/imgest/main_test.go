package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/vektoria/imgest/ai/mock"
	"github.com/vektoria/imgest/core"
	"github.com/vektoria/imgest/dataset"
	"github.com/vektoria/imgest/ingestion"
	"github.com/vektoria/imgest/storage/storagetest"
)

// writeFixtureDataset lays out a one-image Flickr8k tree and returns its
// root and the opened dataset.
func writeFixtureDataset(t *testing.T) (string, dataset.Dataset) {
	t.Helper()
	root := t.TempDir()
	imageDir := filepath.Join(root, "Images")
	require.NoError(t, os.MkdirAll(imageDir, 0755))

	f, err := os.Create(filepath.Join(imageDir, "img0.jpg"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	index := "image,caption\nimg0.jpg,A dog running through a field\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "captions.txt"), []byte(index), 0644))

	ds, err := dataset.Open(core.DatasetFlickr8k, root)
	require.NoError(t, err)
	return root, ds
}

func fixtureSpec() core.CollectionSpec {
	return core.CollectionSpec{
		Name:          "flickr_images",
		VectorField:   "vector",
		Dimension:     4,
		Metric:        "COSINE",
		AutoID:        true,
		DynamicFields: true,
	}
}

func TestIngestSkipBlocksIngestion(t *testing.T) {
	_, ds := writeFixtureDataset(t)
	store := storagetest.NewStore()
	require.NoError(t, store.CreateCollection(context.Background(), fixtureSpec()))
	extractor := mock.NewMockExtractor(4)

	outcome, result, err := ingest(context.Background(), store, extractor, ds, fixtureSpec(), false)
	require.NoError(t, err)
	assert.Equal(t, ingestion.OutcomeSkipped, outcome)
	assert.Equal(t, core.IngestionResult{}, result)

	// The existing collection is left untouched and nothing is embedded
	// or inserted.
	assert.Equal(t, 0, extractor.CallCount())
	assert.Equal(t, 0, store.InsertCalls())
	assert.Equal(t, 0, store.DropCalls())
}

func TestIngestCreatesAndRuns(t *testing.T) {
	root, ds := writeFixtureDataset(t)
	store := storagetest.NewStore()
	extractor := mock.NewMockExtractor(4)

	outcome, result, err := ingest(context.Background(), store, extractor, ds, fixtureSpec(), false)
	require.NoError(t, err)
	assert.Equal(t, ingestion.OutcomeCreated, outcome)
	assert.Equal(t, core.IngestionResult{Attempted: 1, Inserted: 1}, result)

	rows := store.Rows("flickr_images")
	require.Len(t, rows, 1)
	assert.Equal(t, filepath.Join(root, "Images", "img0.jpg"), rows[0][core.FieldFilename])
}

func TestIngestReplaceRecreatesCollection(t *testing.T) {
	_, ds := writeFixtureDataset(t)
	store := storagetest.NewStore()
	stale := fixtureSpec()
	stale.Dimension = 512
	require.NoError(t, store.CreateCollection(context.Background(), stale))
	extractor := mock.NewMockExtractor(4)

	outcome, result, err := ingest(context.Background(), store, extractor, ds, fixtureSpec(), true)
	require.NoError(t, err)
	assert.Equal(t, ingestion.OutcomeReplaced, outcome)
	assert.Equal(t, core.IngestionResult{Attempted: 1, Inserted: 1}, result)

	spec, ok := store.CollectionSpec("flickr_images")
	require.True(t, ok)
	assert.Equal(t, 4, spec.Dimension)
}

func insertFlags(t *testing.T) []cli.Flag {
	t.Helper()
	app := newApp()
	require.Len(t, app.Commands, 1)
	require.Equal(t, "insert", app.Commands[0].Name)
	return app.Commands[0].Flags
}

func stringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("string flag %q not found", name)
	return nil
}

func intFlag(t *testing.T, flags []cli.Flag, name string) *cli.IntFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("int flag %q not found", name)
	return nil
}

func TestInsertCommandFlags(t *testing.T) {
	t.Run("data-path is required", func(t *testing.T) {
		err := newApp().Run([]string{"imgest", "insert", "--data-type", "flickr8k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data-path")
	})

	t.Run("data-type is required", func(t *testing.T) {
		err := newApp().Run([]string{"imgest", "insert", "--data-path", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data-type")
	})

	t.Run("uri has default value", func(t *testing.T) {
		flag := stringFlag(t, insertFlags(t), "uri")
		assert.Equal(t, "localhost:19530", flag.Value)
	})

	t.Run("collection-name has default value", func(t *testing.T) {
		flag := stringFlag(t, insertFlags(t), "collection-name")
		assert.Equal(t, "flickr_images", flag.Value)
	})

	t.Run("dimension has default value", func(t *testing.T) {
		flag := intFlag(t, insertFlags(t), "dimension")
		assert.Equal(t, 768, flag.Value)
	})

	t.Run("metric-type has default value", func(t *testing.T) {
		flag := stringFlag(t, insertFlags(t), "metric-type")
		assert.Equal(t, "COSINE", flag.Value)
	})

	t.Run("pool-size defaults to sequential", func(t *testing.T) {
		flag := intFlag(t, insertFlags(t), "pool-size")
		assert.Equal(t, 1, flag.Value)
	})

	t.Run("max-retries defaults to a single attempt", func(t *testing.T) {
		flag := intFlag(t, insertFlags(t), "max-retries")
		assert.Equal(t, 1, flag.Value)
	})

	t.Run("flags are bound to environment variables", func(t *testing.T) {
		flags := insertFlags(t)
		assert.Equal(t, []string{"IMGEST_URI"}, stringFlag(t, flags, "uri").EnvVars)
		assert.Equal(t, []string{"IMGEST_DATA_PATH"}, stringFlag(t, flags, "data-path").EnvVars)
		assert.Equal(t, []string{"IMGEST_EXTRACTOR_HOST"}, stringFlag(t, flags, "extractor-host").EnvVars)
	})
}

func TestInsertCommandRejectsUnknownDatasetType(t *testing.T) {
	err := newApp().Run([]string{
		"imgest", "insert",
		"--data-path", t.TempDir(),
		"--data-type", "coco",
	})
	assert.ErrorIs(t, err, core.ErrUnsupportedDataset)
}

func TestInsertCommandRejectsUnreadableDataset(t *testing.T) {
	// An empty directory has no caption index, so opening the dataset
	// fails before any server connection is attempted.
	err := newApp().Run([]string{
		"imgest", "insert",
		"--data-path", t.TempDir(),
		"--data-type", "flickr8k",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening dataset")
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	err := newApp().Run([]string{"imgest", "--log-level", "verbose", "insert",
		"--data-path", t.TempDir(), "--data-type", "flickr8k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSetupLoggerAcceptsAllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		err := newApp().Run([]string{"imgest", "--log-level", level, "insert",
			"--data-path", t.TempDir(), "--data-type", "coco"})
		// The command itself fails on the dataset type, but the logger
		// setup must accept the level.
		assert.NotContains(t, err.Error(), "invalid log level", "level %q", level)
	}
}
