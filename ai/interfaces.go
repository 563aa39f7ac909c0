package ai

import (
	"context"

	"github.com/vektoria/imgest/core"
)

// FeatureExtractor generates embedding vectors from images.
// Implementations must be thread-safe for concurrent use and behave as a
// pure function: the same image yields a vector of the same length on
// every call, with no side effects.
type FeatureExtractor interface {
	// GetImageFeatures generates the embedding vector for a single image.
	// The vector length is fixed per model; it must match the dimension
	// of the target collection, which the pipeline does not re-validate
	// per item.
	// Returns an error if the extractor rejects the image.
	GetImageFeatures(ctx context.Context, img *core.Image) ([]float32, error)
}
