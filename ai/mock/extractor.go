package mock

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/vektoria/imgest/core"
)

// MockExtractor is a test double for ai.FeatureExtractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// GetImageFeaturesFunc is called by GetImageFeatures if set.
	// If nil, uses default deterministic behavior.
	GetImageFeaturesFunc func(ctx context.Context, img *core.Image) ([]float32, error)

	dimension int
	callCount atomic.Int64
}

// NewMockExtractor creates a mock extractor producing vectors of the
// given dimension.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor(dimension int) *MockExtractor {
	return &MockExtractor{dimension: dimension}
}

// GetImageFeatures generates a deterministic vector based on the image
// path, so the same item always embeds identically.
func (m *MockExtractor) GetImageFeatures(ctx context.Context, img *core.Image) ([]float32, error) {
	m.callCount.Add(1)

	if m.GetImageFeaturesFunc != nil {
		return m.GetImageFeaturesFunc(ctx, img)
	}

	return generateDeterministicVector(img.Path, m.dimension), nil
}

// CallCount returns the number of times GetImageFeatures was called.
// Safe for use from concurrent pipeline tests.
func (m *MockExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.callCount.Store(0)
	m.GetImageFeaturesFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector
// from a seed string using an FNV hash and an LCG expansion.
func generateDeterministicVector(seed string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(seed))
	state := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		state = state*1664525 + 1013904223 // LCG constants
		vector[i] = float32(state%1000) / 1000.0
	}
	return vector
}
