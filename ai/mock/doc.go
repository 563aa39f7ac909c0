// Package mock provides a test double for the ai.FeatureExtractor
// interface.
//
// The mock lets tests run without a model server and enables controlled,
// deterministic behavior:
//
//	// Default behavior: deterministic vectors derived from the image path
//	extractor := mock.NewMockExtractor(4)
//
//	// Custom behavior injection
//	extractor.GetImageFeaturesFunc = func(ctx context.Context, img *core.Image) ([]float32, error) {
//	    return nil, errors.New("unsupported format")
//	}
//
//	// Check call counts
//	count := extractor.CallCount()
package mock
