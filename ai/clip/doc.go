// Package clip implements ai.FeatureExtractor against an
// OpenAI-compatible multimodal embeddings endpoint.
//
// Jina-CLIP style model servers expose image embedding behind the
// standard /v1/embeddings route, accepting inputs of the form
// {"image": "<base64>"} instead of plain strings. This package drives
// that call and returns the resulting vector.
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:8080"))
//	extractor, err := clip.NewExtractor(config)
//	features, err := extractor.GetImageFeatures(ctx, img)
package clip
