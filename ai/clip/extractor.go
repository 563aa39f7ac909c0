package clip

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/vektoria/imgest/ai"
	"github.com/vektoria/imgest/core"
)

// ErrNoFeatures is returned when the endpoint answers without any
// embedding data.
var ErrNoFeatures = errors.New("extraction service returned no features")

// Extractor implements ai.FeatureExtractor using an OpenAI-compatible
// embeddings endpoint that accepts image inputs.
type Extractor struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// imageInput is one entry of the multimodal embeddings request body.
type imageInput struct {
	Image string `json:"image"`
}

// newExtractor is an internal constructor that returns the concrete type.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local servers that don't require auth
	key := config.APIKey
	if key == "" {
		key = "none"
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = config.Host
	cfg.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Extractor{
		client: openai.NewClientWithConfig(cfg),
		model:  config.Model,
		logger: slog.Default().With("component", "clip-extractor"),
	}, nil
}

// NewExtractor creates a feature extractor using the provided
// configuration.
//
// Returns ai.FeatureExtractor interface to enforce abstraction.
func NewExtractor(config *ai.Config) (ai.FeatureExtractor, error) {
	return newExtractor(config)
}

// GetImageFeatures generates the embedding vector for a single image.
func (e *Extractor) GetImageFeatures(ctx context.Context, img *core.Image) ([]float32, error) {
	e.logger.Debug("extracting image features", "path", img.Path, "bytes", len(img.Data))

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []imageInput{{Image: base64.StdEncoding.EncodeToString(img.Data)}},
	})
	if err != nil {
		e.logger.Error("feature extraction failed", "path", img.Path, "err", err)
		return nil, err
	}

	if len(resp.Data) == 0 {
		e.logger.Warn("extraction service returned empty result", "path", img.Path)
		return nil, ErrNoFeatures
	}

	return resp.Data[0].Embedding, nil
}
