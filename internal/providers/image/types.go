package image

import (
	"context"
	"fmt"

	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/providers/genai"
	"datasetgen/internal/providers/genaisdk"
)

// Generator is the contract implemented by every generation backend.
type Generator interface {
	Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error)
	Synthesize(ctx context.Context, req domain.SynthesisRequest) (string, error)
}

var (
	_ Generator = (*genai.Client)(nil)
	_ Generator = (*genai.SyntheticClient)(nil)
	_ Generator = (*genaisdk.Client)(nil)
)

// New picks the backend named by cfg.GenerationBackend. keys may be nil, in
// which case the key from cfg is used.
func New(cfg *infra.Config, keys genai.KeySource, logger *infra.Logger) (Generator, error) {
	switch cfg.GenerationBackend {
	case infra.BackendSynthetic:
		return genai.NewSyntheticClient(logger), nil
	case infra.BackendSDK:
		return genaisdk.NewClient(genaisdk.Options{
			APIKey:     cfg.GeminiAPIKey,
			Keys:       keys,
			ImageModel: cfg.GeminiImageModel,
			TextModel:  cfg.GeminiTextModel,
			Logger:     logger,
		}), nil
	case infra.BackendREST, "":
		return genai.NewClient(genai.Options{
			APIKey:     cfg.GeminiAPIKey,
			Keys:       keys,
			BaseURL:    cfg.GeminiBaseURL,
			ImageModel: cfg.GeminiImageModel,
			TextModel:  cfg.GeminiTextModel,
			HTTPClient: infra.NewHTTPClient(cfg.ProviderTimeout),
			Logger:     logger,
		})
	default:
		return nil, fmt.Errorf("image: unknown generation backend %q", cfg.GenerationBackend)
	}
}
