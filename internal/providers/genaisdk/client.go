// Package genaisdk drives the Gemini image model through the official Go SDK.
package genaisdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	gemini "datasetgen/internal/providers/genai"
	"datasetgen/internal/refimage"
)

// Options configures the SDK backed client.
type Options struct {
	APIKey     string
	Keys       gemini.KeySource
	ImageModel string
	TextModel  string
	Logger     *infra.Logger
}

// Client builds a genai.Client per call so a rotated key takes effect immediately.
type Client struct {
	apiKey     string
	keys       gemini.KeySource
	imageModel string
	textModel  string
	logger     *infra.Logger
}

func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		keys:       opts.Keys,
		imageModel: imageModel,
		textModel:  textModel,
		logger:     logger,
	}
}

func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	key := c.apiKey
	if c.keys != nil {
		k, err := c.keys.GeminiAPIKey(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
		}
		key = strings.TrimSpace(k)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: no api key configured", domain.ErrAuthExpired)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaisdk: create client: %w", err)
	}
	return client, nil
}

// Analyze describes the permanent traits of the person in ref.
func (c *Client) Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error) {
	if !ref.Present() {
		return "", errors.New("genaisdk: reference image is required")
	}
	client, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}
	result, err := client.Models.GenerateContent(ctx, c.textModel, []*genai.Content{referenceContent(ref, gemini.AnalysisPrompt)}, nil)
	if err != nil {
		return "", classifyError(err)
	}
	if err := classifyResponse(result); err != nil {
		return "", err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("genaisdk: analysis returned no text: %w", domain.ErrEmptyResponse)
	}
	return text, nil
}

// Synthesize generates one image and returns it as a data URI.
func (c *Client) Synthesize(ctx context.Context, req domain.SynthesisRequest) (string, error) {
	if !req.Reference.Present() {
		return "", errors.New("genaisdk: reference image is required")
	}
	client, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}

	aspect := req.AspectRatio
	if !domain.ValidAspectRatio(aspect) {
		aspect = domain.AspectSquare
	}
	size := req.Resolution
	if size == "" {
		size = domain.Resolution1K
	}

	result, err := client.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{referenceContent(req.Reference, req.Prompt)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspect,
				ImageSize:   string(size),
			},
		},
	)
	if err != nil {
		return "", classifyError(err)
	}
	blob, err := extractImage(result)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("model", c.imageModel).
		Str("aspect_ratio", aspect).
		Int("bytes", len(blob.Data)).
		Msg("genaisdk: image synthesized")
	return refimage.EncodeDataURI(blob.MIMEType, blob.Data), nil
}

func referenceContent(ref domain.ReferenceImage, text string) *genai.Content {
	mime := ref.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mime, Data: ref.Data}},
			genai.NewPartFromText(text),
		},
	}
}

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiFailure(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiFailure(*apiErrPtr)
	}
	return fmt.Errorf("genaisdk: %w", err)
}

func apiFailure(apiErr genai.APIError) error {
	msg := strings.ToLower(apiErr.Message)
	if apiErr.Code == 401 || apiErr.Code == 403 ||
		apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED" ||
		strings.Contains(msg, "api key not valid") || strings.Contains(msg, "api key expired") {
		return fmt.Errorf("%w: gemini status %d: %s", domain.ErrAuthExpired, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("gemini status %d: %s", apiErr.Code, apiErr.Message)
}

// classifyResponse maps a response without usable candidates to a domain error.
func classifyResponse(result *genai.GenerateContentResponse) error {
	if result == nil {
		return domain.ErrEmptyResponse
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w (prompt blocked: %s)", domain.ErrEmptyResponse, result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 {
		return domain.ErrNoCandidates
	}
	for _, candidate := range result.Candidates {
		if candidate != nil && candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			return nil
		}
	}
	reason := "unknown"
	if c := result.Candidates[0]; c != nil && c.FinishReason != "" {
		reason = string(c.FinishReason)
	}
	return fmt.Errorf("%w (finish reason %s)", domain.ErrEmptyResponse, reason)
}

func extractImage(result *genai.GenerateContentResponse) (*genai.Blob, error) {
	if err := classifyResponse(result); err != nil {
		return nil, err
	}
	var note string
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				blob := *part.InlineData
				if blob.MIMEType == "" {
					blob.MIMEType = "image/png"
				}
				return &blob, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" && note == "" {
				note = t
			}
		}
	}
	if note != "" {
		return nil, fmt.Errorf("%w: model replied %q", domain.ErrNoImagePayload, note)
	}
	return nil, domain.ErrNoImagePayload
}
