package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/refimage"
)

// KeySource supplies the API key at call time so a key entered after startup is picked up.
type KeySource interface {
	GeminiAPIKey(ctx context.Context) (string, error)
}

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	Keys       KeySource
	BaseURL    string
	ImageModel string
	TextModel  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the Gemini generateContent REST endpoint.
type Client struct {
	apiKey     string
	keys       KeySource
	baseURL    string
	imageModel string
	textModel  string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
	FileData   *geminiFileData   `json:"fileData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount     int                `json:"candidateCount,omitempty"`
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
	Temperature        *float64           `json:"temperature,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
		Details []struct {
			Reason string `json:"reason,omitempty"`
		} `json:"details,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with sensible timeouts will be created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = infra.NewHTTPClient(180 * time.Second)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("genai: invalid base url: %w", err)
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		keys:       opts.Keys,
		baseURL:    baseURL,
		imageModel: imageModel,
		textModel:  textModel,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured image model identifier.
func (c *Client) Model() string {
	return c.imageModel
}

// Analyze asks the text model for the permanent traits of the person in ref.
func (c *Client) Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error) {
	if !ref.Present() {
		return "", errors.New("genai: reference image is required")
	}
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				inlinePart(ref),
				{Text: AnalysisPrompt},
			},
		}},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, c.textModel, payload, &response); err != nil {
		return "", err
	}

	var texts []string
	for _, candidate := range response.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			break
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("genai: analysis returned no text: %w", classifyEmpty(response))
	}

	profile := strings.Join(texts, "\n")
	c.logger.Debug().
		Str("model", c.textModel).
		Int("chars", len(profile)).
		Msg("genai: reference analyzed")
	return profile, nil
}

// Synthesize generates one image conditioned on the reference and returns it as a data URI.
func (c *Client) Synthesize(ctx context.Context, req domain.SynthesisRequest) (string, error) {
	if !req.Reference.Present() {
		return "", errors.New("genai: reference image is required")
	}
	aspect := req.AspectRatio
	if !domain.ValidAspectRatio(aspect) {
		aspect = domain.AspectSquare
	}
	size := req.Resolution
	if size == "" {
		size = domain.Resolution1K
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				inlinePart(req.Reference),
				{Text: req.Prompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &geminiImageConfig{
				AspectRatio: aspect,
				ImageSize:   string(size),
			},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, c.imageModel, payload, &response); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 {
		return "", classifyEmpty(response)
	}

	sawParts := false
	var note string
	for _, candidate := range response.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		sawParts = true
		for _, part := range candidate.Content.Parts {
			asset, err := c.decodeInlineAsset(ctx, part)
			if err != nil {
				return "", err
			}
			if len(asset.Data) > 0 && strings.HasPrefix(asset.Format, "image/") {
				c.logger.Debug().
					Str("model", c.imageModel).
					Str("aspect_ratio", aspect).
					Str("resolution", string(size)).
					Int("bytes", len(asset.Data)).
					Msg("genai: image synthesized")
				return refimage.EncodeDataURI(asset.Format, asset.Data), nil
			}
			if t := strings.TrimSpace(part.Text); t != "" && note == "" {
				note = t
			}
		}
	}
	if !sawParts {
		return "", fmt.Errorf("%w (finish reason %s)", domain.ErrEmptyResponse, finishReason(response))
	}
	if note != "" {
		return "", fmt.Errorf("%w: model replied %q", domain.ErrNoImagePayload, truncate(note, 160))
	}
	return "", domain.ErrNoImagePayload
}

type inlineAsset struct {
	Data   []byte
	Format string
}

func inlinePart(ref domain.ReferenceImage) geminiPart {
	mime := ref.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return geminiPart{InlineData: &geminiInlineData{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(ref.Data),
	}}
}

func (c *Client) key(ctx context.Context) (string, error) {
	if c.keys != nil {
		key, err := c.keys.GeminiAPIKey(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
		}
		return strings.TrimSpace(key), nil
	}
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no api key configured", domain.ErrAuthExpired)
	}
	return c.apiKey, nil
}

func (c *Client) invokeGemini(ctx context.Context, model string, payload any, out any) error {
	apiKey, err := c.key(ctx)
	if err != nil {
		return err
	}
	endpoint := c.baseURL + fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr geminiErrorResponse
	message := strings.TrimSpace(string(data))
	authFailure := resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		for _, d := range apiErr.Error.Details {
			if d.Reason == "API_KEY_INVALID" || d.Reason == "API_KEY_EXPIRED" {
				authFailure = true
			}
		}
		if apiErr.Error.Status == "UNAUTHENTICATED" || apiErr.Error.Status == "PERMISSION_DENIED" {
			authFailure = true
		}
	}
	if strings.Contains(strings.ToLower(message), "api key not valid") || strings.Contains(strings.ToLower(message), "api key expired") {
		authFailure = true
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if authFailure {
		return fmt.Errorf("%w: gemini status %d: %s", domain.ErrAuthExpired, resp.StatusCode, message)
	}
	return fmt.Errorf("gemini status %d: %s", resp.StatusCode, message)
}

func classifyEmpty(resp geminiGenerateContentResponse) error {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w (prompt blocked: %s)", domain.ErrEmptyResponse, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return domain.ErrNoCandidates
	}
	return fmt.Errorf("%w (finish reason %s)", domain.ErrEmptyResponse, finishReason(resp))
}

func finishReason(resp geminiGenerateContentResponse) string {
	for _, c := range resp.Candidates {
		if c.FinishReason != "" {
			return c.FinishReason
		}
	}
	return "unknown"
}

func (c *Client) decodeInlineAsset(ctx context.Context, part geminiPart) (inlineAsset, error) {
	if part.InlineData != nil && part.InlineData.Data != "" {
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return inlineAsset{}, fmt.Errorf("%w: decode inline data: %v", domain.ErrNoImagePayload, err)
		}
		return inlineAsset{Data: data, Format: firstNonEmpty(part.InlineData.MimeType, http.DetectContentType(data))}, nil
	}

	if part.FileData != nil && part.FileData.FileURI != "" {
		data, mime, err := c.downloadFile(ctx, part.FileData.FileURI)
		if err != nil {
			return inlineAsset{}, err
		}
		return inlineAsset{Data: data, Format: firstNonEmpty(part.FileData.MimeType, mime)}, nil
	}

	return inlineAsset{}, nil
}

func (c *Client) downloadFile(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	if apiKey, err := c.key(ctx); err == nil {
		req.Header.Set("x-goog-api-key", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", decodeAPIError(resp)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
