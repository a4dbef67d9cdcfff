package genai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
	"datasetgen/internal/refimage"
)

// SyntheticClient renders deterministic placeholder images without calling
// the provider. It backs dry runs and local development.
type SyntheticClient struct {
	logger *infra.Logger
}

func NewSyntheticClient(logger *infra.Logger) *SyntheticClient {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &SyntheticClient{logger: logger}
}

// Analyze returns a fixed profile keyed by the image content.
func (c *SyntheticClient) Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !ref.Present() {
		return "", errors.New("genai: reference image is required")
	}
	seed := deterministicSeed(ref.Data)
	return fmt.Sprintf("HAIR: shoulder-length dark brown hair with soft layers. Oval face, hazel eyes, light olive skin, reference %s. Average body build with balanced proportions.", seed[:8]), nil
}

// Synthesize renders a striped PNG whose colors derive from the prompt.
func (c *SyntheticClient) Synthesize(ctx context.Context, req domain.SynthesisRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !req.Reference.Present() {
		return "", errors.New("genai: reference image is required")
	}
	seed := deterministicSeed(req.Prompt, req.AspectRatio, req.Resolution)
	width, height := syntheticSize(req.AspectRatio)
	data := renderSyntheticImage(width, height, seed)
	if len(data) == 0 {
		return "", domain.ErrNoImagePayload
	}

	c.logger.Debug().
		Str("seed", seed).
		Str("aspect_ratio", req.AspectRatio).
		Int("bytes", len(data)).
		Msg("genai: generated synthetic image")

	return refimage.EncodeDataURI("image/png", data), nil
}

func syntheticSize(aspect string) (int, int) {
	const edge = 256
	parts := strings.Split(strings.TrimSpace(aspect), ":")
	if len(parts) != 2 {
		return edge, edge
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return edge, edge
	}
	if a >= b {
		return edge, edge * b / a
	}
	return edge * a / b, edge
}

func renderSyntheticImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := max(8, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	diagonal := colorFromSeed(seed, 2)
	for x := 0; x < width; x += max(8, width/16) {
		for y := 0; y < height && x+y < width; y++ {
			img.Set(x+y, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r, _ := strconv.ParseUint(segment[0:2], 16, 8)
	g, _ := strconv.ParseUint(segment[2:4], 16, 8)
	b, _ := strconv.ParseUint(segment[4:6], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%v|", part)
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
