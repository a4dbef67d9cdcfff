package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"datasetgen/internal/domain"
	"datasetgen/internal/refimage"
)

const (
	FormatPNG  = "png"
	FormatWebP = "webp"

	webpQuality = 90
)

// WriteImage decodes a data URI and stores it as key.<format>. It returns the
// storage key of the written file.
func (s *FileStore) WriteImage(ctx context.Context, key, dataURI, format string) (string, error) {
	mime, data, err := refimage.DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPNG
	}

	var out []byte
	switch format {
	case FormatPNG:
		if mime == "image/png" {
			out = data
			break
		}
		out, err = encodeAs(data, format)
	case FormatWebP:
		out, err = encodeAs(data, format)
	default:
		return "", fmt.Errorf("%w: output format %q", domain.ErrInvalidSetting, format)
	}
	if err != nil {
		return "", err
	}
	return s.Write(ctx, key+"."+format, out)
}

func encodeAs(data []byte, format string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("storage: decode image: %w", err)
	}
	var buf bytes.Buffer
	switch format {
	case FormatWebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, webpQuality)
		if err != nil {
			return nil, fmt.Errorf("storage: webp options: %w", err)
		}
		if err := webp.Encode(&buf, img, options); err != nil {
			return nil, fmt.Errorf("storage: encode webp: %w", err)
		}
	default:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("storage: encode png: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// ExportEntry is one line of the dataset manifest.
type ExportEntry struct {
	ID        string           `json:"id"`
	PoseID    string           `json:"pose_id"`
	Label     string           `json:"label"`
	Group     domain.PoseGroup `json:"group"`
	File      string           `json:"file"`
	Caption   string           `json:"caption"`
	CreatedAt string           `json:"created_at"`
}

// WriteGallery stores every image under dir with a .txt caption holding its
// prompt, then writes manifest.json. Images are written oldest first.
func (s *FileStore) WriteGallery(ctx context.Context, dir string, images []domain.GeneratedImage, format string) ([]ExportEntry, error) {
	entries := make([]ExportEntry, 0, len(images))
	for i := len(images) - 1; i >= 0; i-- {
		img := images[i]
		base := path.Join(dir, fmt.Sprintf("%03d_%s", len(entries)+1, img.PoseID))
		file, err := s.WriteImage(ctx, base, img.URL, format)
		if err != nil {
			return entries, fmt.Errorf("storage: image %s: %w", img.ID, err)
		}
		if _, err := s.Write(ctx, base+".txt", []byte(img.Prompt+"\n")); err != nil {
			return entries, err
		}
		entries = append(entries, ExportEntry{
			ID:        img.ID,
			PoseID:    img.PoseID,
			Label:     img.Label,
			Group:     img.Group,
			File:      file,
			Caption:   base + ".txt",
			CreatedAt: img.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	manifest, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return entries, fmt.Errorf("storage: encode manifest: %w", err)
	}
	if _, err := s.Write(ctx, path.Join(dir, "manifest.json"), manifest); err != nil {
		return entries, err
	}
	return entries, nil
}
