package domain

import (
	"fmt"
	"strings"
)

// Resolution is the output size bucket understood by the synthesis provider.
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

func ParseResolution(v string) (Resolution, error) {
	switch Resolution(strings.ToUpper(strings.TrimSpace(v))) {
	case Resolution1K, "":
		return Resolution1K, nil
	case Resolution2K:
		return Resolution2K, nil
	case Resolution4K:
		return Resolution4K, nil
	default:
		return "", fmt.Errorf("%w: resolution %q", ErrInvalidSetting, v)
	}
}

// Supported aspect ratios.
const (
	AspectSquare    = "1:1"
	AspectPortrait  = "3:4"
	AspectLandscape = "4:3"
	AspectTall      = "9:16"
	AspectWide      = "16:9"
)

// ValidAspectRatio reports whether the provider accepts ratio.
func ValidAspectRatio(ratio string) bool {
	switch ratio {
	case AspectSquare, AspectPortrait, AspectLandscape, AspectTall, AspectWide:
		return true
	}
	return false
}

// SynthesisRequest is a single image synthesis call.
type SynthesisRequest struct {
	Reference   ReferenceImage
	Prompt      string
	Resolution  Resolution
	AspectRatio string
}
