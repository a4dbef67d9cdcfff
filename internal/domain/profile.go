package domain

import (
	"fmt"
	"strings"
)

// ProfileMode selects which identity source is active.
type ProfileMode string

const (
	ProfileModeAuto   ProfileMode = "auto"
	ProfileModeManual ProfileMode = "manual"
)

func ParseProfileMode(v string) (ProfileMode, error) {
	switch ProfileMode(strings.ToLower(strings.TrimSpace(v))) {
	case ProfileModeAuto, "":
		return ProfileModeAuto, nil
	case ProfileModeManual:
		return ProfileModeManual, nil
	default:
		return "", fmt.Errorf("%w: profile mode %q", ErrInvalidSetting, v)
	}
}

// CharacterAdjustments are the caller's body sliders. The orchestrator only reads them.
type CharacterAdjustments struct {
	EyeColor  string `json:"eye_color"`
	BodyBuild string `json:"body_build"`
	ChestSize string `json:"chest_size"`
	HipSize   string `json:"hip_size"`
}

// DefaultAdjustments mirrors the neutral slider positions.
func DefaultAdjustments() CharacterAdjustments {
	return CharacterAdjustments{
		EyeColor:  "natural",
		BodyBuild: "average",
		ChestSize: "medium",
		HipSize:   "medium",
	}
}
