package domain

import (
	"fmt"
	"strings"
)

// PoseGroup tags a pose with its body framing.
type PoseGroup string

const (
	PoseGroupPortrait PoseGroup = "portrait"
	PoseGroupUpper    PoseGroup = "upper"
	PoseGroupFull     PoseGroup = "full"
)

// ParsePoseGroup normalizes free-form input into a known group.
func ParsePoseGroup(v string) (PoseGroup, error) {
	switch PoseGroup(strings.ToLower(strings.TrimSpace(v))) {
	case PoseGroupPortrait:
		return PoseGroupPortrait, nil
	case PoseGroupUpper:
		return PoseGroupUpper, nil
	case PoseGroupFull:
		return PoseGroupFull, nil
	default:
		return "", fmt.Errorf("%w: pose group %q", ErrInvalidSetting, v)
	}
}

// PoseDefinition is one catalog entry. It is loaded once and never mutated.
type PoseDefinition struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Group       PoseGroup `json:"group"`
	Description string    `json:"description"`
}
