// Package profile resolves the active identity profile and caches reference analysis.
package profile

import (
	"strings"

	"datasetgen/internal/domain"
)

// ActiveProfile returns the single active identity description.
// Auto mode yields the analysis result, manual mode the trimmed manual text.
// The two sources are never merged.
func ActiveProfile(mode domain.ProfileMode, autoProfile, manualText string) (string, bool) {
	var text string
	switch mode {
	case domain.ProfileModeManual:
		text = strings.TrimSpace(manualText)
	default:
		text = strings.TrimSpace(autoProfile)
	}
	if text == "" {
		return "", false
	}
	return text, true
}

// IsReady reports whether ActiveProfile would resolve.
func IsReady(mode domain.ProfileMode, autoProfile, manualText string) bool {
	_, ok := ActiveProfile(mode, autoProfile, manualText)
	return ok
}
