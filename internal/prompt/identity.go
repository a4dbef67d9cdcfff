package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"datasetgen/internal/domain"
)

var (
	sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
	hairPattern     = regexp.MustCompile(`(?i)\bHAIR:\s*([^.!?\n]+)`)
)

// bodyShapeTerms never reach a portrait prompt.
var bodyShapeTerms = []string{"body build", "proportion", "waist"}

// profileSentences splits a profile into sentences. A line break ends a
// sentence, and a sentence without closing punctuation gets a period so the
// joined text keeps its boundaries.
func profileSentences(profile string) []string {
	var out []string
	for _, sentence := range sentencePattern.FindAllString(profile, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if !strings.ContainsAny(sentence[len(sentence)-1:], ".!?") {
			sentence += "."
		}
		out = append(out, sentence)
	}
	return out
}

// stripBodyShape drops every sentence that talks about body shape.
func stripBodyShape(sentences []string) []string {
	var kept []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		drop := false
		for _, term := range bodyShapeTerms {
			if strings.Contains(lower, term) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, sentence)
		}
	}
	return kept
}

// hairFragment returns the text following a HAIR: marker.
func hairFragment(profile string) (string, bool) {
	m := hairPattern.FindStringSubmatch(profile)
	if m == nil {
		return "", false
	}
	hair := strings.TrimSpace(m[1])
	return hair, hair != ""
}

func identityClause(req Request) string {
	portrait := req.Pose.Group == domain.PoseGroupPortrait
	sentences := profileSentences(req.Identity)
	if portrait {
		sentences = stripBodyShape(sentences)
	}
	profile := strings.Join(sentences, " ")

	var parts []string
	if profile != "" {
		parts = append(parts, "Identity (must match the reference): "+profile)
	}
	if req.HairLocked {
		if hair, ok := hairFragment(profile); ok {
			parts = append(parts, fmt.Sprintf("Mandatory hair consistency: the hair must stay exactly %q; do not alter its length or style.", hair))
		}
	}
	if portrait {
		return strings.Join(parts, " ")
	}

	if req.BodyLocked {
		parts = append(parts, "Body lock: preserve the body build and proportions of the reference exactly.")
	} else if targets := adjustmentTargets(req.Adjustments); targets != "" {
		parts = append(parts, "Body targets: "+targets+".")
	}
	return strings.Join(parts, " ")
}

func adjustmentTargets(a domain.CharacterAdjustments) string {
	var targets []string
	add := func(value, what string) {
		if value = strings.TrimSpace(value); value != "" {
			targets = append(targets, value+" "+what)
		}
	}
	add(a.BodyBuild, "build")
	add(a.ChestSize, "chest")
	add(a.HipSize, "hips")
	add(a.EyeColor, "eye color")
	return strings.Join(targets, ", ")
}
