package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	rearPattern     = regexp.MustCompile(`\b(rear|behind|back[- ]view|from the back|facing away)\b`)
	shoulderPattern = regexp.MustCompile(`\bover[- ](?:(?:the|her|his|their)[- ])?(?:(?:left|right)[- ])?shoulder\b`)
	leftPattern     = regexp.MustCompile(`\bleft\b`)
	rightPattern    = regexp.MustCompile(`\bright\b`)
	profilePattern  = regexp.MustCompile(`\b(profile|side view|90)\b`)
	angledPattern   = regexp.MustCompile(`\b(45|three[- ]quarter)\b`)
	frontalPattern  = regexp.MustCompile(`\b(frontal|front|center|centered|straight on|facing the camera)\b`)
)

const noFrontalFace = "Hard constraint: do not show a full frontal face."

type orientation struct {
	rear, shoulder, left, right, profile, angled, frontal bool
}

func detectOrientation(description string) orientation {
	text := cases.Fold().String(description)
	o := orientation{
		rear:     rearPattern.MatchString(text),
		shoulder: shoulderPattern.MatchString(text),
		left:     leftPattern.MatchString(text),
		right:    rightPattern.MatchString(text),
		profile:  profilePattern.MatchString(text),
		angled:   angledPattern.MatchString(text),
	}
	// Frontal conflicts with any directional cue.
	o.frontal = !o.rear && !o.left && !o.right && frontalPattern.MatchString(text)
	return o
}

func (o orientation) side() string {
	switch {
	case o.left:
		return "left"
	case o.right:
		return "right"
	}
	return ""
}

func (o orientation) clause() string {
	var parts []string
	switch {
	case o.rear:
		parts = append(parts, "Rear view: the subject faces away from the camera.")
		switch {
		case o.left:
			parts = append(parts, "The camera sits behind and to the right of the subject, so the right side of the body is visible.")
		case o.right:
			parts = append(parts, "The camera sits behind and to the left of the subject, so the left side of the body is visible.")
		}
	case o.profile:
		if side := o.side(); side != "" {
			parts = append(parts, fmt.Sprintf("Strict 90-degree profile: the subject faces directly to the %s, only one side of the face is visible.", side))
		} else {
			parts = append(parts, "Strict 90-degree profile: only one side of the face is visible.")
		}
	case o.angled:
		if side := o.side(); side != "" {
			parts = append(parts, fmt.Sprintf("Angled view: the subject is turned about 45 degrees toward the %s.", side))
		} else {
			parts = append(parts, "Angled view: the subject is turned about 45 degrees away from the camera.")
		}
	case o.left || o.right:
		parts = append(parts, fmt.Sprintf("Angled view: the subject is turned toward the %s.", o.side()))
	case o.shoulder:
	case o.frontal:
		return "Frontal view: the subject faces the camera with a direct gaze into the lens, camera centered on the face."
	default:
		return ""
	}
	if o.shoulder {
		parts = append(parts, "Over the shoulder: the head turns back toward the camera while the body keeps its orientation.")
	}
	parts = append(parts, noFrontalFace)
	return strings.Join(parts, " ")
}
