package prompt

import (
	"strings"
	"testing"

	"datasetgen/internal/domain"
)

const sampleProfile = "HAIR: long auburn waves with side bangs. Green almond eyes and light freckles. Slim body build with long legs. Narrow waist and soft proportions."

var (
	portraitPose = domain.PoseDefinition{ID: "p1", Label: "Portrait 45 Left", Group: domain.PoseGroupPortrait, Description: "Head turned 45 degrees to the left."}
	upperPose    = domain.PoseDefinition{ID: "u1", Label: "Upper Front", Group: domain.PoseGroupUpper, Description: "Waist-up, shoulders relaxed."}
	fullPose     = domain.PoseDefinition{ID: "f1", Label: "Full Rear Left", Group: domain.PoseGroupFull, Description: "Full body from the REAR, stepping Left."}
)

func newTestComposer(seed uint64) *Composer {
	return NewComposer(Options{
		Wardrobe:    []string{"white tee and jeans", "black turtleneck", "grey hoodie"},
		Expressions: []string{"soft smile", "calm look", "slight smirk"},
		Draw:        NewSeededDrawer(seed),
	})
}

func baseRequest(p domain.PoseDefinition) Request {
	return Request{
		Pose:        p,
		Adjustments: domain.CharacterAdjustments{EyeColor: "green", BodyBuild: "athletic", ChestSize: "medium", HipSize: "wide"},
		Identity:    sampleProfile,
		Resolution:  domain.Resolution2K,
	}
}

func TestComposeIsReproducibleWithSeed(t *testing.T) {
	for _, p := range []domain.PoseDefinition{portraitPose, upperPose, fullPose} {
		a := newTestComposer(42).Compose(baseRequest(p))
		b := newTestComposer(42).Compose(baseRequest(p))
		if a != b {
			t.Fatalf("pose %s: composing twice with the same seed differs:\n%s\n---\n%s", p.ID, a.Prompt, b.Prompt)
		}
	}
}

func TestPortraitDropsBodyShapeLanguage(t *testing.T) {
	req := baseRequest(portraitPose)
	req.HairLocked = true
	got := newTestComposer(1).Compose(req).Prompt
	lower := strings.ToLower(got)
	for _, banned := range []string{"body build", "proportion", "waist"} {
		if strings.Contains(lower, banned) {
			t.Fatalf("portrait prompt contains %q:\n%s", banned, got)
		}
	}
	if !strings.Contains(got, "Green almond eyes") {
		t.Fatalf("portrait prompt lost non-body identity traits:\n%s", got)
	}
	if strings.Contains(got, "Body targets") || strings.Contains(got, "eye color") {
		t.Fatalf("portrait prompt must not carry slider targets:\n%s", got)
	}

	t.Run("line separated profile", func(t *testing.T) {
		req := baseRequest(portraitPose)
		req.HairLocked = true
		req.Identity = "HAIR: long black braided hair\nOval face, green eyes\nSlim body build, narrow waist"
		got := identityClause(req)
		if got != `Identity (must match the reference): HAIR: long black braided hair. Oval face, green eyes. Mandatory hair consistency: the hair must stay exactly "long black braided hair"; do not alter its length or style.` {
			t.Fatalf("identity clause = %q", got)
		}
	})
}

func TestHairLock(t *testing.T) {
	req := baseRequest(upperPose)
	req.HairLocked = true
	got := newTestComposer(1).Compose(req).Prompt
	if !strings.Contains(got, `"long auburn waves with side bangs"`) {
		t.Fatalf("hair directive should quote the HAIR fragment:\n%s", got)
	}
	if !strings.Contains(got, "do not alter its length or style") {
		t.Fatalf("missing hair consistency directive:\n%s", got)
	}

	req.HairLocked = false
	if got := newTestComposer(1).Compose(req).Prompt; strings.Contains(got, "Mandatory hair consistency") {
		t.Fatalf("unlocked hair must not add the directive:\n%s", got)
	}

	req.HairLocked = true
	req.Identity = "Green eyes, freckles."
	if got := newTestComposer(1).Compose(req).Prompt; strings.Contains(got, "Mandatory hair consistency") {
		t.Fatalf("no HAIR marker means no directive:\n%s", got)
	}
}

func TestBodyLockAndSliders(t *testing.T) {
	req := baseRequest(fullPose)
	req.BodyLocked = true
	got := newTestComposer(1).Compose(req).Prompt
	if !strings.Contains(got, "preserve the body build and proportions of the reference exactly") {
		t.Fatalf("missing body lock directive:\n%s", got)
	}
	if strings.Contains(got, "Body targets") {
		t.Fatalf("body lock must replace slider targets:\n%s", got)
	}

	req.BodyLocked = false
	got = newTestComposer(1).Compose(req).Prompt
	want := "Body targets: athletic build, medium chest, wide hips, green eye color."
	if !strings.Contains(got, want) {
		t.Fatalf("missing %q:\n%s", want, got)
	}
}

func TestOrientationClause(t *testing.T) {
	tests := []struct {
		name        string
		description string
		contains    []string
		excludes    []string
	}{
		{
			name:        "rear and left shows right side",
			description: "Full body from the rear, stepping left",
			contains:    []string{"Rear view", "faces away from the camera", "behind and to the right", "right side of the body is visible", noFrontalFace},
			excludes:    []string{"Frontal view"},
		},
		{
			name:        "rear and right shows left side",
			description: "standing behind, weight on the right leg",
			contains:    []string{"Rear view", "left side of the body is visible", noFrontalFace},
		},
		{
			name:        "profile with side",
			description: "Strict 90 degree profile facing left",
			contains:    []string{"Strict 90-degree profile", "directly to the left", noFrontalFace},
		},
		{
			name:        "45 degrees",
			description: "Head turned 45 degrees to the right",
			contains:    []string{"about 45 degrees toward the right", noFrontalFace},
		},
		{
			name:        "bare side",
			description: "leaning slightly right",
			contains:    []string{"turned toward the right", noFrontalFace},
		},
		{
			name:        "over the shoulder",
			description: "Looking back over the shoulder, body turned right",
			contains:    []string{"head turns back toward the camera", "turned toward the right", noFrontalFace},
		},
		{
			name:        "over her left shoulder",
			description: "Looking back over her left shoulder toward the camera.",
			contains:    []string{"head turns back toward the camera", "turned toward the left", noFrontalFace},
		},
		{
			name:        "over the right shoulder",
			description: "Glancing over the right shoulder.",
			contains:    []string{"head turns back toward the camera", "turned toward the right", noFrontalFace},
		},
		{
			name:        "frontal",
			description: "Frontal headshot, head centered",
			contains:    []string{"Frontal view", "direct gaze"},
			excludes:    []string{noFrontalFace},
		},
		{
			name:        "frontal suppressed by side cue",
			description: "front foot forward, torso turned left",
			contains:    []string{"turned toward the left", noFrontalFace},
			excludes:    []string{"Frontal view"},
		},
		{
			name:        "upright is not right",
			description: "standing upright",
			excludes:    []string{"Angled view", "Frontal view", noFrontalFace},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detectOrientation(tc.description).clause()
			for _, want := range tc.contains {
				if !strings.Contains(got, want) {
					t.Fatalf("clause %q missing %q", got, want)
				}
			}
			for _, bad := range tc.excludes {
				if strings.Contains(got, bad) {
					t.Fatalf("clause %q must not contain %q", got, bad)
				}
			}
		})
	}
}

func TestExpressionClause(t *testing.T) {
	c := NewComposer(Options{Expressions: []string{"calm look"}, Draw: func(int) int { return 0 }})

	smiling := domain.PoseDefinition{Group: domain.PoseGroupPortrait, Description: "Frontal headshot with a soft SMILE"}
	if got := c.expressionClause(smiling); got != "" {
		t.Fatalf("pose with expression keyword got clause %q", got)
	}
	if got := c.expressionClause(upperPose); got != "Expression: calm look." {
		t.Fatalf("upper expression = %q", got)
	}
	if got := c.expressionClause(domain.PoseDefinition{Group: domain.PoseGroupFull, Description: "walking"}); !strings.Contains(got, "neutral") {
		t.Fatalf("full pose expression = %q, want neutral gaze clause", got)
	}
}

func TestFramingAndAspect(t *testing.T) {
	c := newTestComposer(3)
	portrait := c.Compose(baseRequest(portraitPose))
	if portrait.AspectRatio != domain.AspectSquare {
		t.Fatalf("portrait aspect = %q, want %q", portrait.AspectRatio, domain.AspectSquare)
	}
	if !strings.Contains(portrait.Prompt, "85mm") || !strings.Contains(portrait.Prompt, "blurred background") {
		t.Fatalf("portrait framing missing:\n%s", portrait.Prompt)
	}
	full := c.Compose(baseRequest(fullPose))
	if full.AspectRatio != domain.AspectPortrait {
		t.Fatalf("full aspect = %q, want %q", full.AspectRatio, domain.AspectPortrait)
	}
	if !strings.Contains(full.Prompt, "standard lens, professional framing") {
		t.Fatalf("full framing missing:\n%s", full.Prompt)
	}
	if upper := c.Compose(baseRequest(upperPose)); upper.AspectRatio != domain.AspectSquare {
		t.Fatalf("upper aspect = %q, want %q", upper.AspectRatio, domain.AspectSquare)
	}
}

func TestClauseOrderAndDelimiters(t *testing.T) {
	req := baseRequest(fullPose)
	req.ProjectContext = "Mira Dataset v2"
	got := newTestComposer(9).Compose(req).Prompt

	if strings.HasPrefix(got, delimiter) || strings.HasSuffix(got, delimiter) || strings.Contains(got, delimiter+delimiter) {
		t.Fatalf("dangling delimiter in prompt:\n%q", got)
	}
	order := []string{
		"Professional studio photograph",
		"Rear view",
		"Target pose (Full Rear Left)",
		"Composition:",
		"Expression:",
		"Wardrobe:",
		"Identity (must match the reference)",
		"Environment:",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(got, marker)
		if idx < 0 {
			t.Fatalf("prompt missing %q:\n%s", marker, got)
		}
		if idx <= last {
			t.Fatalf("%q is out of order:\n%s", marker, got)
		}
		last = idx
	}
	if !strings.Contains(got, "file hint mira-dataset-v2_f1") {
		t.Fatalf("project file hint missing:\n%s", got)
	}
	if !strings.Contains(got, "2K output") {
		t.Fatalf("resolution missing from studio clause:\n%s", got)
	}
}

func TestEmptyClausesAreSkipped(t *testing.T) {
	c := NewComposer(Options{})
	got := c.Compose(Request{Pose: domain.PoseDefinition{ID: "x", Group: domain.PoseGroupPortrait}}).Prompt
	if strings.Contains(got, "Wardrobe:") || strings.Contains(got, "Expression:") || strings.Contains(got, "Identity") {
		t.Fatalf("empty collaborator data must not produce clauses:\n%s", got)
	}
	if strings.Contains(got, delimiter+delimiter) {
		t.Fatalf("dangling delimiter:\n%q", got)
	}
}

func TestPickNormalizesOutOfRangeDraws(t *testing.T) {
	c := NewComposer(Options{Wardrobe: []string{"a", "b", "c"}, Draw: func(n int) int { return -1 }})
	if got := c.pick(c.wardrobe); got != "c" {
		t.Fatalf("pick = %q, want %q", got, "c")
	}
}
