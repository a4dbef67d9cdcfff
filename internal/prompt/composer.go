// Package prompt composes per-pose synthesis instructions.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"datasetgen/internal/domain"
)

const delimiter = "\n"

var expressionPattern = regexp.MustCompile(`\b(smil\w*|smirk\w*|gaz\w*|stoic|grin\w*|laugh\w*|frown\w*|pout\w*|wink\w*|serious|neutral|expression\w*)\b`)

// Request carries everything one pose prompt depends on.
type Request struct {
	Pose           domain.PoseDefinition
	Adjustments    domain.CharacterAdjustments
	Identity       string
	HairLocked     bool
	BodyLocked     bool
	Resolution     domain.Resolution
	ProjectContext string
}

// Result is the composed instruction and the aspect ratio to request.
type Result struct {
	Prompt      string
	AspectRatio string
}

// Options configures a Composer. Nil Draw uses DefaultDrawer.
type Options struct {
	Wardrobe    []string
	Expressions []string
	Draw        Drawer
}

// Composer builds prompts. Apart from its draws it has no side effects.
type Composer struct {
	wardrobe    []string
	expressions []string
	draw        Drawer
}

func NewComposer(opts Options) *Composer {
	draw := opts.Draw
	if draw == nil {
		draw = DefaultDrawer
	}
	return &Composer{
		wardrobe:    append([]string(nil), opts.Wardrobe...),
		expressions: append([]string(nil), opts.Expressions...),
		draw:        draw,
	}
}

// Compose builds the full instruction for one pose.
func (c *Composer) Compose(req Request) Result {
	pose := req.Pose
	clauses := []string{
		header(req.ProjectContext, pose.ID),
		detectOrientation(pose.Description).clause(),
		poseClause(pose),
		framingClause(pose.Group),
		c.expressionClause(pose),
		c.wardrobeClause(),
		identityClause(req),
		studioClause(req.Resolution),
	}
	var kept []string
	for _, clause := range clauses {
		if clause = strings.TrimSpace(clause); clause != "" {
			kept = append(kept, clause)
		}
	}
	return Result{
		Prompt:      strings.Join(kept, delimiter),
		AspectRatio: AspectRatioFor(pose.Group),
	}
}

// AspectRatioFor returns the taller ratio for full-body poses and square otherwise.
func AspectRatioFor(group domain.PoseGroup) string {
	if group == domain.PoseGroupFull {
		return domain.AspectPortrait
	}
	return domain.AspectSquare
}

func header(project, poseID string) string {
	h := "Professional studio photograph of the exact person shown in the reference image, produced for a character training dataset."
	project = strings.TrimSpace(project)
	if project == "" {
		return h
	}
	return fmt.Sprintf("%s Project %q, file hint %s_%s.", h, project, slug(project), poseID)
}

func poseClause(p domain.PoseDefinition) string {
	desc := strings.TrimSpace(p.Description)
	label := strings.TrimSpace(p.Label)
	switch {
	case desc != "" && label != "":
		return fmt.Sprintf("Target pose (%s): %s", label, desc)
	case desc != "":
		return "Target pose: " + desc
	case label != "":
		return fmt.Sprintf("Target pose: %s.", label)
	}
	return ""
}

func framingClause(group domain.PoseGroup) string {
	if group == domain.PoseGroupPortrait {
		return "Composition: tight headshot from the shoulders up, 85mm portrait lens, shallow depth of field with a softly blurred background."
	}
	return "Composition: standard lens, professional framing."
}

func (c *Composer) expressionClause(p domain.PoseDefinition) string {
	if expressionPattern.MatchString(cases.Fold().String(p.Description)) {
		return ""
	}
	switch p.Group {
	case domain.PoseGroupPortrait, domain.PoseGroupUpper:
		if e := c.pick(c.expressions); e != "" {
			return fmt.Sprintf("Expression: %s.", e)
		}
		return ""
	default:
		return "Expression: neutral and relaxed, natural steady gaze."
	}
}

func (c *Composer) wardrobeClause() string {
	if w := c.pick(c.wardrobe); w != "" {
		return fmt.Sprintf("Wardrobe: %s.", w)
	}
	return ""
}

func studioClause(res domain.Resolution) string {
	if res == "" {
		res = domain.Resolution1K
	}
	return fmt.Sprintf("Environment: seamless light grey studio backdrop, soft even key light, photorealistic skin texture, %s output, no text or watermark.", res)
}

func (c *Composer) pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	i := c.draw(len(list))
	if i < 0 || i >= len(list) {
		i = ((i % len(list)) + len(list)) % len(list)
	}
	return list[i]
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
