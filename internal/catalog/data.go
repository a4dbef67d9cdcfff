package catalog

import "datasetgen/internal/domain"

var defaultPoses = []domain.PoseDefinition{
	{ID: "portrait-front", Label: "Portrait Front", Group: domain.PoseGroupPortrait,
		Description: "Frontal headshot, head centered, looking straight into the lens."},
	{ID: "portrait-45-left", Label: "Portrait 45 Left", Group: domain.PoseGroupPortrait,
		Description: "Head turned 45 degrees to the left, eyes following the nose line."},
	{ID: "portrait-45-right", Label: "Portrait 45 Right", Group: domain.PoseGroupPortrait,
		Description: "Head turned 45 degrees to the right, chin level."},
	{ID: "portrait-profile-left", Label: "Portrait Profile Left", Group: domain.PoseGroupPortrait,
		Description: "Strict 90 degree profile facing left, jawline visible."},
	{ID: "portrait-profile-right", Label: "Portrait Profile Right", Group: domain.PoseGroupPortrait,
		Description: "Strict 90 degree profile facing right, ear visible."},
	{ID: "portrait-smile", Label: "Portrait Smile", Group: domain.PoseGroupPortrait,
		Description: "Frontal headshot with a soft closed-mouth smile."},
	{ID: "portrait-over-shoulder", Label: "Portrait Over Shoulder", Group: domain.PoseGroupPortrait,
		Description: "Looking back over the shoulder toward the camera, body turned right."},
	{ID: "upper-front", Label: "Upper Body Front", Group: domain.PoseGroupUpper,
		Description: "Waist-up shot, shoulders square to the camera, arms relaxed."},
	{ID: "upper-arms-crossed", Label: "Upper Body Arms Crossed", Group: domain.PoseGroupUpper,
		Description: "Waist-up, arms crossed, torso angled 45 degrees left."},
	{ID: "upper-hand-chin", Label: "Upper Body Hand On Chin", Group: domain.PoseGroupUpper,
		Description: "Waist-up, one hand resting under the chin, thoughtful gaze off camera."},
	{ID: "upper-side-right", Label: "Upper Body Side Right", Group: domain.PoseGroupUpper,
		Description: "Waist-up side view facing right, shoulders relaxed."},
	{ID: "full-standing-front", Label: "Full Standing Front", Group: domain.PoseGroupFull,
		Description: "Full body standing, weight even on both feet, centered in frame."},
	{ID: "full-walking", Label: "Full Walking", Group: domain.PoseGroupFull,
		Description: "Full body mid-stride walking toward the camera, arms swinging naturally."},
	{ID: "full-contrapposto-left", Label: "Full Contrapposto Left", Group: domain.PoseGroupFull,
		Description: "Full body, weight on one leg, hips turned 45 degrees to the left."},
	{ID: "full-rear", Label: "Full Rear", Group: domain.PoseGroupFull,
		Description: "Full body rear view, standing upright, arms at the sides."},
	{ID: "full-rear-left", Label: "Full Rear Left", Group: domain.PoseGroupFull,
		Description: "Full body from behind, stepping left, shoulders relaxed."},
	{ID: "full-seated", Label: "Full Seated", Group: domain.PoseGroupFull,
		Description: "Full body seated on a stool, hands on knees, facing the camera."},
	{ID: "full-profile-right", Label: "Full Profile Right", Group: domain.PoseGroupFull,
		Description: "Full body profile facing right, standing tall."},
}

// Wardrobe is the default wardrobe list the composer draws from.
var Wardrobe = []string{
	"plain white crew-neck t-shirt and dark slim jeans",
	"fitted black turtleneck and tailored charcoal trousers",
	"light grey hoodie and black joggers",
	"navy button-up shirt with rolled sleeves and chinos",
	"simple beige knit sweater and straight-leg denim",
	"olive utility jacket over a white tee and black trousers",
	"black tank top and relaxed grey sweatpants",
	"denim jacket over a striped shirt and dark jeans",
}

// Expressions is the default expression list for portrait and upper poses.
var Expressions = []string{
	"relaxed neutral expression",
	"gentle closed-mouth smile",
	"confident slight smirk",
	"calm focused look",
	"soft thoughtful expression",
	"bright open smile showing teeth",
}
