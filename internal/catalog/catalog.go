// Package catalog holds the pose catalog and the wardrobe and expression lists
// the prompt composer draws from.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"datasetgen/internal/domain"
)

// Catalog is an ordered, read-only set of poses.
type Catalog struct {
	poses []domain.PoseDefinition
	index map[string]int
}

// New validates poses and keeps their order.
func New(poses []domain.PoseDefinition) (*Catalog, error) {
	c := &Catalog{
		poses: make([]domain.PoseDefinition, 0, len(poses)),
		index: make(map[string]int, len(poses)),
	}
	titler := cases.Title(language.English)
	for i, p := range poses {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: pose %d has no id", i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate pose id %q", p.ID)
		}
		group, err := domain.ParsePoseGroup(string(p.Group))
		if err != nil {
			return nil, fmt.Errorf("catalog: pose %q: %w", p.ID, err)
		}
		p.Group = group
		if strings.TrimSpace(p.Label) == "" {
			p.Label = titler.String(strings.NewReplacer("-", " ", "_", " ").Replace(p.ID))
		}
		c.index[p.ID] = len(c.poses)
		c.poses = append(c.poses, p)
	}
	if len(c.poses) == 0 {
		return nil, errors.New("catalog: no poses")
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultPoses)
	if err != nil {
		panic(err)
	}
	return c
}

type fileFormat struct {
	Poses []domain.PoseDefinition `json:"poses"`
}

// Load reads a catalog from a JSON file of the form {"poses": [...]}.
// An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return New(f.Poses)
}

// Poses returns the catalog in order. The slice is a copy.
func (c *Catalog) Poses() []domain.PoseDefinition {
	return append([]domain.PoseDefinition(nil), c.poses...)
}

// Get looks a pose up by id.
func (c *Catalog) Get(id string) (domain.PoseDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.PoseDefinition{}, false
	}
	return c.poses[i], true
}

// Filter returns the poses in sel, in catalog order.
func (c *Catalog) Filter(sel *domain.Selection) []domain.PoseDefinition {
	var out []domain.PoseDefinition
	for _, p := range c.poses {
		if sel.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Validate returns ErrUnknownPose for the first id not in the catalog.
func (c *Catalog) Validate(ids []string) error {
	for _, id := range ids {
		if _, ok := c.index[id]; !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownPose, id)
		}
	}
	return nil
}
