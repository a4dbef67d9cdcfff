package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"datasetgen/internal/domain"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	poses := c.Poses()
	if len(poses) != len(defaultPoses) {
		t.Fatalf("len(Poses()) = %d, want %d", len(poses), len(defaultPoses))
	}
	groups := map[domain.PoseGroup]int{}
	for _, p := range poses {
		groups[p.Group]++
	}
	for _, g := range []domain.PoseGroup{domain.PoseGroupPortrait, domain.PoseGroupUpper, domain.PoseGroupFull} {
		if groups[g] == 0 {
			t.Fatalf("default catalog has no %s poses", g)
		}
	}
}

func TestFilterKeepsCatalogOrder(t *testing.T) {
	c := Default()
	sel := domain.NewSelection("full-rear", "portrait-front", "upper-front")
	got := c.Filter(sel)
	want := []string{"portrait-front", "upper-front", "full-rear"}
	if len(got) != len(want) {
		t.Fatalf("len(Filter()) = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("Filter()[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		poses []domain.PoseDefinition
	}{
		{name: "empty", poses: nil},
		{name: "missing id", poses: []domain.PoseDefinition{{Group: "full"}}},
		{name: "duplicate", poses: []domain.PoseDefinition{{ID: "a", Group: "full"}, {ID: "a", Group: "upper"}}},
		{name: "bad group", poses: []domain.PoseDefinition{{ID: "a", Group: "torso"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.poses); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.json")
	body := `{"poses":[{"id":"side_step","group":"Full","description":"side step to the left"}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	p, ok := c.Get("side_step")
	if !ok {
		t.Fatal("expected side_step pose")
	}
	if p.Label != "Side Step" {
		t.Fatalf("Label = %q, want %q", p.Label, "Side Step")
	}
	if p.Group != domain.PoseGroupFull {
		t.Fatalf("Group = %q, want %q", p.Group, domain.PoseGroupFull)
	}
	if err := c.Validate([]string{"side_step", "nope"}); !errors.Is(err, domain.ErrUnknownPose) {
		t.Fatalf("Validate error = %v, want ErrUnknownPose", err)
	}
}
