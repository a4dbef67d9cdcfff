package domain

import (
	"errors"
	"testing"
)

func TestSelection(t *testing.T) {
	s := NewSelection("b", "a", "", "b")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got := s.IDs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("IDs() = %v, want [a b]", got)
	}
	clone := s.Clone()
	s.Remove("a")
	if s.Has("a") {
		t.Fatal("expected a to be removed")
	}
	if !clone.Has("a") {
		t.Fatal("clone must not share state with the original")
	}
}

func TestParseSettings(t *testing.T) {
	if g, err := ParsePoseGroup(" Portrait "); err != nil || g != PoseGroupPortrait {
		t.Fatalf("ParsePoseGroup = %q, %v", g, err)
	}
	if _, err := ParsePoseGroup("torso"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("ParsePoseGroup error = %v, want ErrInvalidSetting", err)
	}
	if m, err := ParseProfileMode(""); err != nil || m != ProfileModeAuto {
		t.Fatalf("ParseProfileMode empty = %q, %v", m, err)
	}
	if r, err := ParseResolution("4k"); err != nil || r != Resolution4K {
		t.Fatalf("ParseResolution = %q, %v", r, err)
	}
	if _, err := ParseResolution("8K"); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("ParseResolution error = %v, want ErrInvalidSetting", err)
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	tests := map[TaskStatus]bool{
		TaskStatusPending:    false,
		TaskStatusGenerating: false,
		TaskStatusCompleted:  true,
		TaskStatusFailed:     true,
		TaskStatusStopped:    true,
	}
	for status, want := range tests {
		if got := status.Terminal(); got != want {
			t.Fatalf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(errors.Join(errors.New("gemini status 401"), ErrAuthExpired)) {
		t.Fatal("wrapped ErrAuthExpired must be fatal")
	}
	if IsFatal(ErrNoCandidates) {
		t.Fatal("ErrNoCandidates must not be fatal")
	}
}
