package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeReference(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ref.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GENERATION_BACKEND", "synthetic")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("REDIS_URL", "")
	t.Setenv("POSE_CATALOG_PATH", "")
	t.Setenv("OUTPUT_FORMAT", "png")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestPosesCommand(t *testing.T) {
	out, err := execute(t, "poses", "--group", "portrait")
	if err != nil {
		t.Fatalf("poses returned error: %v", err)
	}
	if !strings.Contains(out, "portrait-front") {
		t.Fatalf("output misses portrait-front:\n%s", out)
	}
	if strings.Contains(out, "full-walking") {
		t.Fatalf("group filter ignored:\n%s", out)
	}
}

func TestPosesCommandRejectsUnknownGroup(t *testing.T) {
	if _, err := execute(t, "poses", "--group", "feet"); err == nil {
		t.Fatal("expected error for unknown group")
	}
}

func TestRunDryRunWritesDataset(t *testing.T) {
	ref := writeReference(t)
	outDir := t.TempDir()

	out, err := execute(t, "run", ref,
		"--dry-run",
		"--poses", "portrait-front,full-walking",
		"--out", outDir,
		"--seed", "7",
		"--project", "Test Set",
	)
	if err != nil {
		t.Fatalf("run returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2/2 poses") {
		t.Fatalf("summary missing:\n%s", out)
	}

	manifests, err := filepath.Glob(filepath.Join(outDir, "*", "manifest.json"))
	if err != nil || len(manifests) != 1 {
		t.Fatalf("manifest not written: %v %v", manifests, err)
	}
	pngs, _ := filepath.Glob(filepath.Join(filepath.Dir(manifests[0]), "*.png"))
	if len(pngs) != 2 {
		t.Fatalf("images = %d, want 2", len(pngs))
	}
}

func TestRunRejectsUnknownPose(t *testing.T) {
	ref := writeReference(t)
	if _, err := execute(t, "run", ref, "--dry-run", "--poses", "nope", "--out", t.TempDir()); err == nil {
		t.Fatal("expected unknown pose error")
	}
}

func TestStopNeedsRedis(t *testing.T) {
	if _, err := execute(t, "stop"); err == nil {
		t.Fatal("expected error without REDIS_URL")
	}
}
