package image

import (
	"testing"

	"datasetgen/internal/infra"
	"datasetgen/internal/providers/genai"
	"datasetgen/internal/providers/genaisdk"
)

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		backend string
		check   func(Generator) bool
	}{
		{backend: infra.BackendREST, check: func(g Generator) bool { _, ok := g.(*genai.Client); return ok }},
		{backend: infra.BackendSDK, check: func(g Generator) bool { _, ok := g.(*genaisdk.Client); return ok }},
		{backend: infra.BackendSynthetic, check: func(g Generator) bool { _, ok := g.(*genai.SyntheticClient); return ok }},
	}
	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			gen, err := New(&infra.Config{GenerationBackend: tc.backend}, nil, nil)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if !tc.check(gen) {
				t.Fatalf("unexpected generator %T", gen)
			}
		})
	}

	if _, err := New(&infra.Config{GenerationBackend: "dalle"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
