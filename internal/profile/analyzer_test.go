package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"datasetgen/internal/domain"
)

type stubAnalyzer struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.text, s.err
}

func TestCachedAnalyzerMemoizesByContent(t *testing.T) {
	stub := &stubAnalyzer{text: "  HAIR: long auburn waves. Green eyes.  "}
	a := NewCachedAnalyzer(stub, 0, zerolog.Nop())
	ref := domain.ReferenceImage{Data: []byte("png-bytes"), MIMEType: "image/png"}

	for i := 0; i < 3; i++ {
		got, err := a.Analyze(context.Background(), ref)
		if err != nil {
			t.Fatalf("Analyze returned error: %v", err)
		}
		if got != "HAIR: long auburn waves. Green eyes." {
			t.Fatalf("Analyze = %q", got)
		}
	}
	if stub.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", stub.calls)
	}

	if _, err := a.Analyze(context.Background(), domain.ReferenceImage{Data: []byte("other")}); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", stub.calls)
	}

	a.Forget()
	if _, err := a.Analyze(context.Background(), ref); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if stub.calls != 3 {
		t.Fatalf("provider calls after Forget = %d, want 3", stub.calls)
	}
}

func TestCachedAnalyzerDoesNotCacheErrors(t *testing.T) {
	stub := &stubAnalyzer{err: domain.ErrAuthExpired}
	a := NewCachedAnalyzer(stub, 0, zerolog.Nop())
	ref := domain.ReferenceImage{Data: []byte("png-bytes")}

	for i := 0; i < 2; i++ {
		if _, err := a.Analyze(context.Background(), ref); !errors.Is(err, domain.ErrAuthExpired) {
			t.Fatalf("Analyze error = %v, want ErrAuthExpired", err)
		}
	}
	if stub.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", stub.calls)
	}
}

func TestCachedAnalyzerRequiresImage(t *testing.T) {
	a := NewCachedAnalyzer(&stubAnalyzer{}, 0, zerolog.Nop())
	if _, err := a.Analyze(context.Background(), domain.ReferenceImage{}); err == nil {
		t.Fatal("expected error for missing image")
	}
}
