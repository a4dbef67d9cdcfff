package credentials

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	ProviderGemini = "gemini"
)

// ErrMissingKey is returned when no usable key is stored.
var ErrMissingKey = errors.New("gemini api key is not configured")

// Store keeps provider API keys in process memory. A key that the provider
// rejected is invalidated so callers must re-authorize.
type Store struct {
	mu          sync.RWMutex
	tokens      map[string]string
	invalidated map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		tokens:      make(map[string]string),
		invalidated: make(map[string]time.Time),
	}
}

// GeminiAPIKey returns the active key or ErrMissingKey.
func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	token := s.tokens[provider]
	if token == "" {
		return "", ErrMissingKey
	}
	return token, nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	return s.set(ctx, ProviderGemini, key)
}

// Authorized reports whether a Gemini key is available.
func (s *Store) Authorized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[ProviderGemini] != ""
}

// Invalidate drops the Gemini key after the provider rejected it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[ProviderGemini]; ok {
		delete(s.tokens, ProviderGemini)
		s.invalidated[ProviderGemini] = time.Now()
	}
}

// InvalidatedAt returns when the Gemini key was last invalidated.
func (s *Store) InvalidatedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.invalidated[ProviderGemini]
	return at, ok
}

func (s *Store) set(ctx context.Context, provider, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[provider] = token
	delete(s.invalidated, provider)
	return nil
}
