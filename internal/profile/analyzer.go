package profile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"datasetgen/internal/domain"
	"datasetgen/internal/infra"
)

// Analyzer extracts an identity profile from a reference image.
type Analyzer interface {
	Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error)
}

// CachedAnalyzer memoizes analysis per image content and collapses
// concurrent requests for the same image into one provider call.
type CachedAnalyzer struct {
	next   Analyzer
	cache  *cache.Cache
	group  singleflight.Group
	logger infra.Logger
}

// NewCachedAnalyzer wraps next. A non-positive ttl disables expiry.
func NewCachedAnalyzer(next Analyzer, ttl time.Duration, logger infra.Logger) *CachedAnalyzer {
	expiry := ttl
	if expiry <= 0 {
		expiry = cache.NoExpiration
	}
	return &CachedAnalyzer{
		next:   next,
		cache:  cache.New(expiry, 10*time.Minute),
		logger: logger,
	}
}

func (a *CachedAnalyzer) Analyze(ctx context.Context, ref domain.ReferenceImage) (string, error) {
	if !ref.Present() {
		return "", errors.New("profile: reference image is required")
	}
	key := contentKey(ref.Data)
	if v, ok := a.cache.Get(key); ok {
		a.logger.Debug().Str("image_key", key[:12]).Msg("profile: analysis cache hit")
		return v.(string), nil
	}
	v, err, shared := a.group.Do(key, func() (any, error) {
		text, err := a.next.Analyze(ctx, ref)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			a.cache.Set(key, text, cache.DefaultExpiration)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	a.logger.Debug().
		Str("image_key", key[:12]).
		Bool("shared", shared).
		Msg("profile: analysis completed")
	return v.(string), nil
}

// Forget drops every cached analysis.
func (a *CachedAnalyzer) Forget() {
	a.cache.Flush()
}

func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
