// Package cancelflag keeps the batch stop flag in redis so a stop issued by
// another process reaches the running batch.
package cancelflag

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"datasetgen/internal/infra"
)

const defaultTTL = time.Hour

// RedisToken implements batch.CancelToken on a single redis key.
type RedisToken struct {
	rdb    *redis.Client
	key    string
	ttl    time.Duration
	logger *infra.Logger
}

// New returns a token stored under prefix+scope. scope names the studio
// session, so a stop from the CLI does not need to know the batch id.
func New(rdb *redis.Client, prefix, scope string, logger *infra.Logger) *RedisToken {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	if scope == "" {
		scope = "default"
	}
	return &RedisToken{rdb: rdb, key: prefix + scope, ttl: defaultTTL, logger: logger}
}

func (t *RedisToken) Key() string {
	return t.key
}

// Cancelled treats an unreachable redis as "not cancelled" so the batch keeps going.
func (t *RedisToken) Cancelled(ctx context.Context) bool {
	n, err := t.rdb.Exists(ctx, t.key).Result()
	if err != nil {
		t.logger.Warn().Err(err).Str("key", t.key).Msg("cancelflag: check failed")
		return false
	}
	return n > 0
}

func (t *RedisToken) Cancel(ctx context.Context) error {
	if err := t.rdb.Set(ctx, t.key, time.Now().UTC().Format(time.RFC3339), t.ttl).Err(); err != nil {
		return fmt.Errorf("cancelflag: set %s: %w", t.key, err)
	}
	t.logger.Info().Str("key", t.key).Msg("cancelflag: stop flag set")
	return nil
}

func (t *RedisToken) Reset(ctx context.Context) error {
	if err := t.rdb.Del(ctx, t.key).Err(); err != nil {
		return fmt.Errorf("cancelflag: clear %s: %w", t.key, err)
	}
	return nil
}
