// Package bootstrap wires configuration into the studio so the API server
// and the CLI build the same object graph.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"datasetgen/internal/batch"
	"datasetgen/internal/catalog"
	"datasetgen/internal/infra"
	"datasetgen/internal/infra/cancelflag"
	"datasetgen/internal/infra/credentials"
	"datasetgen/internal/profile"
	"datasetgen/internal/prompt"
	"datasetgen/internal/providers/image"
	"datasetgen/internal/studio"
)

// CancelScope names the redis key shared by the API server and the CLI.
const CancelScope = "studio"

type Components struct {
	Catalog     *catalog.Catalog
	Credentials *credentials.Store
	Generator   image.Generator
	Token       batch.CancelToken
	Redis       *redis.Client
	Studio      *studio.Service
}

// Build constructs every component. observer may be nil.
func Build(ctx context.Context, cfg *infra.Config, logger *infra.Logger, observer batch.Observer) (*Components, error) {
	cat, err := catalog.Load(cfg.PoseCatalogPath)
	if err != nil {
		return nil, err
	}

	creds := credentials.NewStore()
	if cfg.GeminiAPIKey != "" {
		if err := creds.SetGeminiAPIKey(ctx, cfg.GeminiAPIKey); err != nil {
			return nil, err
		}
	}

	gen, err := image.New(cfg, creds, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	token := Token(cfg, rdb, logger)

	draw := prompt.DefaultDrawer
	if cfg.PromptSeeded {
		draw = prompt.NewSeededDrawer(cfg.PromptSeed)
	}
	composer := prompt.NewComposer(prompt.Options{
		Wardrobe:    catalog.Wardrobe,
		Expressions: catalog.Expressions,
		Draw:        draw,
	})

	orch := batch.New(batch.Options{
		Catalog:   cat,
		Composer:  composer,
		Generator: gen,
		Logger:    logger,
		Observer:  observer,
	})

	svc, err := studio.New(studio.Options{
		Catalog:          cat,
		Orchestrator:     orch,
		Analyzer:         profile.NewCachedAnalyzer(gen, cfg.AnalysisCacheTTL, *logger),
		Credentials:      creds,
		Token:            token,
		ReferenceMaxEdge: cfg.ReferenceMaxEdge,
		Logger:           logger,
	})
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	logger.Info().
		Str("backend", cfg.GenerationBackend).
		Int("poses", len(cat.Poses())).
		Bool("redis", rdb != nil).
		Bool("authorized", creds.Authorized()).
		Msg("bootstrap: studio ready")

	return &Components{
		Catalog:     cat,
		Credentials: creds,
		Generator:   gen,
		Token:       token,
		Redis:       rdb,
		Studio:      svc,
	}, nil
}

// Token returns the redis backed stop flag when rdb is set, otherwise an in-process one.
func Token(cfg *infra.Config, rdb *redis.Client, logger *infra.Logger) batch.CancelToken {
	if rdb == nil {
		return batch.NewMemoryToken()
	}
	return cancelflag.New(rdb, cfg.CancelKeyPrefix, CancelScope, logger)
}

// Close releases the studio and the redis connection.
func (c *Components) Close(ctx context.Context) error {
	err := c.Studio.Close(ctx)
	if c.Redis != nil {
		if cerr := c.Redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
