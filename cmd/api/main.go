package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"datasetgen/internal/bootstrap"
	httpapi "datasetgen/internal/http"
	"datasetgen/internal/http/handlers"
	"datasetgen/internal/http/stream"
	"datasetgen/internal/infra"
)

const shutdownGrace = 15 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := stream.NewHub(logger, cfg.CORSAllowedOrigins)

	components, err := bootstrap.Build(ctx, cfg, &logger, hub)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: bootstrap failed")
	}

	app := handlers.NewApp(components.Studio, components.Catalog, components.Credentials, hub, logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Str("backend", cfg.GenerationBackend).Msg("api: listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		var firstErr error
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("api: http shutdown failed")
			firstErr = err
		}
		if err := components.Close(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("api: studio shutdown failed")
			if firstErr == nil {
				firstErr = err
			}
		}
		hub.Close()
		return firstErr
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("api: stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("api: server stopped")
}
