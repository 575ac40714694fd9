// Package app wires the service graph from configuration.
package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/myrefera/script-tailor-go/internal/config"
	"github.com/myrefera/script-tailor-go/internal/salvage"
	"github.com/myrefera/script-tailor-go/internal/server"
	"github.com/myrefera/script-tailor-go/internal/service/ai"
	"github.com/myrefera/script-tailor-go/internal/service/cache"
	"github.com/myrefera/script-tailor-go/internal/service/scraper"
	"github.com/myrefera/script-tailor-go/internal/service/transcriber"
)

// Container holds the wired services and the HTTP server.
type Container struct {
	Store   cache.Store
	Tailor  *ai.TailoringService
	Fetcher *transcriber.Fetcher
	Scraper *scraper.Service
	Server  *http.Server
	logger  *zap.Logger
}

// Build constructs the full service graph. A configured Redis host selects
// the Redis store; otherwise transcripts are cached in process memory.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	var store cache.Store
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
	} else {
		logger.Info("No Redis host configured, using in-memory transcript cache")
		store = cache.NewMemoryStore(logger)
	}

	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		OpenAIModel:    cfg.OpenAI.Model,
		GeminiAPIKey:   cfg.Gemini.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		EnableFallback: cfg.Gemini.EnableFallback,
		MaxTokens:      cfg.Tailoring.MaxTokens,
		Temperature:    cfg.Tailoring.Temperature,
		RequestTimeout: cfg.Tailoring.RequestTimeout,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	tailor := ai.NewTailoringService(modelManager, salvage.NewEngine(logger), logger)

	supadata := transcriber.NewSupadataClient(cfg.Supadata.APIKey, cfg.Supadata.BaseURL, logger)
	fetcher := transcriber.NewFetcher(supadata, cfg.Transcribe.MaxRetries, logger)

	scraperService := scraper.NewService(logger)

	handlers := server.NewHandlers(fetcher, tailor, scraperService, store, server.HandlersConfig{
		CacheTTL:     cfg.Transcribe.CacheTTL,
		PrimaryModel: modelManager.PrimaryModel(),
	}, logger)

	srv := server.New(cfg.Server.Host, cfg.Server.Port, cfg.CORS.AllowedOrigins, handlers, logger)

	return &Container{
		Store:   store,
		Tailor:  tailor,
		Fetcher: fetcher,
		Scraper: scraperService,
		Server:  srv,
		logger:  logger,
	}, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if err := c.Store.Close(); err != nil {
		c.logger.Warn("Failed to close cache store", zap.Error(err))
	}
}
