// Package app wires configuration into the storage, provider and service
// layers. The HTTP server and the CLI build the same object graph from it.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jmoiron/sqlx"
	"github.com/valkey-io/valkey-go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/config"
	"github.com/fleveque/location-service/internal/llm"
	"github.com/fleveque/location-service/internal/provider"
	"github.com/fleveque/location-service/internal/service"
	"github.com/fleveque/location-service/internal/storage"
	"github.com/fleveque/location-service/internal/tracing"
)

// App holds the wired dependencies of one process.
type App struct {
	DB           *sqlx.DB
	Cache        storage.CacheStore
	CacheBackend string
	Calls        storage.GenerationCallRepository
	Generator    *provider.ContentGenerator
	Images       *service.ImageResolver
	Locations    *service.LocationService
	Tracer       *sdktrace.TracerProvider

	closers []func()
}

// New opens storage and builds every layer from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &App{DB: db, Calls: storage.NewGenerationCallRepository(db)}
	a.closers = append(a.closers, func() { db.Close() })

	a.Tracer = tracing.Install(cfg.Tracing.ServiceName, logger)
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Tracer.Shutdown(ctx); err != nil {
			logger.Warn("flushing spans", zap.Error(err))
		}
	})

	a.Cache, a.CacheBackend = a.cacheStore(ctx, cfg, logger)

	clients, err := generationClients(ctx, cfg.Generation, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Generator = provider.NewContentGenerator(clients, provider.GeneratorOptions{
		RatePerMinute:  cfg.Generation.RatePerMinute,
		Language:       cfg.Generation.Language,
		FailureMessage: cfg.Generation.FailureMessage,
	}, a.Calls, logger)

	a.Images = service.NewImageResolver(imageProviders(cfg.Images, logger), cfg.Images.DefaultURL, logger)

	a.Locations = service.NewLocationService(a.Cache, a.Generator, a.Images, service.Options{
		Timeout:        cfg.Generation.Timeout,
		DedupeInFlight: cfg.Generation.DedupeInFlight,
		TracerProvider: a.Tracer,
	}, logger)

	logger.Info("location pipeline ready",
		zap.String("cache", a.CacheBackend),
		zap.Int("generation_backends", len(clients)),
		zap.Strings("image_providers", cfg.Images.ProviderOrder),
	)
	return a, nil
}

// Close stops background warm-ups, drains pending cache writes and releases
// storage.
func (a *App) Close() {
	if a.Locations != nil {
		a.Locations.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// cacheStore selects the configured backend. An unreachable Valkey falls
// back to the SQLite store so the service still starts.
func (a *App) cacheStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.CacheStore, string) {
	sc := cfg.Storage
	switch sc.Backend {
	case "memory":
		return storage.NewMemoryCacheStore(sc.TTL), "memory"
	case "valkey":
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: sc.Valkey.Addresses,
			Password:    sc.Valkey.Password,
			SelectDB:    sc.Valkey.DB,
		})
		if err != nil {
			logger.Error("creating valkey client, falling back to sqlite", zap.Error(err))
			break
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to sqlite", zap.Error(err))
			client.Close()
			break
		}

		a.closers = append(a.closers, client.Close)
		return storage.NewValkeyCacheStore(client, sc.Valkey.KeyPrefix, sc.TTL), "valkey"
	case "sqlite", "":
	default:
		logger.Warn("unknown storage backend, using sqlite", zap.String("backend", sc.Backend))
	}
	return storage.NewSQLiteCacheStore(a.DB, sc.TTL), "sqlite"
}

// generationClients builds the backends named in provider_order. Backends
// without an API key are skipped with a warning.
func generationClients(ctx context.Context, gc config.GenerationConfig, logger *zap.Logger) ([]llm.Client, error) {
	var clients []llm.Client
	for _, name := range gc.ProviderOrder {
		switch name {
		case "gemini":
			if gc.Gemini.APIKey == "" {
				logger.Warn("gemini API key not set, skipping backend")
				continue
			}
			client, err := llm.NewGeminiClient(ctx, llm.GeminiOptions{
				APIKey:  gc.Gemini.APIKey,
				Model:   gc.Gemini.Model,
				BaseURL: gc.Gemini.BaseURL,
			})
			if err != nil {
				return nil, err
			}
			clients = append(clients, client)
		case "anthropic":
			if gc.Anthropic.APIKey == "" {
				logger.Warn("anthropic API key not set, skipping backend")
				continue
			}
			var opts []option.RequestOption
			if gc.Anthropic.BaseURL != "" {
				opts = append(opts, option.WithBaseURL(gc.Anthropic.BaseURL))
			}
			clients = append(clients, llm.NewAnthropicClient(gc.Anthropic.APIKey, gc.Anthropic.Model, opts...))
		case "openai":
			if gc.OpenAI.APIKey == "" {
				logger.Warn("openai API key not set, skipping backend")
				continue
			}
			clients = append(clients, llm.NewOpenAIClient(gc.OpenAI.APIKey, gc.OpenAI.Model, gc.OpenAI.BaseURL))
		default:
			return nil, fmt.Errorf("unknown generation provider %q", name)
		}
	}

	if len(clients) == 0 {
		logger.Warn("no generation backend configured; uncached places will fail")
	}
	return clients, nil
}

func imageProviders(ic config.ImagesConfig, logger *zap.Logger) []provider.ImageProvider {
	timeout := ic.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var providers []provider.ImageProvider
	for _, name := range ic.ProviderOrder {
		switch name {
		case "unsplash":
			providers = append(providers, provider.NewUnsplashProvider(ic.Unsplash.APIKey, timeout, logger))
		case "pexels":
			providers = append(providers, provider.NewPexelsProvider(ic.Pexels.APIKey, timeout, logger))
		default:
			logger.Warn("unknown image provider, skipping", zap.String("provider", name))
		}
	}
	return providers
}
