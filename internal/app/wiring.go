package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/articles"
	"horse.fit/polyglot/internal/cache"
	"horse.fit/polyglot/internal/cli"
	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/logging"
	"horse.fit/polyglot/internal/metrics"
	"horse.fit/polyglot/internal/translation"
)

// runtime holds the wired service graph shared by serve and the CLI commands.
type runtime struct {
	cfg      *config.Config
	logger   zerolog.Logger
	pool     *db.Pool
	store    translation.Store
	resolver *translation.Resolver
	articles *articles.Service
	closers  []func() error
}

func loadConfig(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func buildRuntime(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*runtime, error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger, pool: pool}
	rt.closers = append(rt.closers, pool.Close)

	store, err := rt.newStore(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.store = store

	engine, err := newEngine(cfg, logging.Component(logger, "engine"))
	if err != nil {
		rt.Close()
		return nil, err
	}

	recorder := metrics.Default()
	rt.resolver = translation.NewResolver(store, engine, logging.Component(logger, "resolver"), translation.WithMetrics(recorder))
	rt.articles = articles.NewService(pool, rt.resolver, store, logging.Component(logger, "articles"), articles.Options{
		ListingConcurrency: cfg.ListingConcurrency,
		SiteBaseURL:        cfg.SiteBaseURL,
	})
	return rt, nil
}

func (rt *runtime) newStore(ctx context.Context) (translation.Store, error) {
	postgres := db.NewTranslationStore(rt.pool)
	switch rt.cfg.TranslationStore {
	case config.StoreRedis:
		redisStore, client, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			URL:       rt.cfg.RedisURL,
			KeyPrefix: rt.cfg.RedisKeyPrefix,
			Backing:   postgres,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		rt.logger.Info().Str("store", config.StoreRedis).Msg("translation store ready")
		return redisStore, nil
	default:
		rt.logger.Info().Str("store", config.StorePostgres).Msg("translation store ready")
		return postgres, nil
	}
}

func newEngine(cfg *config.Config, logger zerolog.Logger) (translation.Engine, error) {
	registry, err := translation.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure translation providers: %w", err)
	}
	provider, err := registry.Provider("")
	if err != nil {
		return nil, err
	}

	retry := translation.DefaultRetryConfig()
	retry.MaxRetries = cfg.EngineRetries

	base := translation.NewModelEngine(provider, metrics.Default())
	logger.Info().
		Str("provider", provider.Name()).
		Str("model", provider.ModelName()).
		Dur("timeout", cfg.EngineTimeout).
		Int("retries", cfg.EngineRetries).
		Bool("breaker", cfg.EngineBreakerEnabled).
		Int("rate_per_minute", cfg.EngineRatePerMinute).
		Msg("translation engine ready")

	return translation.Stack(base, translation.StackOptions{
		Timeout:        cfg.EngineTimeout,
		Retry:          retry,
		BreakerEnabled: cfg.EngineBreakerEnabled,
		Breaker:        translation.DefaultBreakerConfig("translation-" + provider.Name()),
		RatePerMinute:  cfg.EngineRatePerMinute,
	}, logger), nil
}

func (rt *runtime) Close() {
	if rt == nil {
		return
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn().Err(err).Msg("close failed")
		}
	}
	rt.closers = nil
}
