package app

import (
	"context"
	"fmt"

	"github.com/mselser95/predictmarket-mcp/internal/arbitrage"
	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/mselser95/predictmarket-mcp/internal/matching"
	"github.com/mselser95/predictmarket-mcp/internal/mcpserver"
	"github.com/mselser95/predictmarket-mcp/internal/platforms"
	"github.com/mselser95/predictmarket-mcp/internal/ratelimit"
	"github.com/mselser95/predictmarket-mcp/internal/storage"
	"github.com/mselser95/predictmarket-mcp/internal/watchlist"
	"github.com/mselser95/predictmarket-mcp/pkg/cache"
	"github.com/mselser95/predictmarket-mcp/pkg/config"
	"github.com/mselser95/predictmarket-mcp/pkg/healthprobe"
	"github.com/mselser95/predictmarket-mcp/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	service, store, err := NewService(cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	if store != nil {
		err = service.Rehydrate(ctx)
		if err != nil {
			logger.Warn("rehydrate-failed", zap.Error(err))
		}
	}

	healthChecker := healthprobe.New(service.Platforms())
	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Watchlist:     service,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		federation:    service,
		mcpServer:     mcpserver.New(service, Version, logger),
		store:         store,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// NewService builds the federation service and its optional store without
// the HTTP and MCP servers. Used by the one-shot CLI commands.
func NewService(cfg *config.Config, logger *zap.Logger) (*federation.Service, storage.Store, error) {
	limiter := ratelimit.New(cfg.RateLimits, logger)
	matcher := matching.New(logger)

	marketCache, err := setupCache(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup cache: %w", err)
	}

	store, err := setupStore(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup store: %w", err)
	}

	service := federation.New(federation.Config{
		Adapters:  setupAdapters(cfg, limiter, logger),
		Matcher:   matcher,
		Detector:  arbitrage.NewDetector(matcher, cfg.MinMatchConfidence, logger),
		Watchlist: watchlist.New(logger),
		Cache:     marketCache,
		CacheTTL:  cfg.CacheTTL,
		Store:     store,
		Logger:    logger,
	})
	return service, store, nil
}

func setupAdapters(cfg *config.Config, limiter *ratelimit.Limiter, logger *zap.Logger) []platforms.Adapter {
	base := platforms.Config{
		Timeout: cfg.HTTPTimeout,
		Limiter: limiter,
		Logger:  logger,
	}

	manifoldCfg := base
	manifoldCfg.BaseURL = cfg.ManifoldBaseURL

	polymarketCfg := base
	polymarketCfg.BaseURL = cfg.PolymarketBaseURL

	metaculusCfg := base
	metaculusCfg.BaseURL = cfg.MetaculusBaseURL

	predictitCfg := base
	predictitCfg.BaseURL = cfg.PredictItBaseURL

	kalshiCfg := base
	kalshiCfg.BaseURL = cfg.KalshiBaseURL
	kalshiCfg.APIKey = cfg.KalshiAPIKey

	return []platforms.Adapter{
		platforms.NewManifoldAdapter(manifoldCfg),
		platforms.NewPolymarketAdapter(polymarketCfg),
		platforms.NewMetaculusAdapter(metaculusCfg),
		platforms.NewPredictItAdapter(predictitCfg),
		platforms.NewKalshiAdapter(kalshiCfg),
	}
}

func setupCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	if cfg.CacheTTL <= 0 {
		return nil, nil
	}

	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: int64(cfg.CacheMaxItems) * 10,
		MaxCost:     int64(cfg.CacheMaxItems),
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.StorageMode {
	case "postgres":
		return storage.NewPostgresStore(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	case "memory":
		return storage.NewMemoryStore(logger), nil
	default:
		return nil, nil
	}
}
