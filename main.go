package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"unegui-crawler/config"
	"unegui-crawler/helpers"
	"unegui-crawler/internal/crawler"
	"unegui-crawler/logger"
	"unegui-crawler/services/cache"
	"unegui-crawler/services/publisher"
	"unegui-crawler/services/store"
	"unegui-crawler/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Int("max_pages", cfg.MaxPages).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	client := helpers.NewClient(cfg.RequestTimeout, cfg.BaseDelay, cfg.DelayJitter, cfg.MaxRetries)

	c := crawler.New(crawler.Config{
		BaseURL:    cfg.BaseURL,
		SiteOrigin: cfg.SiteOrigin,
		MaxPages:   cfg.MaxPages,
		FlushEvery: cfg.FlushEvery,
	}, client, services.Cache, services.Store, services.Publisher)

	// Create and start worker
	w := worker.NewWorker(ctx, c, cfg.CrawlInterval)

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.URLCache
	Store     store.Store
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
	if s.Cache != nil {
		s.Cache.Close()
	}
}

// initializeServices initializes the dedup cache, snapshot store and
// optional publisher according to the configuration
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheCache(cfg.MemcacheAddr, "unegui:")
		logger.Info("Using memcache dedup cache at %s", cfg.MemcacheAddr)
	} else {
		fileCache, err := cache.NewFileCache(cfg.CacheFile)
		if err != nil {
			return nil, err
		}
		services.Cache = fileCache
	}

	if cfg.PostgresDSN != "" {
		pgStore, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			services.Cache.Close()
			return nil, err
		}
		services.Store = pgStore
		logger.Info("Using postgres snapshot store")
	} else {
		services.Store = store.NewCSVStore(cfg.SnapshotFile)
	}

	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLen,
		)
		logger.Info("Publishing new listings to Redis at %s (stream: %s)",
			cfg.RedisAddr, cfg.RedisStream)
	} else {
		services.Publisher = publisher.Noop{}
	}

	return services, nil
}
