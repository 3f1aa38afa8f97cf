package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/Raman0101/YT-ANALYSIS/internal/config"
	"github.com/Raman0101/YT-ANALYSIS/internal/db"
	"github.com/Raman0101/YT-ANALYSIS/internal/handler"
	"github.com/Raman0101/YT-ANALYSIS/internal/middleware"
	"github.com/Raman0101/YT-ANALYSIS/internal/model"
	"github.com/Raman0101/YT-ANALYSIS/internal/repository"
	"github.com/Raman0101/YT-ANALYSIS/internal/router"
	"github.com/Raman0101/YT-ANALYSIS/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		// Logger is not configured yet.
		os.Stderr.WriteString(err.Error() + "\n")
	}
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "yt-analysis", !cfg.IsProduction())

	if cfg.YouTubeKey == "" {
		log.Warn().Msg("YT_API_KEY is not set; every analysis will fail upstream")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache first so the metrics gauge can read its size.
	var cache *service.CacheService[model.AnalysisResult]
	handler.InitMetrics(prometheus.DefaultRegisterer, func() int { return cache.Len() })
	cache = service.NewCacheService[model.AnalysisResult](cfg.CacheMaxEntries, cfg.CacheTTL, service.CacheHooks{
		OnHit:   handler.Metrics.CacheHits.Inc,
		OnMiss:  handler.Metrics.CacheMisses.Inc,
		OnEvict: handler.Metrics.CacheEvictions.Inc,
	})

	client, err := repository.NewClient(ctx, repository.ClientConfig{
		APIKey:            cfg.YouTubeKey,
		Timeout:           cfg.UpstreamTimeout,
		RequestsPerSecond: cfg.UpstreamRPS,
		OnCall:            handler.ObserveUpstreamCall,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create youtube client")
	}

	svc := service.NewChannelService(
		repository.NewChannelRepo(client),
		repository.NewVideoRepo(client, cfg.VideoBatchConcurrency),
		cache,
		service.ChannelServiceOptions{
			UploadsLimit: cfg.UploadsLimit,
			OnAnalyzed:   handler.ObserveAnalysis,
		},
	)

	// Rate limit counters: Redis when configured, otherwise in memory.
	var (
		store  middleware.Store
		pinger handler.Pinger
	)
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		redisStore := middleware.NewRedisStore(rdb, "ytanalysis:ratelimit:")
		store, pinger = redisStore, redisStore
	}

	if every := cfg.WarmEvery(); every > 0 {
		worker := service.NewChannelWorker(svc, cfg.WarmChannels, every)
		go worker.Start(ctx)
		defer worker.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "YT Analysis API",
		ServerHeader: "yt-analysis",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	})

	router.Setup(app, &router.Handlers{
		Analyze: handler.NewAnalyzeHandler(svc),
		Health:  handler.NewHealthHandler(cache.Len, cfg.YouTubeKey != "", pinger),
	}, router.Options{
		CORSOrigin: cfg.CORSOrigin,
		RateLimiter: middleware.NewRateLimiter(middleware.RateLimitConfig{
			Max:    cfg.RateLimitMax,
			Window: cfg.RateLimitWindow,
			KeyFn:  middleware.KeyByIP,
		}, store),
		Metrics: prometheus.DefaultGatherer,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("YT analysis backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
