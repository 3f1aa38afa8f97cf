package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxRetries    = 5
	retryInterval = 2 * time.Second
)

// NewRedisClient parses a redis:// URL and connects, retrying while the
// server is not yet reachable (e.g. during container start-up).
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.ConnMaxIdleTime = 30 * time.Minute
	opts.DialTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			log.Info().Str("addr", opts.Addr).Msg("redis connected")
			return rdb, nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Int("max", maxRetries).Msg("redis connection attempt failed")
		if attempt < maxRetries {
			select {
			case <-time.After(retryInterval):
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, ctx.Err()
			}
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis connection failed after %d attempts: %w", maxRetries, err)
}
