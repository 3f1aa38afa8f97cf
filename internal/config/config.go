package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	YouTubeKey  string
	LogLevel    string
	Environment string
	CORSOrigin  string
	RedisURL    string

	CacheTTL        time.Duration
	CacheMaxEntries int

	RateLimitWindow time.Duration
	RateLimitMax    int

	UploadsLimit          int
	UpstreamTimeout       time.Duration
	UpstreamRPS           float64
	VideoBatchConcurrency int

	WarmChannels []string
	WarmInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		YouTubeKey:  os.Getenv("YT_API_KEY"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:5173"),
		RedisURL:    os.Getenv("REDIS_URL"),

		CacheTTL:        getEnvMillis("CACHE_TTL_MS", 10*time.Minute),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 500),

		RateLimitWindow: getEnvMillis("RATE_LIMIT_WINDOW_MS", time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 60),

		UploadsLimit:          getEnvInt("UPLOADS_LIMIT", 1000),
		UpstreamTimeout:       getEnvMillis("UPSTREAM_TIMEOUT_MS", 10*time.Second),
		UpstreamRPS:           getEnvFloat("UPSTREAM_RPS", 0),
		VideoBatchConcurrency: getEnvInt("VIDEO_BATCH_CONCURRENCY", 1),

		WarmChannels: getEnvList("WARM_CHANNELS"),
		WarmInterval: getEnvMillis("WARM_INTERVAL_MS", 0),
	}
}

// IsProduction reports whether the service runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// WarmEvery is the cache warmer period: WarmInterval, kept below CacheTTL so
// warmed entries never lapse between refreshes. Zero means disabled.
func (c *Config) WarmEvery() time.Duration {
	if c.WarmInterval <= 0 || len(c.WarmChannels) == 0 {
		return 0
	}
	if c.CacheTTL > 0 && c.WarmInterval >= c.CacheTTL {
		return c.CacheTTL * 9 / 10
	}
	return c.WarmInterval
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back when the variable is unset or not an integer.
func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return f
}

// getEnvMillis reads an integer number of milliseconds.
func getEnvMillis(key string, fallback time.Duration) time.Duration {
	ms, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadDotEnv seeds the environment from the given .env files (".env" when
// none are named). Variables already set win, and missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
