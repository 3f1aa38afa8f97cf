package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Raman0101/YT-ANALYSIS/pkg/hash"
)

// RateLimitMessage is returned in the 429 body.
const RateLimitMessage = "Too many requests, please try again later."

// RateLimitConfig defines the limit applied by a RateLimiter.
type RateLimitConfig struct {
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Time window for the limit
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on
}

// Store counts hits per key within fixed windows.
type Store interface {
	// Increment records one hit for key and returns the hit count in the
	// current window together with the time that window ends.
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryStore is a process-local fixed-window Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemoryStore creates an in-memory store that sweeps expired windows
// every sweepEvery.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{entries: make(map[string]*entry)}
	if sweepEvery > 0 {
		go s.cleanup(sweepEvery)
	}
	return s
}

// Increment implements Store.
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, exists := s.entries[key]
	if !exists || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, e := range s.entries {
			if now.After(e.windowEnd) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimiter enforces RateLimitConfig against a Store.
type RateLimiter struct {
	store  Store
	config RateLimitConfig
}

// NewRateLimiter creates a rate limiter. A nil store means an in-memory one.
func NewRateLimiter(cfg RateLimitConfig, store Store) *RateLimiter {
	if cfg.KeyFn == nil {
		cfg.KeyFn = KeyByIP
	}
	if store == nil {
		store = NewMemoryStore(5 * time.Minute)
	}
	return &RateLimiter{store: store, config: cfg}
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
// Store failures let the request through.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.config.Max <= 0 {
			return c.Next()
		}

		count, resetAt, err := rl.store.Increment(c.Context(), rl.config.KeyFn(c), rl.config.Window)
		if err != nil {
			Logger.Warn().Err(err).Str("request_id", RequestIDFrom(c)).Msg("rate limit store unavailable")
			return c.Next()
		}

		remaining := rl.config.Max - count
		setRateLimitHeaders(c, rl.config.Max, remaining, resetAt)

		if remaining < 0 {
			c.Set("Retry-After", strconv.Itoa(secondsUntil(resetAt)))
			return ErrorResponse(c, fiber.StatusTooManyRequests, RateLimitMessage)
		}

		return c.Next()
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	count, _, err := rl.store.Increment(context.Background(), key, rl.config.Window)
	if err != nil {
		return true
	}
	return count <= rl.config.Max
}

// setRateLimitHeaders writes the IETF draft RateLimit-* headers (reset in
// seconds) and the legacy X-RateLimit-* ones (reset as a Unix time).
func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	limitStr := strconv.Itoa(limit)
	remainingStr := strconv.Itoa(max(remaining, 0))

	c.Set("RateLimit-Limit", limitStr)
	c.Set("RateLimit-Remaining", remainingStr)
	c.Set("RateLimit-Reset", strconv.Itoa(secondsUntil(resetAt)))
	c.Set("X-RateLimit-Limit", limitStr)
	c.Set("X-RateLimit-Remaining", remainingStr)
	c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func secondsUntil(t time.Time) int {
	return max(int(time.Until(t).Seconds()+0.999), 0)
}

// KeyByIP returns a hashed client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + hash.Short(c.IP())
}
