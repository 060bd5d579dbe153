package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/WarriorSushi/supaviewer/pkg/hash"
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Name   string                   // Counter namespace, also the metrics label
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Time window for the limit
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on (IP, userID, etc.)
}

// CounterStore counts hits per key within fixed windows.
type CounterStore interface {
	// Hit records one request and returns the count in the current window and
	// when that window ends.
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// entry tracks request count and window end for a single key.
type entry struct {
	count     int
	windowEnd time.Time
}

// MemoryStore is an in-process fixed-window counter store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

func (m *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.entries[key]
	if !exists || now.After(e.windowEnd) {
		e = &entry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd, nil
}

// Cleanup drops expired windows every interval until ctx is done.
func (m *MemoryStore) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *MemoryStore) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if now.After(e.windowEnd) {
			delete(m.entries, key)
		}
	}
}

// Len reports how many keys currently hold a window.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RedisStore keeps counters in Redis so limits hold across instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := r.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("pexpire %s: %w", key, err)
		}
	}
	ttl, err := r.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("pttl %s: %w", key, err)
	}
	if ttl < 0 {
		// Key lost its expiry; restart the window.
		_ = r.rdb.PExpire(ctx, key, window).Err()
		ttl = window
	}
	return int(count), time.Now().Add(ttl), nil
}

// NewCounterStore returns a Redis-backed store when rdb is non-nil, otherwise
// an in-memory one.
func NewCounterStore(rdb *redis.Client) CounterStore {
	if rdb == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(rdb)
}

// RateLimiter enforces a fixed-window limit. When the primary store fails the
// request is counted in memory instead, so a Redis outage never blocks traffic.
type RateLimiter struct {
	store    CounterStore
	fallback *MemoryStore
	config   RateLimitConfig

	// OnLimited is called with the limiter name each time a request is rejected.
	OnLimited func(name string)
}

// NewRateLimiter creates a rate limiter with the given config. A nil store
// means in-memory counting.
func NewRateLimiter(cfg RateLimitConfig, store CounterStore) *RateLimiter {
	fallback := NewMemoryStore()
	if store == nil {
		store = fallback
	}
	return &RateLimiter{store: store, fallback: fallback, config: cfg}
}

// WithFallback makes rl count in m whenever its primary store fails. Limiters
// share one fallback so a single Cleanup loop can evict it.
func (rl *RateLimiter) WithFallback(m *MemoryStore) *RateLimiter {
	if m == nil {
		return rl
	}
	if ms, ok := rl.store.(*MemoryStore); ok && ms == rl.fallback {
		rl.store = m
	}
	rl.fallback = m
	return rl
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int, time.Time) {
	key = "rl:" + rl.config.Name + ":" + key
	count, resetAt, err := rl.store.Hit(ctx, key, rl.config.Window)
	if err != nil {
		Logger.Warn().Err(err).Str("limiter", rl.config.Name).Msg("rate limit store failed, counting in memory")
		count, resetAt, _ = rl.fallback.Hit(ctx, key, rl.config.Window)
	}
	return count, resetAt
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		count, resetAt := rl.hit(c.Context(), rl.config.KeyFn(c))
		remaining := rl.config.Max - count

		setRateLimitHeaders(c, rl.config.Max, remaining, resetAt)

		if remaining < 0 {
			if rl.OnLimited != nil {
				rl.OnLimited(rl.config.Name)
			}
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

// Allow checks if a request with the given key is allowed (for testing).
func (rl *RateLimiter) Allow(key string) bool {
	count, _ := rl.hit(context.Background(), key)
	return count <= rl.config.Max
}

func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(remaining, 0)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
}

// KeyByIP returns a hash of the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + hash.Short(c.IP(), 16)
}

// KeyByUserID keys on the authenticated user, falling back to the IP for
// anonymous callers.
func KeyByUserID(c fiber.Ctx) string {
	if uid := CurrentUserID(c); uid != "" {
		return "user:" + uid
	}
	return KeyByIP(c)
}

// --- Pre-configured rate limiters ---

// NewRatingRateLimiter: 10 req/min per user
func NewRatingRateLimiter(store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Name:   "ratings",
		Max:    10,
		Window: time.Minute,
		KeyFn:  KeyByUserID,
	}, store)
}

// NewSubmissionRateLimiter: 5 req/hour per IP
func NewSubmissionRateLimiter(store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Name:   "submissions",
		Max:    5,
		Window: time.Hour,
		KeyFn:  KeyByIP,
	}, store)
}

// NewReadRateLimiter: 100 req/min per IP
func NewReadRateLimiter(store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Name:   "reads",
		Max:    100,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	}, store)
}

// NewAdminRateLimiter: 120 req/min per user
func NewAdminRateLimiter(store CounterStore) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Name:   "admin",
		Max:    120,
		Window: time.Minute,
		KeyFn:  KeyByUserID,
	}, store)
}
