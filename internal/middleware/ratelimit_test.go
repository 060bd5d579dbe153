package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Name:   "test",
		Max:    5,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	}, nil)

	for i := 0; i < 5; i++ {
		if !rl.Allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Name:   "test",
		Max:    3,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	}, nil)

	for i := 0; i < 3; i++ {
		rl.Allow("test-ip")
	}

	if rl.Allow("test-ip") {
		t.Fatal("4th request should be blocked")
	}
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Name:   "test",
		Max:    2,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	}, nil)

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	// ip-a is exhausted
	if rl.Allow("ip-a") {
		t.Fatal("ip-a should be blocked")
	}

	if !rl.Allow("ip-b") {
		t.Fatal("ip-b should be allowed (independent key)")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Name:   "test",
		Max:    2,
		Window: 50 * time.Millisecond,
		KeyFn:  KeyByIP,
	}, nil)

	rl.Allow("test")
	rl.Allow("test")

	if rl.Allow("test") {
		t.Fatal("should be blocked within window")
	}

	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("test") {
		t.Fatal("should be allowed after window reset")
	}
}

func TestRateLimiter_SharedStoreSeparatesLimiters(t *testing.T) {
	store := NewMemoryStore()
	a := NewRateLimiter(RateLimitConfig{Name: "a", Max: 1, Window: time.Minute, KeyFn: KeyByIP}, store)
	b := NewRateLimiter(RateLimitConfig{Name: "b", Max: 1, Window: time.Minute, KeyFn: KeyByIP}, store)

	if !a.Allow("k") || !b.Allow("k") {
		t.Fatal("first hit on each limiter should be allowed")
	}
	if a.Allow("k") {
		t.Fatal("limiter a should be exhausted")
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func TestRateLimiter_StoreFailureFallsBackToMemory(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Name: "test", Max: 2, Window: time.Minute, KeyFn: KeyByIP}, failingStore{})

	if !rl.Allow("k") || !rl.Allow("k") {
		t.Fatal("requests within the limit should pass while the store is down")
	}
	if rl.Allow("k") {
		t.Fatal("in-memory fallback should still enforce the limit")
	}
}

func TestRateLimiter_SharedFallbackIsEvicted(t *testing.T) {
	shared := NewMemoryStore()
	reads := NewRateLimiter(RateLimitConfig{Name: "reads", Max: 5, Window: time.Minute, KeyFn: KeyByIP}, failingStore{}).WithFallback(shared)
	admin := NewRateLimiter(RateLimitConfig{Name: "admin", Max: 5, Window: time.Minute, KeyFn: KeyByIP}, failingStore{}).WithFallback(shared)

	for _, key := range []string{"a", "b", "c"} {
		reads.Allow(key)
		admin.Allow(key)
	}
	if got := shared.Len(); got != 6 {
		t.Fatalf("shared fallback holds %d keys, want 6", got)
	}

	shared.sweep(time.Now())
	if got := shared.Len(); got != 6 {
		t.Fatalf("live windows evicted: %d keys left, want 6", got)
	}
	shared.sweep(time.Now().Add(2 * time.Minute))
	if got := shared.Len(); got != 0 {
		t.Fatalf("expired windows kept: %d keys left, want 0", got)
	}
}

func TestRateLimiter_WithFallbackReplacesDefaultMemoryStore(t *testing.T) {
	shared := NewMemoryStore()
	rl := NewRateLimiter(RateLimitConfig{Name: "test", Max: 1, Window: time.Minute, KeyFn: KeyByIP}, nil).WithFallback(shared)

	if !rl.Allow("k") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("k") {
		t.Fatal("second request should be limited")
	}
	if got := shared.Len(); got != 1 {
		t.Fatalf("shared store holds %d keys, want 1", got)
	}
}

func TestRateLimiter_RatingConfig(t *testing.T) {
	rl := NewRatingRateLimiter(nil)
	for i := 0; i < 10; i++ {
		if !rl.Allow("user:abc123") {
			t.Fatalf("rating request %d should be allowed (max 10)", i+1)
		}
	}
	if rl.Allow("user:abc123") {
		t.Fatal("11th rating request should be blocked")
	}
}

func TestRateLimiter_SubmissionConfig(t *testing.T) {
	rl := NewSubmissionRateLimiter(nil)
	for i := 0; i < 5; i++ {
		if !rl.Allow("ip:127.0.0.1") {
			t.Fatalf("submission %d should be allowed (max 5/hour)", i+1)
		}
	}
	if rl.Allow("ip:127.0.0.1") {
		t.Fatal("6th submission should be blocked")
	}
}

func TestRateLimiter_ReadAndAdminConfig(t *testing.T) {
	reads := NewReadRateLimiter(nil)
	for i := 0; i < 100; i++ {
		reads.Allow("ip:127.0.0.1")
	}
	if reads.Allow("ip:127.0.0.1") {
		t.Fatal("101st read should be blocked")
	}

	admin := NewAdminRateLimiter(nil)
	for i := 0; i < 120; i++ {
		admin.Allow("user:mod")
	}
	if admin.Allow("user:mod") {
		t.Fatal("121st admin request should be blocked")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	var limited []string
	rl := NewRateLimiter(RateLimitConfig{Name: "test", Max: 1, Window: time.Minute, KeyFn: KeyByIP}, nil)
	rl.OnLimited = func(name string) { limited = append(limited, name) }

	app := fiber.New()
	app.Get("/", rl.Handler(), func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %q", resp.Header.Get("X-RateLimit-Remaining"))
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", resp.StatusCode)
	}
	if len(limited) != 1 || limited[0] != "test" {
		t.Errorf("OnLimited calls = %v", limited)
	}
}
