package resilience

import (
	"context"
	"testing"
	"time"
)

func TestDefaultTokenBucketConfig(t *testing.T) {
	config := DefaultTokenBucketConfig()

	// One request per second, no burst: the crates.io crawler policy.
	if config.Capacity != 1 {
		t.Errorf("Capacity = %d, want 1", config.Capacity)
	}
	if config.RefillRate != 1.0 {
		t.Errorf("RefillRate = %f, want 1.0", config.RefillRate)
	}
	if config.InitialTokens != 1 {
		t.Errorf("InitialTokens = %d, want 1", config.InitialTokens)
	}
}

func TestNewTokenBucketInitialTokensCapped(t *testing.T) {
	tb := NewTokenBucket(TokenBucketConfig{
		Capacity:      10,
		RefillRate:    5.0,
		InitialTokens: 20,
	})

	if tokens := tb.Tokens(); tokens > 10.0 {
		t.Errorf("Tokens = %f, want <= 10 (capped at capacity)", tokens)
	}
}

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(TokenBucketConfig{
		Capacity:      10,
		RefillRate:    10.0,
		InitialTokens: 10,
	})

	for i := range 10 {
		if !tb.Allow() {
			t.Errorf("request %d denied, want allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("request 11 allowed, want denied (bucket empty)")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := &TokenBucket{
		capacity:     10,
		refillRate:   10.0,
		tokens:       0,
		lastRefillAt: time.Now(),
	}

	if tb.Allow() {
		t.Error("request allowed with empty bucket")
	}

	time.Sleep(1100 * time.Millisecond)

	allowed := 0
	for range 10 {
		if tb.Allow() {
			allowed++
		}
	}
	if allowed < 10 {
		t.Errorf("allowed %d requests after refill, want 10", allowed)
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := &TokenBucket{
		capacity:     10,
		refillRate:   100.0,
		tokens:       0,
		lastRefillAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Wait elapsed %v, expected at least 5ms", elapsed)
	}
}

func TestTokenBucketWaitContextCancelled(t *testing.T) {
	tb := &TokenBucket{
		capacity:     10,
		refillRate:   1.0,
		tokens:       0,
		lastRefillAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTokenBucketCrawlerPacing(t *testing.T) {
	tb := NewTokenBucket(DefaultTokenBucketConfig())

	// The first request goes through immediately, the second has to wait.
	if !tb.Allow() {
		t.Fatal("first request denied")
	}
	if tb.Allow() {
		t.Error("second immediate request allowed, want denied")
	}
}
