// Package resilience provides the rate limiting and circuit breaking wrapped
// around registry calls.
package resilience

import (
	"context"
	"sync"
	"time"
)

// TokenBucketConfig holds token bucket configuration.
type TokenBucketConfig struct {
	// Capacity is the maximum token count, i.e. the largest burst.
	Capacity int

	// RefillRate is tokens added per second.
	RefillRate float64

	// InitialTokens is the token count at startup (default: Capacity).
	InitialTokens int
}

// DefaultTokenBucketConfig matches the crates.io crawler policy of one
// request per second, with no burst allowance.
func DefaultTokenBucketConfig() TokenBucketConfig {
	return TokenBucketConfig{
		Capacity:      1,
		RefillRate:    1.0,
		InitialTokens: 1,
	}
}

// TokenBucket implements token bucket rate limiting.
type TokenBucket struct {
	mu sync.Mutex

	capacity     int
	refillRate   float64
	tokens       float64
	lastRefillAt time.Time
}

// NewTokenBucket creates a token bucket rate limiter.
func NewTokenBucket(config TokenBucketConfig) *TokenBucket {
	initialTokens := config.InitialTokens
	if initialTokens == 0 || initialTokens > config.Capacity {
		initialTokens = config.Capacity
	}

	return &TokenBucket{
		capacity:     config.Capacity,
		refillRate:   config.RefillRate,
		tokens:       float64(initialTokens),
		lastRefillAt: time.Now(),
	}
}

// refill adds tokens for the time elapsed since the last refill. Callers
// hold mu.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillAt).Seconds()
	tb.lastRefillAt = now

	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}
}

// Allow reports whether a request may proceed right now, consuming a token
// when it may.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is cancelled.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tb.waitTime()):
		}
	}
}

// waitTime estimates how long until the next token accrues.
func (tb *TokenBucket) waitTime() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	deficit := 1.0 - tb.tokens
	if deficit <= 0 {
		return 0
	}
	return time.Duration(deficit / tb.refillRate * float64(time.Second))
}

// Tokens returns the currently available token count.
func (tb *TokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}
