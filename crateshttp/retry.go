package crateshttp

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 1 * time.Second
	DefaultMaxBackoff     = 30 * time.Second
	DefaultBackoffFactor  = 2.0
	DefaultJitterFactor   = 0.1
)

// RetryConfig holds retry behavior configuration.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	JitterFactor   float64
}

// DefaultRetryConfig returns retry configuration with sensible defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		BackoffFactor:  DefaultBackoffFactor,
		JitterFactor:   DefaultJitterFactor,
	}
}

// IsRetriable determines if an error should be retried.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsRetriableStatus determines if an HTTP status code should be retried.
func IsRetriableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, // 429
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	default:
		return false
	}
}

// CalculateBackoff computes exponential backoff with jitter for the
// given zero-based attempt number.
func (rc *RetryConfig) CalculateBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	backoff := float64(rc.InitialBackoff) * math.Pow(rc.BackoffFactor, float64(attempt))
	backoff = min(backoff, float64(rc.MaxBackoff))

	// Jitter spreads retries out so parallel runs do not hammer the
	// registry in lockstep.
	backoff *= 1 + rc.JitterFactor*(2*rand.Float64()-1)

	if backoff < 0 {
		backoff = float64(rc.InitialBackoff)
	}

	return time.Duration(backoff)
}

// ParseRetryAfter parses a Retry-After header value into a wait
// duration. Both delay-seconds and HTTP-date forms are accepted; crates.io
// sends the former on 429 responses. Returns 0 for a missing or
// malformed header, and caps the wait at five minutes.
func ParseRetryAfter(headerValue string) time.Duration {
	headerValue = strings.TrimSpace(headerValue)
	if headerValue == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(headerValue); err == nil {
		if seconds < 0 {
			return 0
		}
		return min(time.Duration(seconds)*time.Second, 5*time.Minute)
	}

	for _, format := range []string{time.RFC1123, time.RFC1123Z, time.RFC850, time.ANSIC} {
		t, err := time.Parse(format, headerValue)
		if err != nil {
			continue
		}
		wait := time.Until(t)
		if wait < 0 {
			return 0
		}
		return min(wait, 5*time.Minute)
	}

	return 0
}
