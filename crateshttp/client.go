// Package crateshttp provides the HTTP client used for registry API
// calls. It wraps the standard http.Client with retries, rate limiting,
// circuit breaking, and optional tracing, tuned to the crates.io
// crawler policy of one request per second.
package crateshttp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cratecompat/cratecompat/observability"
	"github.com/cratecompat/cratecompat/resilience"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultDialTimeout = 10 * time.Second

	// DefaultUserAgent identifies this tool to the registry. The crates.io
	// crawler policy asks for a user agent that lets operators reach the
	// author, hence the repository URL.
	DefaultUserAgent = "cratecompat/0.1.0 (https://github.com/cratecompat/cratecompat)"
)

// Client wraps http.Client with registry-specific behavior.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	retryConfig    *RetryConfig
	logger         observability.Logger
	circuitBreaker *resilience.CircuitBreaker // optional, nil disables
	rateLimiter    *resilience.TokenBucket    // optional, nil disables
}

// Config holds HTTP client configuration.
type Config struct {
	Timeout              time.Duration
	DialTimeout          time.Duration
	UserAgent            string
	TLSConfig            *tls.Config
	MaxIdleConns         int
	EnableHTTP2          bool
	EnableHTTP3          bool
	RetryConfig          *RetryConfig
	Logger               observability.Logger             // Optional logger (nil uses NullLogger)
	EnableTracing        bool                             // Enable OpenTelemetry HTTP tracing
	CircuitBreakerConfig *resilience.CircuitBreakerConfig // Optional circuit breaker config (nil disables)
	RateLimiterConfig    *resilience.TokenBucketConfig    // Optional rate limiter config (nil disables)
}

// DefaultConfig returns the configuration used against crates.io: retries
// on, circuit breaker on, and the rate limiter pinned to the crawler
// policy.
func DefaultConfig() *Config {
	breakerCfg := resilience.DefaultCircuitBreakerConfig()
	limiterCfg := resilience.DefaultTokenBucketConfig()

	return &Config{
		Timeout:              DefaultTimeout,
		DialTimeout:          DefaultDialTimeout,
		UserAgent:            DefaultUserAgent,
		MaxIdleConns:         100,
		EnableHTTP2:          true,
		RetryConfig:          DefaultRetryConfig(),
		CircuitBreakerConfig: &breakerCfg,
		RateLimiterConfig:    &limiterCfg,
	}
}

// NewClient creates a new HTTP client with the given configuration.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig()
	}

	tcfg := DefaultTransportConfig()
	tcfg.DialTimeout = cfg.DialTimeout
	tcfg.TLSConfig = cfg.TLSConfig
	tcfg.EnableHTTP2 = cfg.EnableHTTP2
	tcfg.EnableHTTP3 = cfg.EnableHTTP3
	if cfg.MaxIdleConns > 0 {
		tcfg.MaxIdleConns = cfg.MaxIdleConns
	}

	var transport http.RoundTripper = NewTransport(tcfg)
	if cfg.EnableTracing {
		transport = observability.NewHTTPTracingTransport(transport, observability.TracerName)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	client := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent:   cfg.UserAgent,
		retryConfig: cfg.RetryConfig,
		logger:      logger,
	}

	if cfg.CircuitBreakerConfig != nil {
		client.circuitBreaker = resilience.NewCircuitBreaker(*cfg.CircuitBreakerConfig)
	}
	if cfg.RateLimiterConfig != nil {
		client.rateLimiter = resilience.NewTokenBucket(*cfg.RateLimiterConfig)
	}

	return client
}

// acquire applies the rate limiter and circuit breaker gate before a
// request or retry sequence may start.
func (c *Client) acquire(ctx context.Context, req *http.Request) error {
	host := req.URL.Host

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			observability.RateLimitRequestsTotal.WithLabelValues(host, "false").Inc()
			c.logger.WarnContext(ctx, "HTTP {Method} {URL} rate limit wait failed: {Error}",
				req.Method, req.URL.String(), err)
			return fmt.Errorf("rate limit wait: %w", err)
		}
		observability.RateLimitRequestsTotal.WithLabelValues(host, "true").Inc()
		observability.RateLimitTokens.WithLabelValues(host).Set(c.rateLimiter.Tokens())
	}

	if c.circuitBreaker != nil {
		if err := c.circuitBreaker.CanExecute(); err != nil {
			c.logger.WarnContext(ctx, "HTTP {Method} {URL} rejected: {Error}",
				req.Method, req.URL.String(), err)
			return fmt.Errorf("%s: %w", host, err)
		}
	}

	return nil
}

// recordOutcome feeds the circuit breaker after a request or retry
// sequence. Transport errors and server-side failures count against the
// breaker; anything the registry answered deliberately does not.
func (c *Client) recordOutcome(host string, resp *http.Response, err error) {
	if c.circuitBreaker == nil {
		return
	}

	if err != nil || (resp != nil && resp.StatusCode >= 500) {
		c.circuitBreaker.RecordFailure()
		observability.CircuitBreakerFailures.WithLabelValues(host).Inc()
	} else {
		c.circuitBreaker.RecordSuccess()
	}
	observability.CircuitBreakerState.WithLabelValues(host).Set(float64(c.circuitBreaker.State()))
}

// attempt executes a single HTTP request with logging and metrics.
func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnContext(ctx, "HTTP {Method} {URL} failed after {Duration}ms: {Error}",
			req.Method, req.URL.String(), duration.Milliseconds(), err)
		observability.HTTPRequestsTotal.WithLabelValues(req.Method, "error", req.URL.Host).Inc()
		return nil, err
	}

	c.logger.DebugContext(ctx, "HTTP {Method} {URL} → {StatusCode} ({Proto}, {Duration}ms)",
		req.Method, req.URL.String(), resp.StatusCode, ProtocolVersion(resp), duration.Milliseconds())
	observability.HTTPRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode), req.URL.Host).Inc()
	observability.HTTPRequestDuration.WithLabelValues(req.Method, req.URL.Host).Observe(duration.Seconds())

	return resp, nil
}

// Do executes an HTTP request with context and user agent.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.acquire(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.attempt(ctx, req.WithContext(ctx))
	c.recordOutcome(req.URL.Host, resp, err)
	return resp, err
}

// DoWithRetry executes an HTTP request, retrying transient failures with
// exponential backoff. The circuit breaker judges the whole sequence,
// not individual attempts.
func (c *Client) DoWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.acquire(ctx, req); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "HTTP {Method} {URL} with retry (max={MaxRetries})",
		req.Method, req.URL.String(), c.retryConfig.MaxRetries)

	resp, err := c.doWithRetry(ctx, req)
	c.recordOutcome(req.URL.Host, resp, err)
	return resp, err
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		// Clone per attempt: the body may have been consumed.
		resp, lastErr = c.attempt(ctx, req.Clone(ctx))

		if lastErr == nil && !IsRetriableStatus(resp.StatusCode) {
			if attempt > 0 {
				c.logger.InfoContext(ctx, "HTTP {Method} {URL} succeeded after {Attempt} retries",
					req.Method, req.URL.String(), attempt)
			}
			return resp, nil
		}

		if lastErr != nil && !IsRetriable(lastErr) {
			c.logger.WarnContext(ctx, "HTTP {Method} {URL} failed with non-retriable error: {Error}",
				req.Method, req.URL.String(), lastErr)
			return nil, lastErr
		}

		if attempt < c.retryConfig.MaxRetries {
			var backoff time.Duration
			if resp != nil {
				backoff = ParseRetryAfter(resp.Header.Get("Retry-After"))
			}
			if backoff == 0 {
				backoff = c.retryConfig.CalculateBackoff(attempt)
			}

			c.logger.DebugContext(ctx, "HTTP {Method} {URL} retry {Attempt}/{MaxRetries} after {Backoff}ms",
				req.Method, req.URL.String(), attempt+1, c.retryConfig.MaxRetries, backoff.Milliseconds())
			observability.RecordRetry(ctx, attempt+1, lastErr)

			if resp != nil {
				_ = resp.Body.Close()
			}

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if lastErr != nil {
		c.logger.ErrorContext(ctx, "HTTP {Method} {URL} failed after {MaxRetries} retries: {Error}",
			req.Method, req.URL.String(), c.retryConfig.MaxRetries, lastErr)
		return nil, fmt.Errorf("after %d retries: %w", c.retryConfig.MaxRetries, lastErr)
	}

	// Retries exhausted on a retriable status. Hand the response to the
	// caller so it can report the status.
	return resp, nil
}

// Get performs a GET request with retry.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.DoWithRetry(ctx, req)
}

// SetUserAgent updates the client's user agent string.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// WithUserAgent sets the user agent string.
func WithUserAgent(ua string) Option {
	return func(cfg *Config) {
		cfg.UserAgent = ua
	}
}

// WithTLSConfig sets custom TLS configuration.
func WithTLSConfig(tlsCfg *tls.Config) Option {
	return func(cfg *Config) {
		cfg.TLSConfig = tlsCfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithTracing enables OpenTelemetry spans around every request.
func WithTracing(enabled bool) Option {
	return func(cfg *Config) {
		cfg.EnableTracing = enabled
	}
}

// WithRetryConfig sets custom retry configuration.
func WithRetryConfig(retryCfg *RetryConfig) Option {
	return func(cfg *Config) {
		cfg.RetryConfig = retryCfg
	}
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(cfg *Config) {
		if cfg.RetryConfig == nil {
			cfg.RetryConfig = DefaultRetryConfig()
		}
		cfg.RetryConfig.MaxRetries = n
	}
}

// WithoutRateLimiter disables client-side request pacing. Only for use
// against registries without a crawler policy.
func WithoutRateLimiter() Option {
	return func(cfg *Config) {
		cfg.RateLimiterConfig = nil
	}
}

// WithoutCircuitBreaker disables the circuit breaker.
func WithoutCircuitBreaker() Option {
	return func(cfg *Config) {
		cfg.CircuitBreakerConfig = nil
	}
}

// NewClientWithOptions creates a client with functional options applied
// on top of DefaultConfig.
func NewClientWithOptions(opts ...Option) *Client {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewClient(cfg)
}
