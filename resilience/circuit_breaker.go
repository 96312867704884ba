package resilience

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the current state of a circuit breaker.
type CircuitState int

const (
	StateClosed   CircuitState = iota // normal operation
	StateOpen                         // failing, reject requests
	StateHalfOpen                     // probing whether the host recovered
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	case StateHalfOpen:
		return "HalfOpen"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds circuit breaker configuration.
type CircuitBreakerConfig struct {
	// MaxFailures is the consecutive failure count that opens the circuit.
	MaxFailures uint

	// Timeout is how long the circuit stays open before a half-open probe.
	Timeout time.Duration

	// MaxHalfOpenRequests caps concurrent half-open probes.
	MaxHalfOpenRequests uint
}

// DefaultCircuitBreakerConfig returns the defaults used for registry calls.
// A snapshot with many dependents issues one request per dependent, so the
// breaker keeps a dead registry from turning each of them into a full retry
// cycle. The timeout is short because the whole process is one command run.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:         5,
		Timeout:             15 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// CircuitBreaker implements the three-state circuit breaker pattern.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu              sync.RWMutex
	state           CircuitState
	failures        uint
	lastFailureTime time.Time
	halfOpenActive  uint
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// CanExecute reports whether a request may proceed, returning ErrCircuitOpen
// while the circuit rejects traffic.
func (cb *CircuitBreaker) CanExecute() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.lastFailureTime) < cb.config.Timeout {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.halfOpenActive = 0
		fallthrough

	case StateHalfOpen:
		if cb.halfOpenActive >= cb.config.MaxHalfOpenRequests {
			return ErrCircuitOpen
		}
		cb.halfOpenActive++
		return nil

	default:
		return ErrCircuitOpen
	}
}

// RecordSuccess records a successful operation, closing the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.halfOpenActive--
	}
	cb.state = StateClosed
	cb.failures = 0
}

// RecordFailure records a failed operation. A failure during a half-open
// probe reopens the circuit immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.state = StateOpen
		}

	case StateHalfOpen:
		cb.halfOpenActive--
		cb.state = StateOpen
	}
}

// Reset forces the breaker back to the closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenActive = 0
}

// Stats is a snapshot of breaker state for logging and metrics.
type Stats struct {
	State           CircuitState
	Failures        uint
	LastFailureTime time.Time
}

// Stats returns the current breaker snapshot.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return Stats{
		State:           cb.state,
		Failures:        cb.failures,
		LastFailureTime: cb.lastFailureTime,
	}
}
