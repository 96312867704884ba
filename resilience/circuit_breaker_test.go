package resilience

import (
	"testing"
	"time"
)

func testBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:         3,
		Timeout:             50 * time.Millisecond,
		MaxHalfOpenRequests: 1,
	}
}

func openBreaker(t *testing.T, cb *CircuitBreaker, failures uint) {
	t.Helper()
	for range failures {
		cb.RecordFailure()
	}
	if cb.State() != StateOpen {
		t.Fatalf("state after %d failures = %v, want Open", failures, cb.State())
	}
}

func TestCircuitBreakerClosed(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig())

	if cb.State() != StateClosed {
		t.Errorf("initial state = %v, want Closed", cb.State())
	}
	if err := cb.CanExecute(); err != nil {
		t.Errorf("CanExecute() in Closed state returned error: %v", err)
	}

	cb.RecordSuccess()
	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Errorf("state after successes = %v, want Closed", cb.State())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want Closed (failures are not consecutive)", cb.State())
	}
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	config := testBreakerConfig()
	cb := NewCircuitBreaker(config)

	openBreaker(t, cb, config.MaxFailures)

	if err := cb.CanExecute(); err != ErrCircuitOpen {
		t.Errorf("CanExecute() in Open state = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	config := testBreakerConfig()
	cb := NewCircuitBreaker(config)
	openBreaker(t, cb, config.MaxFailures)

	time.Sleep(config.Timeout + 10*time.Millisecond)

	if err := cb.CanExecute(); err != nil {
		t.Errorf("CanExecute() after timeout = %v, want nil", err)
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("state after timeout = %v, want HalfOpen", cb.State())
	}
}

func TestCircuitBreakerHalfOpenSuccessCloses(t *testing.T) {
	config := testBreakerConfig()
	cb := NewCircuitBreaker(config)
	openBreaker(t, cb, config.MaxFailures)

	time.Sleep(config.Timeout + 10*time.Millisecond)
	if err := cb.CanExecute(); err != nil {
		t.Fatalf("CanExecute() after timeout = %v, want nil", err)
	}

	cb.RecordSuccess()
	if cb.State() != StateClosed {
		t.Errorf("state after success in HalfOpen = %v, want Closed", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	config := testBreakerConfig()
	cb := NewCircuitBreaker(config)
	openBreaker(t, cb, config.MaxFailures)

	time.Sleep(config.Timeout + 10*time.Millisecond)
	if err := cb.CanExecute(); err != nil {
		t.Fatalf("CanExecute() after timeout = %v, want nil", err)
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Errorf("state after failure in HalfOpen = %v, want Open", cb.State())
	}
}

func TestCircuitBreakerHalfOpenProbeLimit(t *testing.T) {
	config := CircuitBreakerConfig{
		MaxFailures:         2,
		Timeout:             50 * time.Millisecond,
		MaxHalfOpenRequests: 2,
	}
	cb := NewCircuitBreaker(config)
	openBreaker(t, cb, config.MaxFailures)

	time.Sleep(config.Timeout + 10*time.Millisecond)

	for i := range config.MaxHalfOpenRequests {
		if err := cb.CanExecute(); err != nil {
			t.Errorf("CanExecute() probe %d = %v, want nil", i+1, err)
		}
	}
	if err := cb.CanExecute(); err != ErrCircuitOpen {
		t.Errorf("CanExecute() beyond probe limit = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	config := DefaultCircuitBreakerConfig()
	cb := NewCircuitBreaker(config)
	openBreaker(t, cb, config.MaxFailures)

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("state after Reset() = %v, want Closed", cb.State())
	}
	if err := cb.CanExecute(); err != nil {
		t.Errorf("CanExecute() after Reset() = %v, want nil", err)
	}
}

func TestCircuitBreakerStats(t *testing.T) {
	cb := NewCircuitBreaker(testBreakerConfig())

	cb.RecordFailure()
	cb.RecordFailure()

	stats := cb.Stats()
	if stats.State != StateClosed {
		t.Errorf("Stats.State = %v, want Closed", stats.State)
	}
	if stats.Failures != 2 {
		t.Errorf("Stats.Failures = %d, want 2", stats.Failures)
	}
	if stats.LastFailureTime.IsZero() {
		t.Error("Stats.LastFailureTime should be set")
	}
}

func TestCircuitStateString(t *testing.T) {
	tests := []struct {
		state CircuitState
		want  string
	}{
		{StateClosed, "Closed"},
		{StateOpen, "Open"},
		{StateHalfOpen, "HalfOpen"},
		{CircuitState(999), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("CircuitState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
