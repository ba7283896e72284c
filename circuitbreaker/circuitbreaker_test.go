package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(cfg Config) (*CircuitBreaker, *testClock) {
	clock := &testClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New(cfg)
	cb.now = clock.Now
	return cb, clock
}

func trip(cb *CircuitBreaker) {
	for i := 0; i < cb.threshold; i++ {
		cb.RecordFailure()
	}
}

func TestNew_Defaults(t *testing.T) {
	cb := New(Config{})

	if cb.threshold != 5 {
		t.Errorf("Expected default threshold 5, got %d", cb.threshold)
	}
	if cb.cooldown != time.Minute {
		t.Errorf("Expected default cooldown 1m, got %v", cb.cooldown)
	}
	if cb.halfOpenTimeout != 10*time.Second {
		t.Errorf("Expected default halfOpenTimeout 10s, got %v", cb.halfOpenTimeout)
	}
	if cb.Name() != "default" {
		t.Errorf("Expected default name 'default', got %q", cb.Name())
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(Config{Threshold: 3, Cooldown: time.Minute})

	for i := 1; i < 3; i++ {
		cb.RecordFailure()
		if cb.State() != StateClosed {
			t.Fatalf("Expected CLOSED after %d failures, got %s", i, cb.State())
		}
	}
	cb.RecordFailure()
	if !cb.IsOpen() {
		t.Fatalf("Expected OPEN after 3 failures, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("Expected Allow() to return false in OPEN state")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(Config{Threshold: 3})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	if cb.Failures() != 0 {
		t.Errorf("Expected 0 failures after success, got %d", cb.Failures())
	}
	cb.RecordFailure()
	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after non-consecutive failures, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	tests := []struct {
		name      string
		probe     func(cb *CircuitBreaker)
		wantState State
	}{
		{name: "Probe succeeds", probe: func(cb *CircuitBreaker) { cb.RecordSuccess() }, wantState: StateClosed},
		{name: "Probe fails", probe: func(cb *CircuitBreaker) { cb.RecordFailure() }, wantState: StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newTestBreaker(Config{Threshold: 2, Cooldown: time.Minute})
			trip(cb)

			clock.Advance(59 * time.Second)
			if cb.Allow() {
				t.Fatal("Expected Allow() to fail before the cooldown passes")
			}

			clock.Advance(time.Second)
			if !cb.Allow() {
				t.Fatal("Expected the first call after cooldown to be allowed")
			}
			if cb.State() != StateHalfOpen {
				t.Fatalf("Expected HALF-OPEN, got %s", cb.State())
			}
			if cb.Allow() {
				t.Error("Expected a second call while probing to be blocked")
			}

			tt.probe(cb)
			if cb.State() != tt.wantState {
				t.Errorf("Expected %s after probe, got %s", tt.wantState, cb.State())
			}
		})
	}
}

func TestCircuitBreaker_HalfOpenTimeout(t *testing.T) {
	cb, clock := newTestBreaker(Config{Threshold: 1, Cooldown: time.Second, HalfOpenTimeout: 5 * time.Second})
	trip(cb)

	clock.Advance(time.Second)
	cb.Allow()
	if got := cb.TimeUntilRetry(); got != 5*time.Second {
		t.Errorf("Expected 5s probe window, got %v", got)
	}

	clock.Advance(5 * time.Second)
	if cb.Allow() {
		t.Error("Expected Allow() to fail once the probe times out")
	}
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after probe timeout, got %s", cb.State())
	}
	if got := cb.TimeUntilRetry(); got != time.Second {
		t.Errorf("Expected a fresh cooldown, got %v", got)
	}
}

func TestCircuitBreaker_TimeUntilRetry(t *testing.T) {
	cb, clock := newTestBreaker(Config{Threshold: 1, Cooldown: 10 * time.Second})

	if cb.TimeUntilRetry() != 0 {
		t.Errorf("Expected 0 in CLOSED state, got %v", cb.TimeUntilRetry())
	}
	trip(cb)
	clock.Advance(4 * time.Second)
	if got := cb.TimeUntilRetry(); got != 6*time.Second {
		t.Errorf("Expected 6s remaining, got %v", got)
	}
	clock.Advance(time.Minute)
	if got := cb.TimeUntilRetry(); got != 0 {
		t.Errorf("Expected 0 after cooldown, got %v", got)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb, _ := newTestBreaker(Config{Threshold: 2, Cooldown: time.Minute})
	boom := errors.New("boom")

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Expected the call's own error, got %v", err)
		}
	}

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("Expected fn not to run while open")
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Config{
		Name:      "redis",
		Threshold: 1,
		Cooldown:  time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	cb.RecordFailure()
	clock.Advance(time.Second)
	cb.Allow()
	cb.RecordSuccess()
	cb.RecordSuccess()

	want := []string{
		"redis:CLOSED->OPEN",
		"redis:OPEN->HALF-OPEN",
		"redis:HALF-OPEN->CLOSED",
	}
	if len(transitions) != len(want) {
		t.Fatalf("Expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d: expected %q, got %q", i, want[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, clock := newTestBreaker(Config{Threshold: 1, Cooldown: time.Second})
	trip(cb)
	clock.Advance(time.Second)
	cb.Allow()

	cb.Reset()

	if cb.State() != StateClosed || cb.Failures() != 0 {
		t.Errorf("Expected CLOSED with 0 failures, got %s with %d", cb.State(), cb.Failures())
	}
	if !cb.halfOpenStart.IsZero() {
		t.Error("Expected halfOpenStart to be cleared")
	}
	if !cb.Allow() {
		t.Error("Expected Allow() after reset")
	}
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	cb, _ := newTestBreaker(Config{Name: "redis", Threshold: 3})
	cb.RecordFailure()

	snap := cb.Snapshot()
	if snap.Name != "redis" || snap.State != "CLOSED" || snap.Failures != 1 || snap.Threshold != 3 {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}
	if snap.LastFailure.IsZero() {
		t.Error("Expected LastFailure to be set")
	}
}

func TestCircuitBreaker_StateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF-OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if tt.state.String() != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, tt.state.String())
		}
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := New(Config{Threshold: 100, Cooldown: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				cb.Allow()
				cb.RecordFailure()
				cb.RecordSuccess()
				cb.Snapshot()
			}
		}()
	}
	wg.Wait()

	state := cb.State()
	if state != StateClosed && state != StateOpen && state != StateHalfOpen {
		t.Errorf("Invalid state after concurrent access: %v", state)
	}
}
