package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"karaoke-lyrics-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// State is the breaker position.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls are rejected until the cooldown passes
	StateHalfOpen              // a single probe call is in flight
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config tunes a breaker. Zero values pick the defaults.
type Config struct {
	Name            string
	Threshold       int           // consecutive failures before opening (default 5)
	Cooldown        time.Duration // time spent open before probing (default 1m)
	HalfOpenTimeout time.Duration // how long a probe may take before reopening (default 10s)

	// OnStateChange, when set, is called after every transition. It runs
	// with the breaker unlocked.
	OnStateChange func(name string, from, to State)
}

// Snapshot is a point-in-time view of a breaker for status endpoints.
type Snapshot struct {
	Name           string        `json:"name"`
	State          string        `json:"state"`
	Failures       int           `json:"failures"`
	Threshold      int           `json:"threshold"`
	LastFailure    time.Time     `json:"lastFailure,omitempty"`
	TimeUntilRetry time.Duration `json:"timeUntilRetryNs"`
}

// CircuitBreaker guards calls to a flaky dependency, here the shared cache
// tier. Safe for concurrent use.
type CircuitBreaker struct {
	name            string
	threshold       int
	cooldown        time.Duration
	halfOpenTimeout time.Duration
	onStateChange   func(name string, from, to State)
	now             func() time.Time

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	lastFailure   time.Time
	halfOpenStart time.Time
}

// New builds a closed breaker.
func New(cfg Config) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	if cfg.HalfOpenTimeout <= 0 {
		cfg.HalfOpenTimeout = 10 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	return &CircuitBreaker{
		name:            cfg.Name,
		threshold:       cfg.Threshold,
		cooldown:        cfg.Cooldown,
		halfOpenTimeout: cfg.HalfOpenTimeout,
		onStateChange:   cfg.OnStateChange,
		now:             time.Now,
	}
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute runs fn if the breaker allows it and records the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}
	if err := fn(); err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// Allow reports whether a call may proceed. An open breaker whose cooldown
// has passed lets exactly one probe through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	now := cb.now()
	var allowed bool
	from := cb.state

	switch cb.state {
	case StateOpen:
		if now.Sub(cb.openedAt) >= cb.cooldown {
			cb.state = StateHalfOpen
			cb.halfOpenStart = now
			allowed = true
		}
	case StateHalfOpen:
		if now.Sub(cb.halfOpenStart) >= cb.halfOpenTimeout {
			cb.state = StateOpen
			cb.openedAt = now
		}
	default:
		allowed = true
	}
	to := cb.state
	cb.mu.Unlock()

	cb.transitioned(from, to)
	return allowed
}

// RecordSuccess clears the failure count and closes a half-open breaker.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	from := cb.state
	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.state = StateClosed
		cb.halfOpenStart = time.Time{}
	}
	to := cb.state
	cb.mu.Unlock()

	cb.transitioned(from, to)
}

// RecordFailure counts a failure. A failed probe reopens at once; a closed
// breaker opens when the threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	now := cb.now()
	from := cb.state
	cb.failures++
	cb.lastFailure = now

	switch {
	case cb.state == StateHalfOpen:
		cb.state = StateOpen
		cb.openedAt = now
	case cb.state == StateClosed && cb.failures >= cb.threshold:
		cb.state = StateOpen
		cb.openedAt = now
	}
	to := cb.state
	cb.mu.Unlock()

	cb.transitioned(from, to)
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.openedAt = time.Time{}
	cb.lastFailure = time.Time{}
	cb.halfOpenStart = time.Time{}
	cb.mu.Unlock()

	log.Infof("%s Manually reset to CLOSED", logcolors.CircuitBreakerPrefix(cb.name))
	cb.transitioned(from, StateClosed)
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

func (cb *CircuitBreaker) IsOpen() bool { return cb.State() == StateOpen }

// TimeUntilRetry is the remaining cooldown while open, the remaining probe
// window while half-open and zero otherwise.
func (cb *CircuitBreaker) TimeUntilRetry() time.Duration {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.timeUntilRetry(cb.now())
}

func (cb *CircuitBreaker) timeUntilRetry(now time.Time) time.Duration {
	var remaining time.Duration
	switch cb.state {
	case StateOpen:
		remaining = cb.cooldown - now.Sub(cb.openedAt)
	case StateHalfOpen:
		remaining = cb.halfOpenTimeout - now.Sub(cb.halfOpenStart)
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Snapshot returns the breaker's current status.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return Snapshot{
		Name:           cb.name,
		State:          cb.state.String(),
		Failures:       cb.failures,
		Threshold:      cb.threshold,
		LastFailure:    cb.lastFailure,
		TimeUntilRetry: cb.timeUntilRetry(cb.now()),
	}
}

func (cb *CircuitBreaker) transitioned(from, to State) {
	if from == to {
		return
	}
	prefix := logcolors.CircuitBreakerPrefix(cb.name)
	switch to {
	case StateOpen:
		log.Warnf("%s %s -> OPEN (cooldown: %v)", prefix, from, cb.cooldown)
	default:
		log.Infof("%s %s -> %s", prefix, from, to)
	}
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, from, to)
	}
}
