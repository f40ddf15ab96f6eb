package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota
	// StateOpen rejects requests until the cool-down elapses.
	StateOpen
	// StateHalfOpen admits a limited number of probe requests.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a CircuitBreaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration

	// ProbeLimit is both the number of concurrent probes allowed while
	// half-open and the number of successful probes that closes the circuit.
	ProbeLimit int
}

// CircuitBreaker guards an upstream service.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  once Cooldown has elapsed
//	half-open -> closed     after ProbeLimit successes
//	half-open -> open       on any failure
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	state    State
	failures int
	probes   int
	passed   int
	openedAt time.Time

	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker returns a closed breaker. Non-positive limits default to 1.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.ProbeLimit = max(cfg.ProbeLimit, 1)

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to be called after every transition.
// fn runs outside the breaker's lock.
func (b *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Allow reports whether a request may be sent now.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()

	var (
		allowed bool
		from    = b.state
	)

	switch b.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
			b.moveTo(StateHalfOpen)
			b.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if b.probes < b.cfg.ProbeLimit {
			b.probes++
			allowed = true
		}
	}

	b.unlockAndNotify(from)

	return allowed
}

// RecordSuccess reports a completed request.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.probes--
		b.passed++
		if b.passed >= b.cfg.ProbeLimit {
			b.moveTo(StateClosed)
		}
	}

	b.unlockAndNotify(from)
}

// RecordFailure reports a failed request.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.MaxFailures {
			b.moveTo(StateOpen)
		}
	case StateHalfOpen:
		b.moveTo(StateOpen)
	}

	b.unlockAndNotify(from)
}

// State returns the current state.
func (b *CircuitBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// moveTo must be called with the lock held.
func (b *CircuitBreaker) moveTo(next State) {
	b.state = next
	b.failures, b.passed, b.probes = 0, 0, 0

	if next == StateOpen {
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) unlockAndNotify(from State) {
	to, fn := b.state, b.onChange
	b.mu.Unlock()

	if fn != nil && from != to {
		fn(from, to)
	}
}
