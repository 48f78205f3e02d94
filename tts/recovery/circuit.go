package recovery

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
)

// breakerState is the classic three-state machine.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	}
	return "closed"
}

// CircuitBreaker rejects calls fast once an operation has failed repeatedly,
// and probes with a single trial call after a cooldown.
type CircuitBreaker struct {
	engine      tts.EngineType
	threshold   int
	resetAfter  time.Duration
	callTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithBreakerClock injects the time source.
func WithBreakerClock(now func() time.Time) BreakerOption {
	return func(b *CircuitBreaker) { b.now = now }
}

// WithCallTimeout bounds each guarded call.
func WithCallTimeout(d time.Duration) BreakerOption {
	return func(b *CircuitBreaker) { b.callTimeout = d }
}

// NewCircuitBreaker creates a breaker that opens after threshold consecutive
// failures and allows a trial call after resetAfter.
func NewCircuitBreaker(engine tts.EngineType, threshold int, resetAfter time.Duration, opts ...BreakerOption) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if resetAfter <= 0 {
		resetAfter = 30 * time.Second
	}
	b := &CircuitBreaker{
		engine:      engine,
		threshold:   threshold,
		resetAfter:  resetAfter,
		callTimeout: 15 * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BreakerFromConfig builds the breaker from the runtime configuration.
func BreakerFromConfig(engine tts.EngineType, config tts.Config) *CircuitBreaker {
	return NewCircuitBreaker(engine, config.BreakerThreshold, config.BreakerReset,
		WithCallTimeout(config.OperationTimeout))
}

// State reports the current state name for diagnostics.
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked().String()
}

// stateLocked resolves open->halfOpen transitions lazily on observation.
func (b *CircuitBreaker) stateLocked() breakerState {
	if b.state == stateOpen && b.now().Sub(b.openedAt) >= b.resetAfter {
		b.state = stateHalfOpen
	}
	return b.state
}

// Execute runs op under the breaker. While open it fails fast with a
// CIRCUIT_BREAKER_OPEN error carrying the last failure time; each admitted
// call runs under the per-call timeout.
func (b *CircuitBreaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	b.mu.Lock()
	switch b.stateLocked() {
	case stateOpen:
		openedAt := b.openedAt
		b.mu.Unlock()
		return tts.NewCircuitBreakerOpen(b.engine, openedAt)
	case stateHalfOpen:
		log.Debug("circuit breaker half-open, admitting trial call", "engine", b.engine)
	}
	b.mu.Unlock()

	callCtx := ctx
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}

	err := op(callCtx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.state == stateHalfOpen || b.failures >= b.threshold {
			if b.state != stateOpen {
				log.Warn("circuit breaker opened", "engine", b.engine, "failures", b.failures)
			}
			b.state = stateOpen
			b.openedAt = b.now()
		}
		return err
	}

	if b.state != stateClosed {
		log.Info("circuit breaker closed after successful trial", "engine", b.engine)
	}
	b.state = stateClosed
	b.failures = 0
	return nil
}

// Reset forces the breaker closed and clears the failure count.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = stateClosed
	b.failures = 0
}
