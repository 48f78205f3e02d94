// Package recovery implements the self-healing layer around synthesis:
// retries with jittered backoff, cross-engine fallback and a circuit
// breaker guarding repeatedly failing engines.
package recovery

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alouette/alouette/tts"
)

// RetryPolicy bounds the retry loop.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// ShouldRetry decides whether an error is worth another attempt.
	// Nil means tts.IsRecoverable.
	ShouldRetry func(error) bool

	// sleep is the test seam for the backoff wait.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy mirrors the configured defaults: three attempts,
// 500ms base delay, capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// PolicyFromConfig builds a retry policy from the runtime configuration.
func PolicyFromConfig(config tts.Config) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: config.RetryAttempts,
		BaseDelay:   config.RetryBaseDelay,
		MaxDelay:    config.RetryMaxDelay,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 500 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 10 * time.Second
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = tts.IsRecoverable
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p
}

// delayFor computes the jittered exponential backoff for a zero-based
// attempt index: base*2^attempt scaled by a random factor in [0.5, 1.5),
// never exceeding MaxDelay.
func (p RetryPolicy) delayFor(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	jitter := 0.5 + rand.Float64()
	jittered := time.Duration(float64(d) * jitter)
	if jittered > p.MaxDelay {
		return p.MaxDelay
	}
	return jittered
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryWithBackoff runs op until it succeeds, the error is judged not worth
// retrying, or MaxAttempts is exhausted. The last error is returned as-is.
func RetryWithBackoff(ctx context.Context, policy RetryPolicy, opName string, op func(ctx context.Context) error) error {
	policy = policy.normalized()

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := policy.sleep(ctx, policy.delayFor(attempt-1)); err != nil {
				return err
			}
			log.Debug("retrying operation", "op", opName, "attempt", attempt+1, "maxAttempts", policy.MaxAttempts)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !policy.ShouldRetry(lastErr) {
			log.Debug("error not retryable, giving up", "op", opName, "err", lastErr)
			return lastErr
		}
	}
	log.Warn("retries exhausted", "op", opName, "attempts", policy.MaxAttempts, "err", lastErr)
	return lastErr
}
