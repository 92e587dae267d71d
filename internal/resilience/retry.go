package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls how often and how patiently a call is retried.
type Policy struct {
	// MaxAttempts counts the first try. 1 disables retries.
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt; it doubles after
	// each further failure up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Jitter spreads each delay by up to this fraction in either direction.
	Jitter float64
}

// DefaultPolicy returns the backoff used when retries are enabled.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Jitter:         0.25,
	}
}

// Do calls fn until it succeeds, returns a non-transient error, the attempts
// run out or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, log *zap.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	var zero T
	delay := p.InitialBackoff
	for attempt := 1; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if attempt >= p.MaxAttempts || ctx.Err() != nil || !IsTransient(err) {
			return zero, err
		}

		wait := jittered(delay, p.Jitter)
		log.Warn("retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}

		delay *= 2
		if p.MaxBackoff > 0 && delay > p.MaxBackoff {
			delay = p.MaxBackoff
		}
	}
}

func jittered(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	spread := float64(d) * fraction
	out := float64(d) + (rand.Float64()*2-1)*spread
	if out < 0 {
		return 0
	}
	return time.Duration(out)
}
