package retry

import (
	"math"
	"math/rand"
	"time"
)

// Strategy decides how long to wait before each retry.
type Strategy interface {
	// NextDelay returns the wait before retry number attempt (zero-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts is the number of retries after the first try. Negative means unlimited.
	MaxAttempts() int
}

// Backoff is an exponential Strategy with optional jitter.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter spreads each delay by +/- Jitter (0.1 = 10%).
	Jitter  float64
	Retries int

	random func() float64
}

// BackoffOption configures a Backoff.
type BackoffOption func(*Backoff)

func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *Backoff) { b.Initial = d }
}

func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *Backoff) { b.Max = d }
}

func WithMultiplier(m float64) BackoffOption {
	return func(b *Backoff) { b.Multiplier = m }
}

func WithJitter(j float64) BackoffOption {
	return func(b *Backoff) { b.Jitter = j }
}

// WithRandom replaces the [0,1) source used for jitter.
func WithRandom(f func() float64) BackoffOption {
	return func(b *Backoff) { b.random = f }
}

// NewBackoff returns a Backoff allowing the given number of retries,
// starting at 100ms and doubling up to 30s with 10% jitter.
func NewBackoff(retries int, opts ...BackoffOption) *Backoff {
	b := &Backoff{
		Initial:    100 * time.Millisecond,
		Max:        30 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
		Retries:    retries,
		random:     rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backoff) NextDelay(attempt int) time.Duration {
	delay := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt))
	if delay > float64(b.Max) || math.IsInf(delay, 0) {
		delay = float64(b.Max)
	}
	if b.Jitter > 0 && b.random != nil {
		delay *= 1 + b.Jitter*(b.random()*2-1)
	}
	return time.Duration(delay)
}

func (b *Backoff) MaxAttempts() int {
	return b.Retries
}
