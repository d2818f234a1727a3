package util

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// Retrier retries an operation with exponential backoff. The zero
// value is not usable; start from NewRetrier and adjust fields.
// Scheduler submit commands flake under queue load, so submissions
// run through one of these.
type Retrier struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
	MaxElapsedTime      time.Duration
	MaxTries            int
	// ShouldRetry reports whether an error is worth another try.
	// When nil, every error is retried.
	ShouldRetry func(err error) bool
	// Notify is called before each backoff wait.
	Notify func(err error, d time.Duration)
}

// NewRetrier returns a Retrier with default intervals.
func NewRetrier() *Retrier {
	return &Retrier{
		InitialInterval:     time.Millisecond * 500,
		MaxInterval:         time.Second * 60,
		Multiplier:          1.5,
		RandomizationFactor: 0.5,
		MaxElapsedTime:      time.Minute * 15,
		MaxTries:            10,
	}
}

// Retry runs f until it succeeds, the try or time budget runs out, or
// the context is canceled.
func (r *Retrier) Retry(ctx context.Context, f func() error) error {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     r.InitialInterval,
		MaxInterval:         r.MaxInterval,
		Multiplier:          r.Multiplier,
		RandomizationFactor: r.RandomizationFactor,
		MaxElapsedTime:      r.MaxElapsedTime,
		Clock:               backoff.SystemClock,
	}

	// MaxTries counts tries, WithMaxRetries counts retries after the first.
	retries := r.MaxTries - 1
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)

	op := func() error {
		err := f()
		if err != nil && r.ShouldRetry != nil && !r.ShouldRetry(err) {
			return &backoff.PermanentError{Err: err}
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		if r.Notify != nil {
			r.Notify(err, d)
		}
	}
	return backoff.RetryNotify(op, b, notify)
}
