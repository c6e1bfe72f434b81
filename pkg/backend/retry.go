package backend

import (
	"context"
	"time"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// retryableError marks an error that should trigger another attempt.
type retryableError struct{ err error }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// backoff bounds how often and how fast an operation is retried.
type backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// connectBackoff covers a daemon that was just started and has not opened
// its socket yet.
var connectBackoff = backoff{Attempts: 8, Delay: 250 * time.Millisecond, MaxDelay: 2 * time.Second}

// retryWithBackoff retries fn with exponential backoff.
// Only errors wrapped with retryable trigger retries.
func retryWithBackoff(ctx context.Context, b backoff, fn func() error) error {
	delay := b.Delay
	var lastErr error

	for i := 0; i < b.Attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < b.Attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = min(delay*2, b.MaxDelay)
			}
		}
	}
	return lastErr
}
