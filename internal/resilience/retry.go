// Package resilience retries flaky external commands, such as a package
// manager install that fails on a registry timeout.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryPolicy defines the retry behavior for an operation.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `json:"maxRetries"`

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration `json:"baseDelay"`

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration `json:"maxDelay"`

	// UseJitter scales each delay by a random factor in [0.5, 1.5).
	UseJitter bool `json:"useJitter"`
}

// InstallPolicy is the policy used for package manager installs.
func InstallPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Second,
		UseJitter:  true,
	}
}

// PermanentError marks an error that retrying cannot fix.
type PermanentError struct {
	Err error
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so Retry gives up on it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// policy is exhausted. fn receives the zero-based attempt number. The error
// of the last attempt is returned.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	var lastErr error
	attempts := max(policy.MaxRetries, 0) + 1

	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}

		if attempt < attempts-1 {
			timer := time.NewTimer(CalculateBackoff(attempt, policy.BaseDelay, policy.MaxDelay, policy.UseJitter))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

// CalculateBackoff returns baseDelay * 2^attempt, capped at maxDelay.
func CalculateBackoff(attempt int, baseDelay, maxDelay time.Duration, useJitter bool) time.Duration {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := baseDelay
	for range attempt {
		delay *= 2
		if delay >= maxDelay {
			delay = maxDelay
			break
		}
	}
	if useJitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return min(delay, maxDelay)
}

// IsRetryable reports whether Retry should try again after err.
// Context errors and permanent errors are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm *PermanentError
	return !errors.As(err, &perm)
}
