package shell

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const (
	defaultMaxAttempts  = 1
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc is one attempt of an operation.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes what happened across the attempts.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with a non-retryable error or runs out of attempts.
//
// Only ErrConcurrencyConflict is retried. The default is a single attempt, so a conflict reaches the caller
// unless WithMaxAttempts raises the limit. With more attempts the delays are baseDelay * 2^(n-1) plus jitter.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{LastErrorType: getErrorType(err)}, err
		}
	}

	metrics := RetryMetrics{}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // jitter needs no crypto
			backoffDelay := delay + time.Duration(jitter)

			select {
			case <-time.After(backoffDelay):
				metrics.TotalDelay += backoffDelay
			case <-ctx.Done():
				metrics.LastErrorType = getErrorType(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++

		lastErr = fn(ctx)
		metrics.LastErrorType = getErrorType(lastErr)

		if lastErr == nil || !isRetryableError(lastErr) {
			return metrics, lastErr
		}
	}

	metrics.RetriesExhausted = true

	return metrics, lastErr
}

// isRetryableError is true for concurrency conflicts only.
// Timeouts are not retried, retrying under overload makes it worse.
func isRetryableError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

func getErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}

// RetryOption configures retry behavior.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the total number of attempts.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor adds up to factor times the delay as random jitter. Valid range: 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}
