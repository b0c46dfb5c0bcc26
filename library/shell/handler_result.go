package shell

import "time"

// HandlerResult is the execution outcome of a command handler apart from its business result.
// Observability wrappers translate it into metrics.
type HandlerResult struct {
	// Idempotent is true when the requested state already held and nothing was appended.
	Idempotent bool

	// RetryAttempts is the number of attempts made, 1 when there was no retry.
	RetryAttempts int

	// TotalRetryDelay is the time spent waiting between attempts.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "context_canceled",
	// "context_deadline_exceeded" or "other".
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a retryable error.
	RetriesExhausted bool
}

// NewHandlerResult combines the business outcome with the retry metadata.
func NewHandlerResult(idempotent bool, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
