package models

import "time"

// RetryPolicy controls how a worker retries a single contract fetch. Tests
// inject a zero-delay policy.
type RetryPolicy struct {
	MaxAttempts int
	BackoffUnit time.Duration
}

// Backoff returns the delay after a failed attempt. The schedule is linear:
// attempt 1 sleeps one unit, attempt 2 two units, and so on.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	return time.Duration(attempt) * p.BackoffUnit
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BackoffUnit: 5 * time.Second,
	}
}
