package dataflow

import (
	"time"
)

// Option configures a Map run.
type Option func(*config)

type config struct {
	workers    int
	maxRetries int
	backoff    func(attempt int) time.Duration
}

func defaultConfig() *config {
	return &config{
		workers:    1,
		maxRetries: 0,
	}
}

// WithWorkers sets the number of concurrent workers. Default is 1
// (sequential).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRetry retries a failed item up to maxRetries extra attempts, sleeping
// backoff(attempt) between them.
func WithRetry(maxRetries int, backoff func(attempt int) time.Duration) Option {
	return func(c *config) {
		if maxRetries > 0 {
			c.maxRetries = maxRetries
			c.backoff = backoff
		}
	}
}

// ConstantBackoff returns a backoff function that always returns the same duration.
func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(_ int) time.Duration {
		return d
	}
}

// ExponentialBackoff returns a backoff function that increases the duration exponentially.
// backoff = initial * 2^(attempt-1)
func ExponentialBackoff(initial time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt <= 1 {
			return initial
		}
		return initial * time.Duration(1<<(attempt-1))
	}
}
