package dataflow

import (
	"context"
	"sync"
	"time"
)

// Outcome is the per-item result of a Map run.
type Outcome[R any] struct {
	Value R
	Err   error
}

// Map applies fn to every item with a bounded worker pool and returns the
// outcomes in input order. A failed item records its error in the outcome;
// it never aborts the other items. Context cancellation stops unstarted
// items with ctx.Err().
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), opts ...Option) []Outcome[R] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	outcomes := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return outcomes
	}

	workers := cfg.workers
	if workers > len(items) {
		workers = len(items)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i].Value, outcomes[i].Err = runWithRetry(ctx, cfg, items[i], fn)
			}
		}()
	}

feed:
	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			outcomes[i] = Outcome[R]{Err: ctx.Err()}
			for j := i + 1; j < len(items); j++ {
				outcomes[j] = Outcome[R]{Err: ctx.Err()}
			}
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

func runWithRetry[T, R any](ctx context.Context, cfg *config, item T, fn func(context.Context, T) (R, error)) (R, error) {
	var value R
	var err error
	for attempt := 0; ; attempt++ {
		value, err = fn(ctx, item)
		if err == nil || attempt >= cfg.maxRetries {
			return value, err
		}
		wait := time.Duration(0)
		if cfg.backoff != nil {
			wait = cfg.backoff(attempt + 1)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return value, ctx.Err()
		}
	}
}
