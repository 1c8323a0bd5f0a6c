// Package parallel provides a bounded worker pool for batch processing.
// The solver engine itself is single-threaded per game; the pool spreads
// independent games of a batch across workers.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// PoolConfig configures the worker pool behavior.
type PoolConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: runtime.NumCPU() clamped to the range [2, 8].
	MaxWorkers int

	// Timeout bounds the whole batch. Zero means no timeout.
	Timeout time.Duration
}

// DefaultPoolConfig returns a default pool configuration.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}
	return PoolConfig{MaxWorkers: workers}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// WithTimeout returns a new config with the specified timeout.
func (c PoolConfig) WithTimeout(d time.Duration) PoolConfig {
	c.Timeout = d
	return c
}

// Map runs fn over every item with bounded concurrency. Results and errors
// are returned in input order: results[i] and errs[i] belong to items[i].
// A context cancellation surfaces as the per-item error of the items that
// never ran.
func Map[T, R any](ctx context.Context, items []T, cfg PoolConfig, fn func(ctx context.Context, item T) (R, error)) ([]R, []error) {
	if cfg.MaxWorkers <= 0 {
		cfg = DefaultPoolConfig().WithTimeout(cfg.Timeout)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	indexes := make(chan int)

	var wg sync.WaitGroup
	workers := cfg.MaxWorkers
	if workers > len(items) {
		workers = len(items)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = fn(ctx, items[i])
			}
		}()
	}

	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results, errs
}
