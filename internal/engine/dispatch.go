package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker-pool size used when the caller does not set
// one: available parallelism minus one, keeping a core free for the
// coordinator.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0) - 1
	if n < 1 {
		n = 1
	}
	return n
}

// MapReplicates runs n independent replicate tasks and returns their results
// in input order. With parallel off it is a plain sequential loop; with it on,
// tasks are distributed over a bounded worker pool that is torn down before
// returning. Replicate tasks share no mutable state, so each result slot is
// written by exactly one goroutine.
//
// A task error fails the whole phase; recoverable per-replicate failures must
// be encoded in T (as NaN estimates), not returned as errors.
func MapReplicates[T any](ctx context.Context, n int, parallel bool, workers int, task func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)

	if !parallel {
		for i := 0; i < n; i++ {
			out, err := task(ctx, i)
			if err != nil {
				return nil, err
			}
			results[i] = out
		}
		return results, nil
	}

	if workers <= 0 {
		workers = DefaultWorkers()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			out, err := task(ctx, i)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
