package table

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// maxConcurrentTasks bounds per-phase fan-out to a worker pool of size 8,
// mirroring the reference server's thread pool mapped over the player set
// (spec §5, §9).
const maxConcurrentTasks = 8

// dispatch runs fn once per item, at most maxConcurrentTasks at a time, and
// blocks until every task has finished — the fan-in barrier a phase waits on
// before the coordinator advances (spec §4.4, §5). One player's task taking
// the full command timeout never starves another's turn at the semaphore:
// the cap only bounds how many run at once, not how long each may run.
func dispatch[T any](ctx context.Context, items []T, fn func(T)) {
	sem := semaphore.NewWeighted(maxConcurrentTasks)
	var g errgroup.Group
	for _, item := range items {
		item := item
		if err := sem.Acquire(ctx, 1); err != nil {
			fn(item)
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			fn(item)
			return nil
		})
	}
	_ = g.Wait()
}
