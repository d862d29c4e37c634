/*
Package scheduling provides task execution primitives.

  - workerpool: Bounded worker pool built on errgroup

Worker Pool:

A pool is scoped to one unit of work. Tasks run with at most WorkerCount in
flight, the first failure cancels the pool context, and Wait returns that
failure once every task has finished:

	pool, ctx, err := workerpool.New(ctx, workerpool.Config{WorkerCount: 4})
	if err != nil {
		return err
	}

	for _, batch := range batches {
		pool.Go(func(ctx context.Context) error {
			return process(ctx, batch)
		})
	}

	if err := pool.Wait(); err != nil {
		return err
	}

Concurrent stream evaluation creates one pool per terminal operation and
waits for it before returning, so no goroutines outlive the call.
*/
package scheduling
