/*
Package workerpool provides a bounded, job-scoped worker pool.

A Pool runs tasks on at most WorkerCount goroutines. It is created for one
job, fed with Submit, and drained with Wait. The first task error cancels the
context handed to every other task, and Wait returns that first error. Panics
inside tasks are recovered and surface as *errors.PanicError values carrying
the goroutine stack.

Basic usage:

	pool, ctx, err := workerpool.New(ctx, workerpool.Config{WorkerCount: 4})
	if err != nil {
		return err
	}

	for _, item := range items {
		item := item
		if err := pool.Go(func(ctx context.Context) error {
			return process(ctx, item)
		}); err != nil {
			break
		}
	}

	if err := pool.Wait(); err != nil {
		log.Printf("job failed: %v", err)
	}

Submit blocks while WorkerCount tasks are running, which bounds how far a
producer can run ahead of the workers. After Wait returns the pool rejects new
tasks with errors.ErrShutdown.

Configuration:

	config := workerpool.Config{
		WorkerCount: 8,                       // 0 means GOMAXPROCS
		Name:        "ingest",                // metrics label
		Metrics:     metrics.Default(),       // nil disables metrics
		PanicHandler: func(task workerpool.Task, r interface{}) {
			log.Printf("task panicked: %v", r)
		},
		OnTaskComplete: func(result workerpool.Result) {
			log.Printf("task took %v", result.Duration)
		},
	}

The stream package uses a Pool per concurrent evaluation to process source
partitions.
*/
package workerpool
