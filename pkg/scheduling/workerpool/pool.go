package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// Submit schedules task for execution. It blocks while WorkerCount tasks are
// already running. Submitting after Wait has been called returns ErrShutdown,
// and submitting after the pool context is done returns the context error.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	p.mu.RLock()
	isShutdown := p.isShutdown
	p.mu.RUnlock()

	if isShutdown {
		return fmt.Errorf("cannot submit task: %w", gferrors.ErrShutdown)
	}

	if err := p.ctx.Err(); err != nil {
		return fmt.Errorf("cannot submit task: context canceled: %w", err)
	}

	p.totalSubmitted.Add(1)
	p.group.Go(func() error {
		return p.executeTask(task)
	})
	return nil
}

// Wait blocks until every submitted task has returned and reports the first
// non-nil task error. The pool accepts no further tasks afterwards.
func (p *Pool) Wait() error {
	p.mu.Lock()
	p.isShutdown = true
	p.mu.Unlock()

	return p.group.Wait()
}

// executeTask runs a single task, converting a panic into a PanicError.
func (p *Pool) executeTask(task Task) (err error) {
	start := time.Now()
	p.setActive(p.activeWorkers.Add(1))

	defer func() {
		if r := recover(); r != nil {
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(task, r)
			}
			err = gferrors.NewPanicError(r, debug.Stack())
		}

		duration := time.Since(start)
		p.setActive(p.activeWorkers.Add(-1))
		p.totalCompleted.Add(1)
		p.record(duration, err)

		if p.config.OnTaskComplete != nil {
			p.config.OnTaskComplete(Result{
				Task:     task,
				Error:    err,
				Duration: duration,
			})
		}
	}()

	return task.Execute(p.ctx)
}

func (p *Pool) setActive(n int64) {
	if m := p.config.Metrics; m != nil {
		m.WorkerPoolActive.WithLabelValues(p.config.Name).Set(float64(n))
	}
}

func (p *Pool) record(duration time.Duration, err error) {
	m := p.config.Metrics
	if m == nil {
		return
	}

	m.TasksExecuted.WithLabelValues(p.config.Name).Inc()
	m.TaskExecutionDuration.WithLabelValues(p.config.Name).Observe(duration.Seconds())
	if err != nil {
		m.TasksFailed.WithLabelValues(p.config.Name).Inc()
	}
}

// Go is a convenience wrapper around Submit for plain functions.
func (p *Pool) Go(fn func(ctx context.Context) error) error {
	return p.Submit(TaskFunc(fn))
}
