package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/seqflow/pkg/common/validation"
	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// Task represents a unit of work that can be executed by a worker.
type Task interface {
	// Execute runs the task with the given context.
	// It should respect context cancellation and return any error encountered.
	Execute(ctx context.Context) error
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Result represents the result of a task execution.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Error is any error that occurred during task execution
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the maximum number of tasks running at once.
	// Zero means runtime.GOMAXPROCS(0).
	WorkerCount int

	// Name labels the pool in metrics.
	Name string

	// Metrics receives pool gauges and task counters. Nil disables collection.
	Metrics *metrics.Registry

	// PanicHandler is called when a task panics, before the panic is
	// converted into the task's error.
	PanicHandler func(task Task, recovered interface{})

	// OnTaskComplete is called after a task completes (success or failure).
	OnTaskComplete func(result Result)
}

// Pool runs tasks on a bounded set of goroutines scoped to a single job.
// The first task to fail cancels the context returned by New; Wait reports
// that first failure once every submitted task has returned.
type Pool struct {
	config Config
	group  *errgroup.Group
	ctx    context.Context

	mu         sync.RWMutex
	isShutdown bool

	activeWorkers  atomic.Int64
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
}

// New creates a pool bound to ctx. Tasks receive the returned context, which
// is cancelled when ctx is done or when any task returns an error.
func New(ctx context.Context, config Config) (*Pool, context.Context, error) {
	if err := validation.ValidateNonNegative("workerpool", "WorkerCount", config.WorkerCount); err != nil {
		return nil, nil, err
	}

	if config.WorkerCount == 0 {
		config.WorkerCount = runtime.GOMAXPROCS(0)
	}
	if config.Name == "" {
		config.Name = "default"
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(config.WorkerCount)

	pool := &Pool{
		config: config,
		group:  group,
		ctx:    gctx,
	}

	if m := config.Metrics; m != nil {
		m.WorkerPoolSize.WithLabelValues(config.Name).Set(float64(config.WorkerCount))
	}

	return pool, gctx, nil
}

// Size returns the maximum number of concurrently running tasks.
func (p *Pool) Size() int {
	return p.config.WorkerCount
}

// ActiveWorkers returns the number of tasks currently executing.
func (p *Pool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *Pool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks that have returned.
func (p *Pool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}
