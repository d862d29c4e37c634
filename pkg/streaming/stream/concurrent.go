package stream

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/seqflow/pkg/scheduling/workerpool"
)

// runConcurrent evaluates s on a worker pool scoped to this call.
//
// The stage list is split at the first barrier (sorted, distinct, skip,
// limit). The coordinator pulls the source in batches and runs the leading
// stateless segment of each batch on the pool, one round of at most
// Parallelism batches at a time. Without a barrier every batch also runs the
// terminal accumulation and partial results are combined in batch order.
// With a barrier, batch outputs are merged in batch order into the remaining
// stages, which run on the coordinator, so they observe encounter order.
func runConcurrent[T, A any](ctx context.Context, s Stream[T], op terminalOp[A], cfg Config, st *evalStats) (result A, err error) {
	split := len(s.stages)
	for i, stg := range s.stages {
		if stg.kind.barrier() {
			split = i
			break
		}
	}
	prefix, tail := s.stages[:split], s.stages[split:]

	cur, err := openSource(s.src)
	if err != nil {
		return result, err
	}
	defer cur.close()

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, pctx, err := workerpool.New(cctx, workerpool.Config{
		WorkerCount: cfg.Parallelism,
		Name:        poolName(cfg),
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return result, err
	}
	waited := false
	defer func() {
		if !waited {
			cancel()
			_ = pool.Wait()
		}
	}()

	stop := new(atomic.Bool)
	var m merger[A]
	if len(tail) == 0 {
		m = newPartialMerger(pctx, stop, prefix, op, st)
	} else {
		// The tail outlives the pool: Wait cancels pctx before finish
		// flushes buffering stages.
		m = newTailMerger(pctx, cctx, stop, prefix, tail, op, st)
	}

	batchSize := cfg.BatchSize
	if s.src != nil && s.src.size >= 0 {
		batchSize = int(max(1, (s.src.size+int64(cfg.Parallelism)-1)/int64(cfg.Parallelism)))
	}
	budget := demand(prefix, tail)

	var (
		pulled    int64
		exhausted bool
		spent     bool
		done      bool
		pullErr   error
	)

	for !exhausted && !spent && !done && pullErr == nil {
		if stop.Load() || pctx.Err() != nil {
			break
		}

		var batches [][]interface{}
		for len(batches) < cfg.Parallelism {
			n := int64(batchSize)
			if budget >= 0 {
				if pulled >= budget {
					spent = true
					break
				}
				n = min(n, budget-pulled)
			}

			batch, more, err := pullBatch(pctx, cur, int(n))
			pulled += int64(len(batch))
			if len(batch) > 0 {
				batches = append(batches, batch)
			}
			if err != nil {
				pullErr = err
				break
			}
			if !more {
				exhausted = true
				break
			}
		}

		m.round(len(batches))
		var wg sync.WaitGroup
		for i, batch := range batches {
			wg.Add(1)
			err := pool.Go(func(ctx context.Context) error {
				defer wg.Done()
				return m.run(i, batch)
			})
			if err != nil {
				wg.Done()
				break
			}
			st.partitions++
		}
		wg.Wait()

		if pctx.Err() != nil {
			break
		}
		done = m.merge()
	}

	waited = true
	if err := pool.Wait(); err != nil {
		return result, err
	}
	if pullErr != nil {
		return result, pullErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	st.shortCircuit = !exhausted
	return m.finish()
}

func poolName(cfg Config) string {
	if cfg.Name == "" {
		return "stream"
	}
	return "stream:" + cfg.Name
}

// pullBatch pulls up to n elements. more is false once the cursor is
// exhausted or fails.
func pullBatch(ctx context.Context, cur cursor, n int) (batch []interface{}, more bool, err error) {
	batch = make([]interface{}, 0, n)
	for len(batch) < n {
		if err := ctx.Err(); err != nil {
			return batch, false, err
		}
		v, ok, err := cur.pull(ctx)
		if err != nil {
			return batch, false, err
		}
		if !ok {
			return batch, false, nil
		}
		batch = append(batch, v)
	}
	return batch, true, nil
}

// demand returns how many source elements can ever reach the terminal
// operation, or -1 when unbounded. It is only bounded when every stage before
// the barrier is one-to-one and the barrier chain starts with skips and
// limits.
func demand(prefix, tail []stage) int64 {
	for _, st := range prefix {
		if !st.kind.oneToOne() {
			return -1
		}
	}

	budget := int64(-1)
	var skipped int64
	for _, st := range tail {
		switch st.kind {
		case kindSkip:
			skipped = addSat(skipped, st.n)
		case kindLimit:
			if need := addSat(skipped, st.n); budget < 0 || need < budget {
				budget = need
			}
		default:
			return budget
		}
	}
	return budget
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// merger is the coordinator's half of a concurrent evaluation. round
// prepares for n batches, run processes batch i on a worker, merge folds the
// finished round in batch order and reports whether evaluation can stop, and
// finish produces the result.
type merger[A any] interface {
	round(n int)
	run(i int, batch []interface{}) error
	merge() bool
	finish() (A, error)
}

// partialMerger runs the whole pipeline per batch and combines partial
// accumulators.
type partialMerger[A any] struct {
	ctx    context.Context
	stop   *atomic.Bool
	stages []stage
	op     terminalOp[A]
	st     *evalStats

	parts []A
	acc   A
	err   error
}

func newPartialMerger[A any](ctx context.Context, stop *atomic.Bool, stages []stage, op terminalOp[A], st *evalStats) *partialMerger[A] {
	return &partialMerger[A]{ctx: ctx, stop: stop, stages: stages, op: op, st: st, acc: op.init()}
}

func (m *partialMerger[A]) round(n int) {
	m.parts = make([]A, n)
}

func (m *partialMerger[A]) run(i int, batch []interface{}) error {
	r := newRun(m.ctx, m.stop)
	term := newTerminalSink(r, m.op)
	drive(r, &batchCursor{items: batch}, buildChain(r, m.stages, term))

	m.st.elements.Add(term.n)
	m.parts[i] = term.acc
	return r.err
}

func (m *partialMerger[A]) merge() bool {
	for _, part := range m.parts {
		acc, err := m.op.combine(m.acc, part)
		if err != nil {
			m.err = err
			return true
		}
		m.acc = acc
	}
	m.parts = nil
	return m.op.satisfied != nil && m.op.satisfied(m.acc)
}

func (m *partialMerger[A]) finish() (A, error) {
	if m.err != nil {
		var zero A
		return zero, m.err
	}
	return m.acc, nil
}

// tailMerger runs the stateless prefix per batch and feeds the ordered
// outputs through the remaining stages on the coordinator. Batches run under
// the pool context, the tail under the evaluation context.
type tailMerger[A any] struct {
	ctx    context.Context
	stop   *atomic.Bool
	prefix []stage

	outs [][]interface{}
	r    *run
	head sink
	term *terminalSink[A]
	st   *evalStats
}

func newTailMerger[A any](ctx, tailCtx context.Context, stop *atomic.Bool, prefix, tail []stage, op terminalOp[A], st *evalStats) *tailMerger[A] {
	r := newRun(tailCtx, nil)
	term := newTerminalSink(r, op)
	return &tailMerger[A]{
		ctx:    ctx,
		stop:   stop,
		prefix: prefix,
		r:      r,
		head:   buildChain(r, tail, term),
		term:   term,
		st:     st,
	}
}

func (m *tailMerger[A]) round(n int) {
	m.outs = make([][]interface{}, n)
}

func (m *tailMerger[A]) run(i int, batch []interface{}) error {
	r := newRun(m.ctx, m.stop)
	buf := &bufferSink{r: r}
	drive(r, &batchCursor{items: batch}, buildChain(r, m.prefix, buf))

	m.outs[i] = buf.items
	return r.err
}

func (m *tailMerger[A]) merge() bool {
	defer func() { m.outs = nil }()

	for _, items := range m.outs {
		for _, v := range items {
			if m.head.cancelled() {
				return true
			}
			m.head.accept(v)
		}
	}
	return m.head.cancelled()
}

// finish ends the tail chain, which flushes buffering stages such as sorted.
func (m *tailMerger[A]) finish() (A, error) {
	if m.r.err == nil {
		m.head.end()
	}

	m.st.elements.Add(m.term.n)
	if m.r.err != nil {
		var zero A
		return zero, m.r.err
	}
	return m.term.acc, nil
}
