package stream

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// terminalOp describes a terminal operation as an accumulation that can be
// split across partitions and recombined in encounter order.
type terminalOp[A any] struct {
	name string

	// init returns an empty accumulator. combine(init(), a) must equal a.
	init func() A

	// accumulate folds one element in. Returning true stops the partition.
	accumulate func(acc A, v interface{}) (A, bool, error)

	// combine merges two accumulators, left preceding right.
	combine func(left, right A) (A, error)

	// global makes a stop halt every partition, not only the current one.
	// Only order-independent results may set it.
	global bool

	// satisfied reports that no later partition can change the result.
	satisfied func(A) bool
}

// terminalSink accumulates the elements reaching the end of a chain.
type terminalSink[A any] struct {
	r    *run
	op   terminalOp[A]
	acc  A
	n    int64
	done bool
}

func newTerminalSink[A any](r *run, op terminalOp[A]) *terminalSink[A] {
	return &terminalSink[A]{r: r, op: op, acc: op.init()}
}

func (t *terminalSink[A]) accept(v interface{}) {
	t.n++
	acc, stop, err := t.op.accumulate(t.acc, v)
	if err != nil {
		t.r.fail(err)
		return
	}
	t.acc = acc
	if stop {
		t.done = true
		if t.op.global {
			t.r.stop.Store(true)
		}
	}
}

func (t *terminalSink[A]) end() {}

func (t *terminalSink[A]) cancelled() bool {
	return t.done || t.r.halted()
}

// evalStats summarizes one evaluation for logs, metrics and spans.
type evalStats struct {
	elements     atomic.Int64
	partitions   int64
	shortCircuit bool
}

// evaluate runs the pipeline of s into op.
func evaluate[T, A any](ctx context.Context, s Stream[T], op terminalOp[A]) (result A, err error) {
	if err := s.config.Validate(); err != nil {
		return result, err
	}
	if s.err != nil {
		return result, s.err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cfg := s.config.withDefaults()
	mode := cfg.Mode.String()

	ctx, span := cfg.Tracer.Start(ctx, "stream."+op.name, trace.WithAttributes(
		attribute.String("seqflow.terminal", op.name),
		attribute.String("seqflow.mode", mode),
		attribute.String("seqflow.stream", cfg.Name),
		attribute.Int("seqflow.stages", len(s.stages)),
	))

	cfg.Logger.Debug("stream evaluation started",
		zap.String("terminal", op.name),
		zap.String("mode", mode),
		zap.String("stream", cfg.Name),
		zap.Int("stages", len(s.stages)))

	st := &evalStats{}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
		err = unwrapMismatch(err)
		if err != nil {
			var zero A
			result = zero
		}

		observe(cfg, op.name, len(s.stages), st, time.Since(start), err)

		span.SetAttributes(
			attribute.Int64("seqflow.elements", st.elements.Load()),
			attribute.Int64("seqflow.partitions", st.partitions),
			attribute.Bool("seqflow.short_circuit", st.shortCircuit),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if cfg.Mode == Concurrent {
		return runConcurrent(ctx, s, op, cfg, st)
	}
	return runSequential(ctx, s, op, st)
}

func runSequential[T, A any](ctx context.Context, s Stream[T], op terminalOp[A], st *evalStats) (A, error) {
	var zero A

	cur, err := openSource(s.src)
	if err != nil {
		return zero, err
	}
	defer cur.close()

	r := newRun(ctx, nil)
	term := newTerminalSink(r, op)
	exhausted := drive(r, cur, buildChain(r, s.stages, term))

	st.elements.Add(term.n)
	st.shortCircuit = !exhausted

	if r.err != nil {
		return zero, r.err
	}
	return term.acc, nil
}

// recovered converts a panic value raised by caller code into an error.
func recovered(r interface{}) error {
	if tm, ok := r.(*TypeMismatchError); ok {
		return tm
	}
	return gferrors.NewPanicError(r, debug.Stack())
}

// unwrapMismatch reports a type mismatch raised inside a worker as itself
// rather than as a panic.
func unwrapMismatch(err error) error {
	var perr *gferrors.PanicError
	if errors.As(err, &perr) {
		if tm, ok := perr.Value.(*TypeMismatchError); ok {
			return tm
		}
	}
	return err
}

func observe(cfg Config, terminal string, stages int, st *evalStats, duration time.Duration, err error) {
	mode := cfg.Mode.String()
	elements := st.elements.Load()

	fields := []zap.Field{
		zap.String("terminal", terminal),
		zap.String("mode", mode),
		zap.String("stream", cfg.Name),
		zap.Int("stages", stages),
		zap.Int64("elements", elements),
		zap.Int64("partitions", st.partitions),
		zap.Bool("short_circuit", st.shortCircuit),
		zap.Duration("duration", duration),
	}
	if err != nil {
		cfg.Logger.Warn("stream evaluation failed", append(fields, zap.Error(err))...)
	} else {
		cfg.Logger.Debug("stream evaluated", fields...)
	}

	m := cfg.Metrics
	if m == nil {
		return
	}

	m.StreamEvaluations.WithLabelValues(terminal, mode, cfg.Name).Inc()
	m.StreamDuration.WithLabelValues(terminal, mode, cfg.Name).Observe(duration.Seconds())
	m.StreamElements.WithLabelValues(terminal, cfg.Name).Add(float64(elements))
	if st.partitions > 0 {
		m.StreamPartitions.WithLabelValues(cfg.Name).Add(float64(st.partitions))
	}
	if err != nil {
		m.StreamErrors.WithLabelValues(terminal, cfg.Name).Inc()
	} else if st.shortCircuit {
		m.StreamShortCircuits.WithLabelValues(terminal, cfg.Name).Inc()
	}
}
