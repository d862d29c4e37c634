package stream

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/vnykmshr/seqflow/pkg/streaming/dedup"
)

// run is the state shared by one chain of sinks.
type run struct {
	ctx context.Context
	err error

	// stop is shared by every partition of a concurrent evaluation.
	stop *atomic.Bool
}

func newRun(ctx context.Context, stop *atomic.Bool) *run {
	if stop == nil {
		stop = new(atomic.Bool)
	}
	return &run{ctx: ctx, stop: stop}
}

// fail records the first error of the chain.
func (r *run) fail(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

func (r *run) halted() bool {
	return r.err != nil || r.stop.Load()
}

// sink receives elements pushed by the stage upstream of it.
type sink interface {
	accept(v interface{})

	// end signals that upstream is exhausted.
	end()

	// cancelled reports that no further elements are wanted.
	cancelled() bool
}

// drive pushes elements from cur into head until the cursor is exhausted or
// the chain cancels. It reports whether the cursor was exhausted.
func drive(r *run, cur cursor, head sink) bool {
	for !head.cancelled() {
		if err := r.ctx.Err(); err != nil {
			r.fail(err)
			return false
		}

		v, ok, err := cur.pull(r.ctx)
		if err != nil {
			r.fail(err)
			return false
		}
		if !ok {
			if r.err == nil {
				head.end()
			}
			return true
		}

		head.accept(v)
	}

	if r.err == nil {
		head.end()
	}
	return false
}

// buildChain wraps tail with stages, last stage innermost.
func buildChain(r *run, stages []stage, tail sink) sink {
	s := tail
	for i := len(stages) - 1; i >= 0; i-- {
		s = stages[i].wrap(r, s)
	}
	return s
}

type filterSink struct {
	r    *run
	fn   func(interface{}) (bool, error)
	down sink
}

func (s *filterSink) accept(v interface{}) {
	ok, err := s.fn(v)
	if err != nil {
		s.r.fail(err)
		return
	}
	if ok {
		s.down.accept(v)
	}
}

func (s *filterSink) end()            { s.down.end() }
func (s *filterSink) cancelled() bool { return s.down.cancelled() }

type mapSink struct {
	r    *run
	fn   func(interface{}) (interface{}, error)
	down sink
}

func (s *mapSink) accept(v interface{}) {
	out, err := s.fn(v)
	if err != nil {
		s.r.fail(err)
		return
	}
	s.down.accept(out)
}

func (s *mapSink) end()            { s.down.end() }
func (s *mapSink) cancelled() bool { return s.down.cancelled() }

type peekSink struct {
	fn   func(interface{})
	down sink
}

func (s *peekSink) accept(v interface{}) {
	s.fn(v)
	s.down.accept(v)
}

func (s *peekSink) end()            { s.down.end() }
func (s *peekSink) cancelled() bool { return s.down.cancelled() }

// flatMapSink runs each sub-stream to completion before accepting the next
// element.
type flatMapSink struct {
	r      *run
	expand func(r *run, v interface{}, down sink)
	down   sink
}

func (s *flatMapSink) accept(v interface{}) {
	s.expand(s.r, v, forwardSink{s.down})
}

func (s *flatMapSink) end()            { s.down.end() }
func (s *flatMapSink) cancelled() bool { return s.down.cancelled() }

// forwardSink passes a sub-stream's elements on without ending the outer
// chain when the sub-stream ends.
type forwardSink struct {
	down sink
}

func (s forwardSink) accept(v interface{}) { s.down.accept(v) }
func (s forwardSink) end()                 {}
func (s forwardSink) cancelled() bool      { return s.down.cancelled() }

// sortedSink buffers everything, then sorts stably and replays.
type sortedSink struct {
	r       *run
	compare func(a, b interface{}) int
	buf     []interface{}
	down    sink
}

func (s *sortedSink) accept(v interface{}) {
	s.buf = append(s.buf, v)
}

func (s *sortedSink) end() {
	slices.SortStableFunc(s.buf, s.compare)

	for _, v := range s.buf {
		if s.down.cancelled() {
			break
		}
		s.down.accept(v)
	}
	s.buf = nil

	if s.r.err == nil {
		s.down.end()
	}
}

// cancelled ignores downstream: nothing has been passed on before end.
func (s *sortedSink) cancelled() bool { return s.r.halted() }

type distinctSink struct {
	r    *run
	key  func(interface{}) interface{}
	seen dedup.KeySet
	down sink
}

func (s *distinctSink) accept(v interface{}) {
	k := v
	if s.key != nil {
		k = s.key(v)
	}

	added, err := s.seen.Add(s.r.ctx, k)
	if err != nil {
		if errors.Is(err, dedup.ErrNotComparable) {
			err = &TypeMismatchError{Op: "distinct", Type: fmt.Sprintf("%T", k), Reason: "is not comparable"}
		}
		s.r.fail(err)
		return
	}
	if added {
		s.down.accept(v)
	}
}

func (s *distinctSink) end()            { s.down.end() }
func (s *distinctSink) cancelled() bool { return s.down.cancelled() }

type skipSink struct {
	n       int64
	skipped int64
	down    sink
}

func (s *skipSink) accept(v interface{}) {
	if s.skipped < s.n {
		s.skipped++
		return
	}
	s.down.accept(v)
}

func (s *skipSink) end()            { s.down.end() }
func (s *skipSink) cancelled() bool { return s.down.cancelled() }

type limitSink struct {
	n     int64
	count int64
	down  sink
}

func (s *limitSink) accept(v interface{}) {
	if s.count >= s.n {
		return
	}
	s.count++
	s.down.accept(v)
}

func (s *limitSink) end()            { s.down.end() }
func (s *limitSink) cancelled() bool { return s.count >= s.n || s.down.cancelled() }

// bufferSink collects a partition's output in a concurrent evaluation.
type bufferSink struct {
	r     *run
	items []interface{}
}

func (s *bufferSink) accept(v interface{}) { s.items = append(s.items, v) }
func (s *bufferSink) end()                 {}
func (s *bufferSink) cancelled() bool      { return s.r.halted() }
