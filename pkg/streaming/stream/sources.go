package stream

import (
	"context"
	"iter"
	"sync/atomic"
)

// source opens a fresh cursor for every evaluation.
type source struct {
	open func() (cursor, error)

	// size is the number of elements, or -1 when unknown or unbounded.
	size int64
}

// cursor produces elements one at a time. It is only used from the goroutine
// that opened it.
type cursor interface {
	// pull returns the next element, or false when the source is exhausted.
	pull(ctx context.Context) (interface{}, bool, error)
	close()
}

// FromSlice creates a Stream over the elements of slice. The slice is read at
// evaluation time and must not be modified while a terminal operation runs.
func FromSlice[T any](slice []T) Stream[T] {
	return newStream[T](&source{
		open: func() (cursor, error) {
			return &sliceCursor[T]{slice: slice}, nil
		},
		size: int64(len(slice)),
	})
}

// Of creates a Stream over the given values.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// Empty creates an empty Stream.
func Empty[T any]() Stream[T] {
	return FromSlice[T](nil)
}

// Iterate creates an infinite Stream seed, next(seed), next(next(seed)), ...
// next is called only when another element is demanded.
func Iterate[T any](seed T, next func(T) T) Stream[T] {
	return newStream[T](&source{
		open: func() (cursor, error) {
			return &iterateCursor[T]{current: seed, next: next}, nil
		},
		size: -1,
	})
}

// Generate creates an infinite Stream whose elements are produced by supplier.
func Generate[T any](supplier func() T) Stream[T] {
	return newStream[T](&source{
		open: func() (cursor, error) {
			return &generateCursor[T]{supplier: supplier}, nil
		},
		size: -1,
	})
}

// FromChannel creates a Stream that receives from ch until it is closed.
// A channel can only be drained once: evaluating the stream a second time
// returns ErrSourceConsumed.
func FromChannel[T any](ch <-chan T) Stream[T] {
	var consumed atomic.Bool

	return newStream[T](&source{
		open: func() (cursor, error) {
			if !consumed.CompareAndSwap(false, true) {
				return nil, ErrSourceConsumed
			}
			return &channelCursor[T]{ch: ch}, nil
		},
		size: -1,
	})
}

// FromSeq creates a Stream over an iterator. The iterator is started anew for
// every evaluation and stopped when the evaluation ends.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return newStream[T](&source{
		open: func() (cursor, error) {
			next, stop := iter.Pull(seq)
			return &seqCursor[T]{next: next, stop: stop}, nil
		},
		size: -1,
	})
}

// sliceCursor implements cursor for slices.
type sliceCursor[T any] struct {
	slice []T
	index int
}

func (c *sliceCursor[T]) pull(_ context.Context) (interface{}, bool, error) {
	if c.index >= len(c.slice) {
		return nil, false, nil
	}
	v := c.slice[c.index]
	c.index++
	return v, true, nil
}

func (c *sliceCursor[T]) close() {}

// iterateCursor yields the seed first and applies next on every later pull.
type iterateCursor[T any] struct {
	current T
	next    func(T) T
	started bool
}

func (c *iterateCursor[T]) pull(_ context.Context) (interface{}, bool, error) {
	if c.started {
		c.current = c.next(c.current)
	}
	c.started = true
	return c.current, true, nil
}

func (c *iterateCursor[T]) close() {}

// generateCursor implements cursor for supplier functions.
type generateCursor[T any] struct {
	supplier func() T
}

func (c *generateCursor[T]) pull(_ context.Context) (interface{}, bool, error) {
	return c.supplier(), true, nil
}

func (c *generateCursor[T]) close() {}

// channelCursor implements cursor for channels.
type channelCursor[T any] struct {
	ch <-chan T
}

func (c *channelCursor[T]) pull(ctx context.Context) (interface{}, bool, error) {
	select {
	case value, ok := <-c.ch:
		if !ok {
			return nil, false, nil
		}
		return value, true, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (c *channelCursor[T]) close() {}

// seqCursor implements cursor for iter.Seq.
type seqCursor[T any] struct {
	next func() (T, bool)
	stop func()
}

func (c *seqCursor[T]) pull(_ context.Context) (interface{}, bool, error) {
	v, ok := c.next()
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (c *seqCursor[T]) close() {
	c.stop()
}

// batchCursor replays one partition of an already pulled source.
type batchCursor struct {
	items []interface{}
	index int
}

func (c *batchCursor) pull(_ context.Context) (interface{}, bool, error) {
	if c.index >= len(c.items) {
		return nil, false, nil
	}
	v := c.items[c.index]
	c.index++
	return v, true, nil
}

func (c *batchCursor) close() {}
