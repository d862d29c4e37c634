package stream

import (
	"context"
)

// optional is an accumulator that may hold no value yet.
type optional[T any] struct {
	value T
	ok    bool
}

// ForEach calls action for every element. In concurrent mode action may run
// on several goroutines at once and in no particular order, unless an
// ordering stage such as Sorted or Limit precedes it.
func (s Stream[T]) ForEach(ctx context.Context, action func(T)) error {
	_, err := evaluate(ctx, s, terminalOp[struct{}]{
		name: "for_each",
		init: func() struct{} { return struct{}{} },
		accumulate: func(acc struct{}, v interface{}) (struct{}, bool, error) {
			action(cast[T](v))
			return acc, false, nil
		},
		combine: func(struct{}, struct{}) (struct{}, error) { return struct{}{}, nil },
	})
	return err
}

// ToSlice returns the elements in encounter order.
func (s Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	return evaluate(ctx, s, terminalOp[[]T]{
		name: "to_slice",
		init: func() []T { return nil },
		accumulate: func(acc []T, v interface{}) ([]T, bool, error) {
			return append(acc, cast[T](v)), false, nil
		},
		combine: func(left, right []T) ([]T, error) {
			return append(left, right...), nil
		},
	})
}

// Count returns the number of elements.
func (s Stream[T]) Count(ctx context.Context) (uint64, error) {
	return evaluate(ctx, s, terminalOp[uint64]{
		name: "count",
		init: func() uint64 { return 0 },
		accumulate: func(acc uint64, _ interface{}) (uint64, bool, error) {
			return acc + 1, false, nil
		},
		combine: func(left, right uint64) (uint64, error) {
			return left + right, nil
		},
	})
}

// Reduce combines the elements with op, which must be associative for
// concurrent evaluation. ok is false when the stream is empty.
func (s Stream[T]) Reduce(ctx context.Context, op func(a, b T) T) (result T, ok bool, err error) {
	acc, err := evaluate(ctx, s, reduceOp("reduce", op))
	return acc.value, acc.ok, err
}

func reduceOp[T any](name string, op func(a, b T) T) terminalOp[optional[T]] {
	return terminalOp[optional[T]]{
		name: name,
		init: func() optional[T] { return optional[T]{} },
		accumulate: func(acc optional[T], v interface{}) (optional[T], bool, error) {
			if !acc.ok {
				return optional[T]{value: cast[T](v), ok: true}, false, nil
			}
			return optional[T]{value: op(acc.value, cast[T](v)), ok: true}, false, nil
		},
		combine: func(left, right optional[T]) (optional[T], error) {
			switch {
			case !left.ok:
				return right, nil
			case !right.ok:
				return left, nil
			}
			return optional[T]{value: op(left.value, right.value), ok: true}, nil
		},
	}
}

// Fold combines the elements with op starting from identity. In concurrent
// mode each partition starts from identity, so identity must be neutral for
// op and op associative.
func (s Stream[T]) Fold(ctx context.Context, identity T, op func(a, b T) T) (T, error) {
	return evaluate(ctx, s, terminalOp[T]{
		name: "fold",
		init: func() T { return identity },
		accumulate: func(acc T, v interface{}) (T, bool, error) {
			return op(acc, cast[T](v)), false, nil
		},
		combine: func(left, right T) (T, error) {
			return op(left, right), nil
		},
	})
}

// AnyMatch reports whether any element satisfies predicate. It stops at the
// first match and is false for an empty stream.
func (s Stream[T]) AnyMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	return evaluate(ctx, s, terminalOp[bool]{
		name: "any_match",
		init: func() bool { return false },
		accumulate: func(acc bool, v interface{}) (bool, bool, error) {
			if predicate(cast[T](v)) {
				return true, true, nil
			}
			return acc, false, nil
		},
		combine: func(left, right bool) (bool, error) { return left || right, nil },
		global:  true,
	})
}

// AllMatch reports whether every element satisfies predicate. It stops at
// the first mismatch and is true for an empty stream.
func (s Stream[T]) AllMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	return evaluate(ctx, s, terminalOp[bool]{
		name: "all_match",
		init: func() bool { return true },
		accumulate: func(acc bool, v interface{}) (bool, bool, error) {
			if !predicate(cast[T](v)) {
				return false, true, nil
			}
			return acc, false, nil
		},
		combine: func(left, right bool) (bool, error) { return left && right, nil },
		global:  true,
	})
}

// NoneMatch reports whether no element satisfies predicate. It stops at the
// first match and is true for an empty stream.
func (s Stream[T]) NoneMatch(ctx context.Context, predicate func(T) bool) (bool, error) {
	return evaluate(ctx, s, terminalOp[bool]{
		name: "none_match",
		init: func() bool { return true },
		accumulate: func(acc bool, v interface{}) (bool, bool, error) {
			if predicate(cast[T](v)) {
				return false, true, nil
			}
			return acc, false, nil
		},
		combine: func(left, right bool) (bool, error) { return left && right, nil },
		global:  true,
	})
}

// FindFirst returns the first element in encounter order. ok is false when
// the stream is empty.
func (s Stream[T]) FindFirst(ctx context.Context) (result T, ok bool, err error) {
	acc, err := evaluate(ctx, s, terminalOp[optional[T]]{
		name: "find_first",
		init: func() optional[T] { return optional[T]{} },
		accumulate: func(acc optional[T], v interface{}) (optional[T], bool, error) {
			return optional[T]{value: cast[T](v), ok: true}, true, nil
		},
		combine: func(left, right optional[T]) (optional[T], error) {
			if left.ok {
				return left, nil
			}
			return right, nil
		},
		satisfied: func(acc optional[T]) bool { return acc.ok },
	})
	return acc.value, acc.ok, err
}

// Min returns the smallest element according to compare, or natural
// ordering when compare is nil. Among equal elements the first wins.
func (s Stream[T]) Min(ctx context.Context, compare func(a, b T) int) (result T, ok bool, err error) {
	return s.extreme(ctx, "min", compare, func(c int) bool { return c < 0 })
}

// Max returns the largest element according to compare, or natural ordering
// when compare is nil. Among equal elements the first wins.
func (s Stream[T]) Max(ctx context.Context, compare func(a, b T) int) (result T, ok bool, err error) {
	return s.extreme(ctx, "max", compare, func(c int) bool { return c > 0 })
}

func (s Stream[T]) extreme(ctx context.Context, name string, compare func(a, b T) int, better func(int) bool) (T, bool, error) {
	if compare == nil {
		c, err := natural[T](name)
		if err != nil {
			s = s.withErr(err)
		}
		compare = c
	}

	pick := func(a, b T) T {
		if better(compare(b, a)) {
			return b
		}
		return a
	}

	acc, err := evaluate(ctx, s, reduceOp(name, pick))
	return acc.value, acc.ok, err
}

// Require turns an absent result into ErrEmptySequence:
//
//	first, err := stream.Require(s.FindFirst(ctx))
func Require[T any](value T, ok bool, err error) (T, error) {
	if err != nil {
		return value, err
	}
	if !ok {
		var zero T
		return zero, ErrEmptySequence
	}
	return value, nil
}
