package stream

import (
	"go.uber.org/zap"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
	"github.com/vnykmshr/seqflow/pkg/streaming/dedup"
)

// Filter returns a stream of the elements that satisfy predicate.
func (s Stream[T]) Filter(predicate func(T) bool) Stream[T] {
	return s.with(stage{
		kind: kindFilter,
		filter: func(v interface{}) (bool, error) {
			return predicate(cast[T](v)), nil
		},
	})
}

// TryFilter is Filter with a fallible predicate. The first error aborts the
// evaluation and is returned by the terminal operation.
func (s Stream[T]) TryFilter(predicate func(T) (bool, error)) Stream[T] {
	return s.with(stage{
		kind: kindFilter,
		filter: func(v interface{}) (bool, error) {
			ok, err := predicate(cast[T](v))
			if err != nil {
				return false, gferrors.NewOperationError("stream", "TryFilter", err)
			}
			return ok, nil
		},
	})
}

// Map returns a stream of the results of applying mapper to each element.
func Map[T, U any](s Stream[T], mapper func(T) U) Stream[U] {
	return derive[T, U](s, stage{
		kind: kindMap,
		mapper: func(v interface{}) (interface{}, error) {
			return mapper(cast[T](v)), nil
		},
	})
}

// TryMap is Map with a fallible mapper. The first error aborts the
// evaluation and is returned by the terminal operation.
func TryMap[T, U any](s Stream[T], mapper func(T) (U, error)) Stream[U] {
	return derive[T, U](s, stage{
		kind: kindMap,
		mapper: func(v interface{}) (interface{}, error) {
			out, err := mapper(cast[T](v))
			if err != nil {
				return nil, gferrors.NewOperationError("stream", "TryMap", err)
			}
			return out, nil
		},
	})
}

// FlatMap replaces each element with the elements of the stream mapper
// returns for it. Each sub-stream is evaluated sequentially, to completion or
// until downstream is satisfied, before the next element is mapped.
func FlatMap[T, U any](s Stream[T], mapper func(T) Stream[U]) Stream[U] {
	return derive[T, U](s, stage{
		kind: kindFlatMap,
		expand: func(r *run, v interface{}, down sink) {
			inner := mapper(cast[T](v))
			if inner.err != nil {
				r.fail(inner.err)
				return
			}

			cur, err := openSource(inner.src)
			if err != nil {
				r.fail(err)
				return
			}
			defer cur.close()

			drive(r, cur, buildChain(r, inner.stages, down))
		},
	})
}

// FlatMapSlice replaces each element with the elements of the slice mapper
// returns for it.
func FlatMapSlice[T, U any](s Stream[T], mapper func(T) []U) Stream[U] {
	return derive[T, U](s, stage{
		kind: kindFlatMap,
		expand: func(r *run, v interface{}, down sink) {
			for _, u := range mapper(cast[T](v)) {
				if down.cancelled() {
					return
				}
				down.accept(u)
			}
		},
	})
}

// Peek returns a stream that calls action on each element as it passes.
// In concurrent mode action may be called from several goroutines at once.
func (s Stream[T]) Peek(action func(T)) Stream[T] {
	return s.with(stage{
		kind: kindPeek,
		peek: func(v interface{}) {
			action(cast[T](v))
		},
	})
}

// Debug returns a stream that logs each element at debug level as it passes.
func (s Stream[T]) Debug(logger *zap.Logger, msg string) Stream[T] {
	if logger == nil {
		logger = zap.L()
	}
	return s.Peek(func(v T) {
		logger.Debug(msg, zap.Any("element", v))
	})
}

// Sorted returns a stream of all elements stably sorted by compare.
// A nil compare sorts by natural ordering; if T has none, the terminal
// operation fails with a *TypeMismatchError.
func (s Stream[T]) Sorted(compare func(a, b T) int) Stream[T] {
	if compare == nil {
		c, err := natural[T]("sorted")
		if err != nil {
			return s.withErr(err)
		}
		compare = c
	}

	return s.with(stage{
		kind: kindSorted,
		compare: func(a, b interface{}) int {
			return compare(cast[T](a), cast[T](b))
		},
	})
}

// Distinct returns a stream of the first occurrence of each element.
// Elements must be comparable at run time.
func (s Stream[T]) Distinct() Stream[T] {
	return s.with(stage{
		kind: kindDistinct,
		keys: func() dedup.KeySet { return dedup.NewMemorySet() },
	})
}

// DistinctBy returns a stream of the first element seen for each key.
func DistinctBy[T any, K comparable](s Stream[T], key func(T) K) Stream[T] {
	return s.with(stage{
		kind: kindDistinct,
		key: func(v interface{}) interface{} {
			return key(cast[T](v))
		},
		keys: func() dedup.KeySet { return dedup.NewMemorySet() },
	})
}

// DistinctWith is DistinctBy backed by a caller-owned key set. Keys recorded
// by earlier evaluations, or by other processes sharing the set, are
// suppressed too.
func DistinctWith[T any, K comparable](s Stream[T], key func(T) K, seen dedup.KeySet) Stream[T] {
	if seen == nil {
		return s.withErr(validation.ValidateNotNil("stream", "KeySet", nil))
	}
	return s.with(stage{
		kind: kindDistinct,
		key: func(v interface{}) interface{} {
			return key(cast[T](v))
		},
		keys: func() dedup.KeySet { return seen },
	})
}

// Skip returns a stream without the first n elements.
func (s Stream[T]) Skip(n int64) Stream[T] {
	if err := validation.ValidateNonNegative("stream", "skip", n); err != nil {
		return s.withErr(err)
	}
	return s.with(stage{kind: kindSkip, n: n})
}

// Limit returns a stream of at most the first n elements. Once n elements
// have passed, upstream stops producing.
func (s Stream[T]) Limit(n int64) Stream[T] {
	if err := validation.ValidateNonNegative("stream", "limit", n); err != nil {
		return s.withErr(err)
	}
	return s.with(stage{kind: kindLimit, n: n})
}

// openSource opens src, treating a nil source as empty.
func openSource(src *source) (cursor, error) {
	if src == nil {
		return &batchCursor{}, nil
	}
	return src.open()
}
