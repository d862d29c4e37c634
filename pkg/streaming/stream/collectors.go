package stream

import (
	"context"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Collect performs a mutable reduction. supplier creates an empty result,
// accumulator adds one element and returns the updated result, and combiner
// merges two results, left preceding right, in concurrent mode.
func Collect[T, R any](ctx context.Context, s Stream[T], supplier func() R, accumulator func(R, T) R, combiner func(R, R) R) (R, error) {
	return evaluate(ctx, s, terminalOp[R]{
		name: "collect",
		init: supplier,
		accumulate: func(acc R, v interface{}) (R, bool, error) {
			return accumulator(acc, cast[T](v)), false, nil
		},
		combine: func(left, right R) (R, error) {
			return combiner(left, right), nil
		},
	})
}

// ToSet returns the distinct elements as a set.
func ToSet[T comparable](ctx context.Context, s Stream[T]) (map[T]struct{}, error) {
	return evaluate(ctx, s, terminalOp[map[T]struct{}]{
		name: "to_set",
		init: func() map[T]struct{} { return make(map[T]struct{}) },
		accumulate: func(acc map[T]struct{}, v interface{}) (map[T]struct{}, bool, error) {
			acc[cast[T](v)] = struct{}{}
			return acc, false, nil
		},
		combine: func(left, right map[T]struct{}) (map[T]struct{}, error) {
			for k := range right {
				left[k] = struct{}{}
			}
			return left, nil
		},
	})
}

// ToMap returns a map of key(e) to value(e). Two elements with the same key
// fail the evaluation with a *DuplicateKeyError; use ToMapMerge to resolve
// collisions instead.
func ToMap[T any, K comparable, V any](ctx context.Context, s Stream[T], key func(T) K, value func(T) V) (map[K]V, error) {
	return evaluate(ctx, s, terminalOp[map[K]V]{
		name: "to_map",
		init: func() map[K]V { return make(map[K]V) },
		accumulate: func(acc map[K]V, v interface{}) (map[K]V, bool, error) {
			e := cast[T](v)
			k, val := key(e), value(e)
			if existing, ok := acc[k]; ok {
				return acc, false, &DuplicateKeyError{Key: k, Existing: existing, Incoming: val}
			}
			acc[k] = val
			return acc, false, nil
		},
		combine: func(left, right map[K]V) (map[K]V, error) {
			for k, val := range right {
				if existing, ok := left[k]; ok {
					return nil, &DuplicateKeyError{Key: k, Existing: existing, Incoming: val}
				}
				left[k] = val
			}
			return left, nil
		},
	})
}

// ToMapMerge is ToMap with merge resolving collisions. merge receives the
// value already present and the value of the later element.
func ToMapMerge[T any, K comparable, V any](ctx context.Context, s Stream[T], key func(T) K, value func(T) V, merge func(existing, incoming V) V) (map[K]V, error) {
	return evaluate(ctx, s, terminalOp[map[K]V]{
		name: "to_map",
		init: func() map[K]V { return make(map[K]V) },
		accumulate: func(acc map[K]V, v interface{}) (map[K]V, bool, error) {
			e := cast[T](v)
			k, val := key(e), value(e)
			if existing, ok := acc[k]; ok {
				val = merge(existing, val)
			}
			acc[k] = val
			return acc, false, nil
		},
		combine: func(left, right map[K]V) (map[K]V, error) {
			for k, val := range right {
				if existing, ok := left[k]; ok {
					val = merge(existing, val)
				}
				left[k] = val
			}
			return left, nil
		},
	})
}

// KeepFirst is a ToMapMerge policy that keeps the earliest value.
func KeepFirst[V any](existing, _ V) V {
	return existing
}

// KeepLast is a ToMapMerge policy that keeps the latest value.
func KeepLast[V any](_, incoming V) V {
	return incoming
}

// Groups maps keys to the elements sharing them. Keys iterate in order of
// first occurrence and each group keeps encounter order.
type Groups[K comparable, T any] struct {
	m *linkedhashmap.Map
}

func newGroups[K comparable, T any]() *Groups[K, T] {
	return &Groups[K, T]{m: linkedhashmap.New()}
}

func (g *Groups[K, T]) add(k K, v T) {
	if found, ok := g.m.Get(k); ok {
		group := found.(*[]T)
		*group = append(*group, v)
		return
	}
	g.m.Put(k, &[]T{v})
}

// Len returns the number of groups.
func (g *Groups[K, T]) Len() int {
	return g.m.Size()
}

// Keys returns the keys in order of first occurrence.
func (g *Groups[K, T]) Keys() []K {
	keys := make([]K, 0, g.m.Size())
	for _, k := range g.m.Keys() {
		keys = append(keys, k.(K))
	}
	return keys
}

// Get returns the elements with key k.
func (g *Groups[K, T]) Get(k K) ([]T, bool) {
	found, ok := g.m.Get(k)
	if !ok {
		return nil, false
	}
	return *found.(*[]T), true
}

// Each calls fn for every group in key order.
func (g *Groups[K, T]) Each(fn func(k K, group []T)) {
	it := g.m.Iterator()
	for it.Next() {
		fn(it.Key().(K), *it.Value().(*[]T))
	}
}

// Map returns the groups as a plain map.
func (g *Groups[K, T]) Map() map[K][]T {
	out := make(map[K][]T, g.m.Size())
	g.Each(func(k K, group []T) {
		out[k] = group
	})
	return out
}

// GroupBy groups the elements by key.
func GroupBy[T any, K comparable](ctx context.Context, s Stream[T], key func(T) K) (*Groups[K, T], error) {
	return evaluate(ctx, s, terminalOp[*Groups[K, T]]{
		name: "group_by",
		init: newGroups[K, T],
		accumulate: func(acc *Groups[K, T], v interface{}) (*Groups[K, T], bool, error) {
			e := cast[T](v)
			acc.add(key(e), e)
			return acc, false, nil
		},
		combine: func(left, right *Groups[K, T]) (*Groups[K, T], error) {
			right.Each(func(k K, group []T) {
				for _, e := range group {
					left.add(k, e)
				}
			})
			return left, nil
		},
	})
}
