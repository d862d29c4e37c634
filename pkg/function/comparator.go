package function

import "cmp"

// Comparator orders two values: negative when a sorts before b, zero when
// they are equivalent and positive otherwise.
type Comparator[T any] func(a, b T) int

// Natural orders values with cmp.Compare.
func Natural[T cmp.Ordered]() Comparator[T] {
	return cmp.Compare[T]
}

// ReverseOrder orders values with cmp.Compare, largest first.
func ReverseOrder[T cmp.Ordered]() Comparator[T] {
	return Natural[T]().Reversed()
}

// Reverse inverts c.
func Reverse[T any](c func(a, b T) int) Comparator[T] {
	return func(a, b T) int { return c(b, a) }
}

// Reversed inverts c.
func (c Comparator[T]) Reversed() Comparator[T] {
	return Reverse(c)
}

// Comparing orders values by an extracted key.
func Comparing[T any, K cmp.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// ComparingBy orders values by an extracted key using c.
func ComparingBy[T, K any](key func(T) K, c func(a, b K) int) Comparator[T] {
	return func(a, b T) int {
		return c(key(a), key(b))
	}
}

// ThenComparing breaks ties of c with next.
func (c Comparator[T]) ThenComparing(next func(a, b T) int) Comparator[T] {
	return func(a, b T) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Min returns the smaller of a and b under c, preferring a on ties.
func (c Comparator[T]) Min(a, b T) T {
	if c(b, a) < 0 {
		return b
	}
	return a
}

// Max returns the larger of a and b under c, preferring a on ties.
func (c Comparator[T]) Max(a, b T) T {
	if c(b, a) > 0 {
		return b
	}
	return a
}
