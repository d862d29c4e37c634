package function

// Predicate reports whether a value satisfies a condition.
type Predicate[T any] func(T) bool

// And returns a predicate that holds when both p and other hold. other is
// not evaluated when p is false.
func (p Predicate[T]) And(other func(T) bool) Predicate[T] {
	return func(v T) bool { return p(v) && other(v) }
}

// Or returns a predicate that holds when either p or other holds.
func (p Predicate[T]) Or(other func(T) bool) Predicate[T] {
	return func(v T) bool { return p(v) || other(v) }
}

// Negate returns the logical negation of p.
func (p Predicate[T]) Negate() Predicate[T] {
	return func(v T) bool { return !p(v) }
}

// Not returns the logical negation of p.
func Not[T any](p func(T) bool) Predicate[T] {
	return Predicate[T](p).Negate()
}

// All holds when every predicate holds. All() is always true.
func All[T any](ps ...func(T) bool) Predicate[T] {
	return func(v T) bool {
		for _, p := range ps {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Any holds when at least one predicate holds. Any() is always false.
func Any[T any](ps ...func(T) bool) Predicate[T] {
	return func(v T) bool {
		for _, p := range ps {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Equal returns a predicate matching values equal to target.
func Equal[T comparable](target T) Predicate[T] {
	return func(v T) bool { return v == target }
}

// IsZero matches the zero value of T.
func IsZero[T comparable](v T) bool {
	var zero T
	return v == zero
}
