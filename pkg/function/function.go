package function

// Function maps a value of type T to a value of type R.
type Function[T, R any] func(T) R

// BiFunction maps two values to a result.
type BiFunction[T, U, R any] func(T, U) R

// Supplier produces values without input.
type Supplier[T any] func() T

// Consumer accepts values and returns nothing.
type Consumer[T any] func(T)

// Identity returns its input unchanged.
func Identity[T any](v T) T {
	return v
}

// AndThen returns a function that applies f and then g.
func AndThen[T, U, R any](f func(T) U, g func(U) R) func(T) R {
	return func(v T) R {
		return g(f(v))
	}
}

// Compose returns a function that applies g and then f.
func Compose[T, U, R any](f func(U) R, g func(T) U) func(T) R {
	return AndThen(g, f)
}

// Chain applies fns left to right.
func Chain[T any](fns ...func(T) T) func(T) T {
	return func(v T) T {
		for _, fn := range fns {
			v = fn(v)
		}
		return v
	}
}

// Pipe applies fns right to left, like nested calls.
func Pipe[T any](fns ...func(T) T) func(T) T {
	return func(v T) T {
		for i := len(fns) - 1; i >= 0; i-- {
			v = fns[i](v)
		}
		return v
	}
}

// AndThen returns f followed by g. g keeps the result type; use the free
// function AndThen to change it.
func (f Function[T, R]) AndThen(g func(R) R) Function[T, R] {
	return func(v T) R {
		return g(f(v))
	}
}

// AndThen returns a BiFunction that applies f and passes the result to g.
// g keeps the result type; for a type-changing step compose a Curry'd
// function with the free AndThen.
func (f BiFunction[T, U, R]) AndThen(g func(R) R) BiFunction[T, U, R] {
	return func(t T, u U) R {
		return g(f(t, u))
	}
}

// Curry fixes the first argument of f.
func Curry[T, U, R any](f func(T, U) R, t T) func(U) R {
	return func(u U) R {
		return f(t, u)
	}
}

// Constant returns a supplier that always yields v.
func Constant[T any](v T) Supplier[T] {
	return func() T { return v }
}

// Consumers returns a consumer that calls each of cs in order.
func Consumers[T any](cs ...func(T)) Consumer[T] {
	return func(v T) {
		for _, c := range cs {
			c(v)
		}
	}
}
