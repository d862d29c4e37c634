package stream

// Stream is a lazily evaluated sequence of elements.
//
// A Stream is an immutable value: every intermediate operation returns a new
// Stream that shares the source and extends a copy of the stage list, so a
// Stream can be branched, reused and shared between goroutines. Nothing runs
// until a terminal operation is called. Each terminal call opens the source
// afresh, so a Stream may be evaluated more than once unless its source is
// one-shot (see FromChannel).
type Stream[T any] struct {
	src    *source
	stages []stage
	config Config

	// err is the first construction error, reported by the terminal operation.
	err error
}

func newStream[T any](src *source) Stream[T] {
	return Stream[T]{src: src, config: DefaultConfig()}
}

// with returns a copy of s with st appended.
func (s Stream[T]) with(st stage) Stream[T] {
	stages := make([]stage, len(s.stages)+1)
	copy(stages, s.stages)
	stages[len(s.stages)] = st

	return Stream[T]{
		src:    s.src,
		stages: stages,
		config: s.config,
		err:    s.err,
	}
}

// withErr records err unless an earlier construction error exists.
func (s Stream[T]) withErr(err error) Stream[T] {
	if s.err == nil {
		s.err = err
	}
	return s
}

// derive carries the source, stages, config and error of s into a stream of
// another element type, appending st.
func derive[T, U any](s Stream[T], st stage) Stream[U] {
	stages := make([]stage, len(s.stages)+1)
	copy(stages, s.stages)
	stages[len(s.stages)] = st

	return Stream[U]{
		src:    s.src,
		stages: stages,
		config: s.config,
		err:    s.err,
	}
}

// WithConfig returns a stream evaluated with config.
func (s Stream[T]) WithConfig(config Config) Stream[T] {
	s.config = config
	return s
}

// Config returns the configuration the stream will be evaluated with.
func (s Stream[T]) Config() Config {
	return s.config
}

// Parallel returns a stream evaluated in Concurrent mode.
func (s Stream[T]) Parallel() Stream[T] {
	c := s.config
	c.Mode = Concurrent
	return s.WithConfig(c)
}

// Sequential returns a stream evaluated in Sequential mode.
func (s Stream[T]) Sequential() Stream[T] {
	c := s.config
	c.Mode = Sequential
	return s.WithConfig(c)
}

// Named returns a stream whose evaluations are labelled name in logs,
// metrics and spans.
func (s Stream[T]) Named(name string) Stream[T] {
	c := s.config
	c.Name = name
	return s.WithConfig(c)
}

// cast converts an erased element back to T. A nil interface becomes the
// zero value, which covers streams of pointer, interface or map types.
func cast[T any](v interface{}) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
