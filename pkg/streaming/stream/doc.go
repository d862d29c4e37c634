/*
Package stream provides lazily evaluated sequence pipelines for Go.

A pipeline starts from a source, adds intermediate operations, and is run by
a terminal operation. Nothing is evaluated until the terminal call, and only
as much of the source is consumed as the result requires, so infinite
sources are safe as long as something short-circuits them.

Core Concepts:

A Stream is:
  - Lazy: intermediate operations only record a stage
  - Immutable: every operation returns a new Stream; the original is untouched
  - Reusable: each terminal call opens its source afresh (channels excepted)
  - Context-aware: terminal operations take a context and stop when it is done

Basic Usage:

	evens, err := stream.FromSlice([]int{3, 1, 2, 6}).
		Filter(func(x int) bool { return x%2 == 0 }).
		Sorted(nil).
		ToSlice(ctx)
	// evens == [2 6]

Operations that change the element type are functions rather than methods,
since Go methods cannot declare type parameters:

	names := stream.Map(users, func(u User) string { return u.Name })
	words := stream.FlatMapSlice(lines, strings.Fields)

Sources:

	stream.FromSlice(items)              // sized
	stream.Of(1, 2, 3)                   // sized
	stream.Iterate(0, func(x int) int {  // infinite: 0, 2, 4, ...
		return x + 2
	})
	stream.Generate(rand.Int)            // infinite
	stream.FromChannel(ch)               // until ch is closed, one evaluation only
	stream.FromSeq(maps.Keys(m))         // any iter.Seq
	stream.Empty[int]()

Intermediate Operations:

  - Filter, TryFilter: keep matching elements
  - Map, TryMap: transform elements, possibly to another type
  - FlatMap, FlatMapSlice: replace each element by a sub-sequence, consumed
    completely before the next element
  - Peek, Debug: observe elements as they pass
  - Sorted: stable sort; a nil comparator means natural ordering
  - Distinct, DistinctBy, DistinctWith: first occurrence per key wins
  - Skip, Limit: positional truncation; Limit stops upstream production

Sorted buffers all of its input. Every other stage handles one element at a
time.

Terminal Operations:

  - ForEach, ToSlice, Count
  - Reduce, Fold, Min, Max, FindFirst: absent results are reported with a
    bool; Require converts absence into ErrEmptySequence
  - AnyMatch, AllMatch, NoneMatch: short-circuiting; on an empty stream
    AnyMatch is false and the others are true
  - Collect, ToSet, ToMap, ToMapMerge, GroupBy

ToMap fails with a *DuplicateKeyError on a key collision. ToMapMerge takes a
merge function such as KeepFirst or KeepLast.

Concurrent Evaluation:

	cfg := stream.DefaultConfig()
	cfg.Mode = stream.Concurrent
	cfg.Parallelism = 8

	total, err := stream.FromSlice(orders).
		WithConfig(cfg).
		Filter(isPaid).
		Count(ctx)

Parallel is a shorthand for switching the mode. In concurrent mode the source
is split into partitions that a worker pool processes. Stages up to the first
Sorted, Distinct, Skip or Limit run in parallel. Those stages and everything
after them run in encounter order once the partition outputs are merged, so
Distinct keeps the first occurrence and Limit keeps the first n elements
exactly as in sequential mode. Result sets never depend on the mode; only
the order in which caller functions are invoked does.

Functions passed to Filter, Map, Peek and ForEach may be called from several
goroutines at once in concurrent mode and must synchronize any shared state.

Error Handling:

The first failure ends the evaluation and is returned by the terminal
operation:
  - errors returned by TryMap and TryFilter, wrapped in *errors.OperationError
  - panics in caller functions, as *errors.PanicError
  - *TypeMismatchError for values without a natural ordering or
    non-comparable Distinct keys
  - *errors.ValidationError for negative Skip or Limit counts or an invalid
    Config
  - the context error when ctx is cancelled

In concurrent mode the first failure cancels the remaining partitions and no
other failure is reported.

Observability:

Config carries an optional zap logger, Prometheus registry and OpenTelemetry
tracer. Each terminal operation logs a summary at debug level, records
evaluation metrics, and runs inside a span named after the operation, such as
"stream.to_slice". Name a stream with Named to label all three.
*/
package stream
