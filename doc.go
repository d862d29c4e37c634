/*
Package seqflow provides lazy, composable stream pipelines for Go with
sequential and concurrent evaluation.

Streaming (pkg/streaming):
  - stream: Lazy pipelines over slices, channels, iterators and infinite
    generators, with filter, map, flatMap, peek, sorted, distinct, skip and
    limit stages and short-circuiting terminal operations
  - dedup: Key sets backing distinct, in memory or shared through Redis

Scheduling (pkg/scheduling):
  - workerpool: Bounded, scoped worker pool used by concurrent evaluation

Supporting packages:
  - function: Function composition, predicates and comparators
  - config: Loads execution settings from files and SEQFLOW_* variables
  - metrics: Prometheus instrumentation of evaluations and worker pools

Example usage:

	import "github.com/vnykmshr/seqflow/pkg/streaming/stream"

	evens, err := stream.Iterate(0, func(n int) int { return n + 2 }).
		Skip(5).
		Limit(10).
		ToSlice(ctx)

	sorted, err := stream.FromSlice(ids).Parallel().Sorted(nil).ToSlice(ctx)

Intermediate operations only describe the pipeline. Nothing runs until a
terminal operation such as ToSlice, Count or AnyMatch is called, and a stream
value can be evaluated again or extended into several pipelines.

See the examples/ directory for complete programs.
*/
package seqflow
