package stream

import (
	"github.com/vnykmshr/seqflow/pkg/streaming/dedup"
)

// kind enumerates the intermediate operations a pipeline can hold.
type kind int

const (
	kindFilter kind = iota
	kindMap
	kindFlatMap
	kindPeek
	kindSorted
	kindDistinct
	kindSkip
	kindLimit
)

func (k kind) String() string {
	switch k {
	case kindFilter:
		return "filter"
	case kindMap:
		return "map"
	case kindFlatMap:
		return "flat_map"
	case kindPeek:
		return "peek"
	case kindSorted:
		return "sorted"
	case kindDistinct:
		return "distinct"
	case kindSkip:
		return "skip"
	case kindLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// barrier reports whether the stage depends on encounter order across
// elements. Concurrent evaluation runs barriers on the coordinator.
func (k kind) barrier() bool {
	switch k {
	case kindSorted, kindDistinct, kindSkip, kindLimit:
		return true
	default:
		return false
	}
}

// oneToOne reports whether the stage emits exactly one element per input.
func (k kind) oneToOne() bool {
	return k == kindMap || k == kindPeek
}

// stage is one intermediate operation over erased elements. Only the fields
// relevant to kind are set.
type stage struct {
	kind kind

	filter  func(interface{}) (bool, error)
	mapper  func(interface{}) (interface{}, error)
	expand  func(r *run, v interface{}, down sink)
	peek    func(interface{})
	compare func(a, b interface{}) int
	key     func(interface{}) interface{}
	keys    func() dedup.KeySet
	n       int64
}

// wrap returns the sink that applies the stage before down. Stateful sinks
// are created per evaluation.
func (st stage) wrap(r *run, down sink) sink {
	switch st.kind {
	case kindFilter:
		return &filterSink{r: r, fn: st.filter, down: down}
	case kindMap:
		return &mapSink{r: r, fn: st.mapper, down: down}
	case kindFlatMap:
		return &flatMapSink{r: r, expand: st.expand, down: down}
	case kindPeek:
		return &peekSink{fn: st.peek, down: down}
	case kindSorted:
		return &sortedSink{r: r, compare: st.compare, down: down}
	case kindDistinct:
		return &distinctSink{r: r, key: st.key, seen: st.keys(), down: down}
	case kindSkip:
		return &skipSink{n: st.n, down: down}
	case kindLimit:
		return &limitSink{n: st.n, down: down}
	}
	panic("stream: unknown stage kind " + st.kind.String())
}
