package stream

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vnykmshr/seqflow/internal/testutil"
	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

func TestFromSlice(t *testing.T) {
	result, err := FromSlice([]int{1, 2, 3, 4, 5}).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []int{1, 2, 3, 4, 5})
}

func TestEmpty(t *testing.T) {
	result, err := Empty[int]().ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(result), 0)

	count, err := Empty[string]().Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, uint64(0))

	var zero Stream[int]
	count, err = zero.Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, uint64(0))
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	s := FromChannel(ch)

	result, err := s.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []string{"hello", "world", "test"})

	_, err = s.Count(context.Background())
	testutil.AssertErrorIs(t, err, ErrSourceConsumed)
}

func TestFromChannelCancel(t *testing.T) {
	ch := make(chan int)
	defer close(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := FromChannel(ch).ToSlice(ctx)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
}

func TestFromSeq(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}

	keys, err := FromSeq(maps.Keys(m)).Sorted(nil).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, keys, []string{"a", "b", "c"})

	// stopping early must release the iterator
	first, ok, err := FromSeq(slices.Values([]int{7, 8, 9})).FindFirst(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, first, 7)
}

func TestReuse(t *testing.T) {
	base := FromSlice([]int{1, 2, 3, 4})
	evens := base.Filter(func(x int) bool { return x%2 == 0 })
	odds := base.Filter(func(x int) bool { return x%2 == 1 })

	for i := 0; i < 2; i++ {
		e, err := evens.ToSlice(context.Background())
		testutil.AssertNoError(t, err)
		testutil.AssertDiff(t, e, []int{2, 4})
	}

	o, err := odds.ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, o, []int{1, 3})

	all, err := base.Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, all, uint64(4))
}

// Constructing a pipeline must not run any caller function.
func TestLaziness(t *testing.T) {
	var calls atomic.Int64
	count := func() { calls.Add(1) }

	s := Iterate(0, func(x int) int { count(); return x + 1 }).
		Peek(func(int) { count() }).
		Filter(func(x int) bool { count(); return true }).
		Sorted(func(a, b int) int { count(); return a - b }).
		Limit(3)
	_ = Map(s, func(x int) string { count(); return fmt.Sprint(x) })
	_ = FlatMap(s, func(x int) Stream[int] { count(); return Of(x) })
	_ = s.Parallel().Distinct().Skip(1)

	testutil.AssertEqual(t, calls.Load(), int64(0))

	got, err := Iterate(0, func(x int) int { count(); return x + 1 }).
		Peek(func(int) { count() }).
		Limit(3).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, got, []int{0, 1, 2})
	if calls.Load() == 0 {
		t.Error("expected caller functions to run during evaluation")
	}
}

func TestOrderPreservation(t *testing.T) {
	positive := Of(3, 1, 2).Filter(func(x int) bool { return x > 0 })

	result, err := Map(positive, func(x int) int { return x * 2 }).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []int{6, 2, 4})
}

func TestDistinctStability(t *testing.T) {
	result, err := Of("A", "B", "A", "C", "B").Distinct().ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []string{"A", "B", "C"})
}

func TestDistinctBy(t *testing.T) {
	words := Of("apple", "avocado", "banana", "blueberry", "cherry")

	result, err := DistinctBy(words, func(w string) byte { return w[0] }).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []string{"apple", "banana", "cherry"})
}

func TestDistinctNotComparable(t *testing.T) {
	s := Of[interface{}]([]int{1}, []int{1})

	_, err := s.Distinct().ToSlice(context.Background())
	tm := testutil.AssertErrorAs[*TypeMismatchError](t, err)
	testutil.AssertEqual(t, tm.Op, "distinct")
	testutil.AssertErrorIs(t, err, ErrTypeMismatch)
}

type pair struct {
	key   int
	label string
}

func TestSortedStability(t *testing.T) {
	pairs := []pair{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}, {0, "e"}, {2, "f"}}

	result, err := FromSlice(pairs).
		Sorted(func(a, b pair) int { return a.key - b.key }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []pair{{0, "e"}, {1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}, {2, "f"}},
		cmp.AllowUnexported(pair{}))
}

func TestSortedNatural(t *testing.T) {
	ints, err := Of(5, 3, 9, 1).Sorted(nil).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, ints, []int{1, 3, 5, 9})

	type celsius float64
	temps, err := Of[celsius](21.5, -3, 7).Sorted(nil).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, temps, []celsius{-3, 7, 21.5})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times, err := Of(base.Add(time.Hour), base, base.Add(time.Minute)).Sorted(nil).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, times, []time.Time{base, base.Add(time.Minute), base.Add(time.Hour)})
}

func TestSortedNoNaturalOrdering(t *testing.T) {
	_, err := FromSlice(make([]pair, 0)).Sorted(nil).ToSlice(context.Background())
	tm := testutil.AssertErrorAs[*TypeMismatchError](t, err)
	testutil.AssertEqual(t, tm.Op, "sorted")

	// mixed dynamic types only fail once elements are compared
	mixed := Of[interface{}](1, "two", 3)
	_, err = mixed.Sorted(nil).ToSlice(context.Background())
	testutil.AssertErrorIs(t, err, ErrTypeMismatch)

	same, err := Of[interface{}]("b", "a").Sorted(nil).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, same, []interface{}{"a", "b"})
}

func TestLimitSkipInfinite(t *testing.T) {
	var produced atomic.Int64
	evens := Iterate(0, func(x int) int {
		produced.Add(1)
		return x + 2
	})

	result, err := evens.Skip(5).Limit(10).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []int{10, 12, 14, 16, 18, 20, 22, 24, 26, 28})

	// element 0 is the seed, so elements 1..14 take 14 successor calls
	testutil.AssertEqual(t, produced.Load(), int64(14))
}

func TestLimitEdgeCases(t *testing.T) {
	ctx := context.Background()

	var pulled atomic.Int64
	gen := Generate(func() int { pulled.Add(1); return 1 })

	n, err := gen.Limit(0).Count(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, uint64(0))
	testutil.AssertEqual(t, pulled.Load(), int64(0))

	short, err := Of(1, 2).Skip(5).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(short), 0)

	all, err := Of(1, 2, 3).Limit(10).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, all, []int{1, 2, 3})

	// limit before sorted still flushes the sorted buffer
	top, err := Of(9, 8, 7, 6, 5).Limit(3).Sorted(nil).ToSlice(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, top, []int{7, 8, 9})
}

func TestNegativeCounts(t *testing.T) {
	_, err := Of(1, 2, 3).Limit(-1).ToSlice(context.Background())
	if !gferrors.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = Of(1, 2, 3).Skip(-2).Count(context.Background())
	if !gferrors.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEmptyTerminalSemantics(t *testing.T) {
	ctx := context.Background()
	empty := Empty[int]()
	positive := func(x int) bool { return x > 0 }

	_, ok, err := empty.Reduce(ctx, func(a, b int) int { return a + b })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)

	all, err := empty.AllMatch(ctx, positive)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, all, true)

	none, err := empty.NoneMatch(ctx, positive)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, none, true)

	anyMatch, err := empty.AnyMatch(ctx, positive)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, anyMatch, false)

	count, err := empty.Count(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, uint64(0))

	_, err = Require(empty.FindFirst(ctx))
	testutil.AssertErrorIs(t, err, ErrEmptySequence)
}

func TestFlatMapFlattening(t *testing.T) {
	nested := Of([]int{1, 2}, []int{3}, []int{4, 5, 6})

	result, err := FlatMap(nested, func(xs []int) Stream[int] { return FromSlice(xs) }).
		ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []int{1, 2, 3, 4, 5, 6})

	sliced, err := FlatMapSlice(nested, func(xs []int) []int { return xs }).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, sliced, []int{1, 2, 3, 4, 5, 6})
}

func TestFlatMapInfiniteSubStream(t *testing.T) {
	// each sub-stream is infinite; the outer limit must stop the inner one
	result, err := FlatMap(Of(1, 10), func(x int) Stream[int] {
		return Iterate(x, func(y int) int { return y + 1 })
	}).Limit(4).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, result, []int{1, 2, 3, 4})
}

func TestFlatMapSubStreamStages(t *testing.T) {
	lines := Of("b a b", "c a")

	words, err := FlatMap(lines, func(line string) Stream[string] {
		return FromSlice(strings.Fields(line)).Distinct().Sorted(nil)
	}).ToSlice(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, words, []string{"a", "b", "a", "c"})
}

func TestPeekOrder(t *testing.T) {
	seen := testutil.NewCallbackTracker()

	_, err := Of(1, 2, 3).Peek(func(x int) { seen.Mark(x) }).Count(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, seen.Values(), []interface{}{1, 2, 3})
}

func TestTryMapError(t *testing.T) {
	boom := errors.New("boom")
	var after atomic.Int64

	s := TryMap(Of(1, 2, 3, 4), func(x int) (int, error) {
		if x == 2 {
			return 0, boom
		}
		return x, nil
	}).Peek(func(int) { after.Add(1) })

	_, err := s.ToSlice(context.Background())
	testutil.AssertErrorIs(t, err, boom)
	if !gferrors.IsOperationError(err) {
		t.Errorf("expected OperationError, got %T", err)
	}
	testutil.AssertEqual(t, after.Load(), int64(1))
}

func TestTryFilterError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Of("a", "b").TryFilter(func(s string) (bool, error) {
		return false, boom
	}).Count(context.Background())
	testutil.AssertErrorIs(t, err, boom)
}

func TestPanicBecomesError(t *testing.T) {
	_, err := Map(Of(1, 2, 3), func(x int) int {
		if x == 3 {
			panic("three")
		}
		return x
	}).ToSlice(context.Background())

	perr := testutil.AssertErrorAs[*gferrors.PanicError](t, err)
	testutil.AssertEqual(t, perr.Value, interface{}("three"))
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Of(1, 2, 3).ToSlice(ctx)
	testutil.AssertErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	var n atomic.Int64
	err = Generate(func() int { return 1 }).ForEach(ctx, func(int) {
		if n.Add(1) == 100 {
			cancel()
		}
	})
	testutil.AssertErrorIs(t, err, context.Canceled)
	testutil.AssertEqual(t, n.Load(), int64(100))
}

func TestInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parallelism = -1

	_, err := Of(1).WithConfig(cfg).Count(context.Background())
	if !gferrors.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Mode = Mode(7)
	_, err = Of(1).WithConfig(cfg).Count(context.Background())
	testutil.AssertErrorIs(t, err, gferrors.ErrInvalidConfiguration)
}

func TestConfigAccessors(t *testing.T) {
	s := Of(1).Parallel().Named("orders")
	testutil.AssertEqual(t, s.Config().Mode, Concurrent)
	testutil.AssertEqual(t, s.Config().Name, "orders")
	testutil.AssertEqual(t, s.Sequential().Config().Mode, Sequential)
	testutil.AssertEqual(t, Concurrent.String(), "concurrent")
}
