package stream

import (
	"context"
	"strings"
	"testing"

	"github.com/vnykmshr/seqflow/internal/testutil"
)

type order struct {
	id       int
	customer string
	total    float64
}

var orders = []order{
	{1, "ada", 12.5},
	{2, "bob", 7},
	{3, "ada", 30},
	{4, "cy", 1.25},
	{5, "bob", 4},
}

func TestToSet(t *testing.T) {
	set, err := ToSet(context.Background(), Of("a", "b", "a", "c", "b"))
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, set, map[string]struct{}{"a": {}, "b": {}, "c": {}})
}

func TestToMap(t *testing.T) {
	ctx := context.Background()

	byID, err := ToMap(ctx, FromSlice(orders),
		func(o order) int { return o.id },
		func(o order) string { return o.customer })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(byID), 5)
	testutil.AssertEqual(t, byID[3], "ada")

	for _, cfg := range []Config{DefaultConfig(), concurrentConfig(3, 0)} {
		_, err = ToMap(ctx, FromSlice(orders).WithConfig(cfg),
			func(o order) string { return o.customer },
			func(o order) int { return o.id })
		dup := testutil.AssertErrorAs[*DuplicateKeyError](t, err)
		if dup.Key != "ada" && dup.Key != "bob" {
			t.Errorf("unexpected duplicate key %v", dup.Key)
		}
	}
}

func TestToMapDuplicateSequential(t *testing.T) {
	_, err := ToMap(context.Background(), Of("x", "y", "x"),
		func(s string) string { return s },
		strings.ToUpper)

	dup := testutil.AssertErrorAs[*DuplicateKeyError](t, err)
	testutil.AssertEqual(t, dup.Key, interface{}("x"))
	testutil.AssertEqual(t, dup.Existing, interface{}("X"))
	testutil.AssertEqual(t, dup.Incoming, interface{}("X"))
}

func TestToMapMerge(t *testing.T) {
	ctx := context.Background()
	customer := func(o order) string { return o.customer }
	id := func(o order) int { return o.id }

	tests := []struct {
		name  string
		merge func(existing, incoming int) int
		want  map[string]int
	}{
		{"keep first", KeepFirst[int], map[string]int{"ada": 1, "bob": 2, "cy": 4}},
		{"keep last", KeepLast[int], map[string]int{"ada": 3, "bob": 5, "cy": 4}},
		{"sum", func(a, b int) int { return a + b }, map[string]int{"ada": 4, "bob": 7, "cy": 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cfg := range []Config{DefaultConfig(), concurrentConfig(5, 0)} {
				got, err := ToMapMerge(ctx, FromSlice(orders).WithConfig(cfg), customer, id, tt.merge)
				testutil.AssertNoError(t, err)
				testutil.AssertDiff(t, got, tt.want)
			}
		})
	}
}

func TestGroupBy(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), concurrentConfig(2, 0), concurrentConfig(5, 0)} {
		t.Run(cfg.Mode.String(), func(t *testing.T) {
			groups, err := GroupBy(context.Background(), FromSlice(orders).WithConfig(cfg),
				func(o order) string { return o.customer })
			testutil.AssertNoError(t, err)

			testutil.AssertEqual(t, groups.Len(), 3)
			testutil.AssertDiff(t, groups.Keys(), []string{"ada", "bob", "cy"})

			ada, ok := groups.Get("ada")
			testutil.AssertEqual(t, ok, true)
			testutil.AssertEqual(t, len(ada), 2)
			testutil.AssertEqual(t, ada[0].id, 1)
			testutil.AssertEqual(t, ada[1].id, 3)

			_, ok = groups.Get("dee")
			testutil.AssertEqual(t, ok, false)

			ids := map[string][]int{}
			groups.Each(func(k string, group []order) {
				for _, o := range group {
					ids[k] = append(ids[k], o.id)
				}
			})
			testutil.AssertDiff(t, ids, map[string][]int{"ada": {1, 3}, "bob": {2, 5}, "cy": {4}})
			testutil.AssertEqual(t, len(groups.Map()), 3)
		})
	}
}

func TestCollect(t *testing.T) {
	joined, err := Collect(context.Background(), Of("a", "b", "c"),
		func() []string { return nil },
		func(acc []string, s string) []string { return append(acc, s) },
		func(l, r []string) []string { return append(l, r...) })
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, strings.Join(joined, ","), "a,b,c")

	totals, err := Collect(context.Background(),
		FromSlice(orders).WithConfig(concurrentConfig(3, 0)),
		func() map[string]float64 { return map[string]float64{} },
		func(acc map[string]float64, o order) map[string]float64 {
			acc[o.customer] += o.total
			return acc
		},
		func(l, r map[string]float64) map[string]float64 {
			for k, v := range r {
				l[k] += v
			}
			return l
		})
	testutil.AssertNoError(t, err)
	testutil.AssertDiff(t, totals, map[string]float64{"ada": 42.5, "bob": 11, "cy": 1.25})
}
