/*
Package streaming groups the stream pipeline and its supporting pieces.

  - stream: Lazy pipelines with sequential and concurrent evaluation
  - dedup: Key sets remembering which elements distinct has already seen

Basic usage:

	words, err := stream.FromSlice(lines).
		Filter(func(s string) bool { return s != "" }).
		Distinct().
		Sorted(nil).
		ToSlice(ctx)

A Redis-backed key set lets several evaluations, possibly in different
processes, deduplicate against one shared set:

	seen, _ := dedup.NewRedisSet(dedup.RedisConfig{Redis: rdb, Key: "orders:seen", TTL: time.Hour})
	fresh, err := stream.DistinctWith(orders, orderID, seen).ToSlice(ctx)
*/
package streaming
