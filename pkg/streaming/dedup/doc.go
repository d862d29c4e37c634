// Package dedup provides the key sets that back the distinct stage of a
// stream.
//
// A KeySet remembers keys and reports whether a key is new. Streams create a
// fresh MemorySet for every evaluation of Distinct or DistinctBy, so nothing
// is shared between calls. DistinctWith accepts a caller-owned KeySet instead;
// a RedisSet shares first-seen state across evaluations and processes:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	seen, err := dedup.NewRedisSet(dedup.RedisConfig{
//		Redis: rdb,
//		Key:   "orders:seen",
//		TTL:   time.Hour,
//	})
//	if err != nil {
//		return err
//	}
//
//	fresh, err := stream.DistinctWith(orders, Order.ID, seen).ToSlice(ctx)
//
// Keys must be comparable. RedisSet stores each key as its dynamic type and
// %v rendering, so 1 and "1" remain distinct.
package dedup
