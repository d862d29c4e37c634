package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
)

// RedisConfig holds configuration for a Redis-backed key set.
type RedisConfig struct {
	// Redis client for coordination
	Redis redis.UniversalClient

	// Key is the Redis set that holds the recorded keys
	Key string

	// TTL, when positive, is refreshed on the set after every Add
	TTL time.Duration
}

// RedisSet is a KeySet stored in a Redis set, shared by every process that
// uses the same key.
type RedisSet struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisSet creates a RedisSet from config.
func NewRedisSet(config RedisConfig) (*RedisSet, error) {
	if config.Redis == nil {
		return nil, validation.ValidateNotNil("dedup", "Redis", nil)
	}
	if config.Key == "" {
		return nil, gferrors.NewValidationError("dedup", "Key", config.Key, "cannot be empty").
			WithHint("name the Redis set, e.g. \"orders:seen\"")
	}
	if err := validation.ValidateNonNegative("dedup", "TTL", config.TTL); err != nil {
		return nil, err
	}

	return &RedisSet{
		client: config.Redis,
		key:    config.Key,
		ttl:    config.TTL,
	}, nil
}

// Add implements KeySet with SADD, refreshing the TTL in the same transaction.
func (s *RedisSet) Add(ctx context.Context, key interface{}) (bool, error) {
	if err := checkComparable(key); err != nil {
		return false, err
	}

	var added *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, s.key, member(key))
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return false, gferrors.NewOperationError("dedup", "Add", err).WithContext("key set " + s.key)
	}

	return added.Val() == 1, nil
}

// Len returns the number of keys in the set.
func (s *RedisSet) Len(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, gferrors.NewOperationError("dedup", "Len", err).WithContext("key set " + s.key)
	}
	return n, nil
}

// Reset deletes the set.
func (s *RedisSet) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return gferrors.NewOperationError("dedup", "Reset", err).WithContext("key set " + s.key)
	}
	return nil
}

// member encodes a key with its dynamic type so values of different types
// never collide.
func member(key interface{}) string {
	return fmt.Sprintf("%T|%v", key, key)
}
