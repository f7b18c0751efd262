package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var setIfGenerationScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if not current then
	current = '0'
end
if current ~= ARGV[2] then
	return 0
end
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// KEYS holds pairs of (key, generation key).
var invalidateScript = redis.NewScript(`
for i = 1, #KEYS, 2 do
	redis.call('DEL', KEYS[i])
	redis.call('INCR', KEYS[i + 1])
end
return #KEYS / 2
`)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	vals, err := r.client.MGet(ctx, key, generationKey(key)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis mget failed: %w", err)
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	if vals[0] == nil {
		return nil, gen, ErrCacheMiss
	}
	s, ok := vals[0].(string)
	if !ok {
		return nil, gen, fmt.Errorf("unexpected redis value type %T", vals[0])
	}
	return []byte(s), gen, nil
}

func (r *RedisStore) SetIfGeneration(ctx context.Context, key string, value []byte, generation uint64, ttl time.Duration) (bool, error) {
	res, err := setIfGenerationScript.Run(ctx, r.client,
		[]string{key, generationKey(key)},
		string(value), strconv.FormatUint(generation, 10), ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis set failed: %w", err)
	}
	return res == 1, nil
}

func (r *RedisStore) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, generationKey(k))
	}
	if err := invalidateScript.Run(ctx, r.client, pairs).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}

func parseGeneration(v interface{}) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
	gen, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation: %w", err)
	}
	return gen, nil
}
