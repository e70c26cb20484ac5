package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces quota counters in Redis.
const KeyPrefix = "atelier:quota:"

// The scripts run atomically on the server, so concurrent requests from
// several instances cannot push a counter past the limit.
var (
	incrementScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n >= tonumber(ARGV[1]) then
	return -1
end
return redis.call('INCR', KEYS[1])
`)

	decrementScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
if n <= 1 then
	redis.call('DEL', KEYS[1])
	return 0
end
return redis.call('DECR', KEYS[1])
`)

	raiseScript = redis.NewScript(`
local n = tonumber(redis.call('GET', KEYS[1]) or '0')
local v = tonumber(ARGV[1])
if v > n then
	redis.call('SET', KEYS[1], v)
	return v
end
return n
`)
)

// RedisStore keeps counters in Redis. The client is usually the connection
// of the session storage.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, limit int) (int, error) {
	n, err := incrementScript.Run(ctx, s.client, []string{KeyPrefix + key}, limit).Int()
	if err != nil {
		return 0, fmt.Errorf("quota increment: %w", err)
	}
	if n < 0 {
		return limit, ErrQuotaExceeded
	}
	return n, nil
}

func (s *RedisStore) Decrement(ctx context.Context, key string) error {
	if err := decrementScript.Run(ctx, s.client, []string{KeyPrefix + key}).Err(); err != nil {
		return fmt.Errorf("quota decrement: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	n, err := s.client.Get(ctx, KeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota get: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Raise(ctx context.Context, key string, n int) error {
	if err := raiseScript.Run(ctx, s.client, []string{KeyPrefix + key}, n).Err(); err != nil {
		return fmt.Errorf("quota raise: %w", err)
	}
	return nil
}
