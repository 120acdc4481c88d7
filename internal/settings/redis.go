package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const llmAPIKeyKey = "leadpulse:settings:llm_api_key"

// llmAPIKeyDisabled is stored as the value when an admin clears the key.
// A plain DEL would fall back to the env seed on the next read, silently
// re-enabling the integration; the sentinel makes the clear durable across
// restarts and visible to every replica.
const llmAPIKeyDisabled = "\x00disabled"

// RedisStore persists runtime settings in Redis so key changes survive
// restarts and are visible to every API replica.
//
// All fields are immutable after construction; qualification reads run
// concurrently with admin writes and must not share mutable state.
type RedisStore struct {
	rdb *redis.Client

	// seedKey comes from the environment and applies only until an
	// explicit value (or an explicit clear) is written through the admin
	// endpoint.
	seedKey string
}

func NewRedisStore(rdb *redis.Client, seedKey string) *RedisStore {
	return &RedisStore{rdb: rdb, seedKey: seedKey}
}

func (s *RedisStore) LLMAPIKey(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, llmAPIKeyKey).Result()
	return storedOrSeed(val, err, s.seedKey)
}

func (s *RedisStore) SetLLMAPIKey(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, llmAPIKeyKey, storedValue(key), 0).Err()
}

// storedValue maps the admin input to what goes into Redis. An empty key
// becomes the disabled sentinel rather than a delete.
func storedValue(key string) string {
	if key == "" {
		return llmAPIKeyDisabled
	}
	return key
}

// storedOrSeed resolves a Redis read into the effective key: absent falls
// back to the env seed, the sentinel means explicitly disabled.
func storedOrSeed(val string, err error, seed string) (string, error) {
	if errors.Is(err, redis.Nil) {
		return seed, nil
	}
	if err != nil {
		return "", err
	}
	if val == llmAPIKeyDisabled {
		return "", nil
	}
	return val, nil
}
