package state

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the identifier in a single string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects using a redis:// URL.
func OpenRedis(url, key string) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, wrapStateErr("open", "redis url required", nil)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, wrapStateErr("open", "parse redis url", err)
	}
	return NewRedisStore(redis.NewClient(opts), key), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Get reads the key. redis.Nil is the absent state.
func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapStateErr("get", "redis GET "+s.key, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Set writes the key without expiry.
func (s *RedisStore) Set(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return wrapStateErr("set", "identifier required", nil)
	}
	if err := s.client.Set(ctx, s.key, id, 0).Err(); err != nil {
		return wrapStateErr("set", "redis SET "+s.key, err)
	}
	return nil
}

// Clear deletes the key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return wrapStateErr("clear", "redis DEL "+s.key, err)
	}
	return nil
}

// Describe implements Store.
func (s *RedisStore) Describe() string {
	return "redis " + s.client.Options().Addr + " key " + s.key
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
