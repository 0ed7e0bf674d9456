package storage

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cashbook keys inside a shared Redis database.
const DefaultRedisPrefix = "cashbook:"

// Redis is a flat Backend on a Redis server. Every key is stored as a plain
// string under prefix+key, so several books can share one database.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a backend using client, with keys stored under prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return wrap("set", key, r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap("get", key, err)
	}
	return v, nil
}

// Keys scans the keyspace with SCAN, it never blocks the server like KEYS.
func (r *Redis) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	it := r.client.Scan(ctx, 0, escapeGlob(r.prefix)+"*", 100).Iterator()
	for it.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(it.Val(), r.prefix))
	}
	if err := it.Err(); err != nil {
		return nil, wrap("keys", "", err)
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return wrap("remove", key, r.client.Del(ctx, r.prefix+key).Err())
}

// escapeGlob escapes the glob metacharacters of a MATCH pattern.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
