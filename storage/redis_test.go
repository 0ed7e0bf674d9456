package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedis(t *testing.T) {
	client := getRedisClient(t)

	// A prefix of its own keeps the run isolated from other data.
	prefix := fmt.Sprintf("cashbook-test:%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		ctx := context.Background()
		it := client.Scan(ctx, 0, escapeGlob(prefix)+"*", 100).Iterator()
		for it.Next(ctx) {
			client.Del(ctx, it.Val())
		}
	})

	testBackend(t, NewRedis(client, prefix))
}

func TestEscapeGlob(t *testing.T) {
	if got, want := escapeGlob("a*b?[c]"), `a\*b\?\[c\]`; got != want {
		t.Errorf("escapeGlob = %q, want %q", got, want)
	}
}
