package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisSequence_CountsPerDay(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	seq := NewRedisSequence(client)

	day := time.Date(1999, 12, 31, 15, 0, 0, 0, time.Local)
	other := day.AddDate(0, 0, 1)
	client.Del(ctx, "tracking:seq:19991231", "tracking:seq:20000101")

	n, err := seq.Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = seq.Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = seq.Next(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ttl := client.TTL(ctx, "tracking:seq:19991231").Val()
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisSequence_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	seq := NewRedisSequence(client)
	day := time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local)
	client.Del(ctx, "tracking:seq:19990101")

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int64]bool{}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := seq.Next(ctx, day)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
