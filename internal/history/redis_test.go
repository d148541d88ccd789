package history

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	// Test if Redis is available
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 0})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	store := NewRedisStore(ctx, "localhost:6379", 0, "finder_test")
	defer store.Close()
	defer client.Del(ctx, "finder_test:posted", "finder_test:posted_at")

	assert.False(t, store.Contains("B001"))

	store.Record("B001")
	assert.True(t, store.Contains("B001"))
	assert.False(t, store.Contains("B002"))

	// Recording is idempotent
	store.Record("B001")
	count, err := client.SCard(ctx, "finder_test:posted").Result()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The publish time is kept alongside the set
	ts, err := client.HGet(ctx, "finder_test:posted_at", "B001").Result()
	assert.NoError(t, err)
	assert.NotEmpty(t, ts)

	assert.NoError(t, store.Save())
}
