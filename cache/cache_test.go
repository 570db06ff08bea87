package cache

import (
	"context"
	"testing"
	"time"

	"github.com/princinho/catalogsite/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	var got item
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", item{Name: "buzo", Qty: 2}))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{Name: "buzo", Qty: 2}, got)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []string{"a"}))

	now = now.Add(59 * time.Second)
	var got []string
	found, _ := c.Get(ctx, "k", &got)
	assert.True(t, found)

	now = now.Add(2 * time.Second)
	found, _ = c.Get(ctx, "k", &got)
	assert.False(t, found)
}

func TestMemory_ValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	orig := []string{"a", "b"}
	require.NoError(t, c.Set(ctx, "k", orig))
	orig[0] = "changed"

	var got []string
	_, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	require.NoError(t, c.Set(ctx, "k", 1))
	require.NoError(t, c.Delete(ctx, "k"))

	var got int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	ctx := context.Background()

	_, ok := New(ctx, config.RedisConfig{}, "catalog:", time.Minute).(*Memory)
	assert.True(t, ok, "no redis address")

	// port 1 is never listening
	_, ok = New(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, "catalog:", time.Minute).(*Memory)
	assert.True(t, ok, "unreachable redis")
}

// requires Redis running on localhost:6379
func TestRedis_SetGet(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	c := NewRedis(client, "catalogsite-test:", time.Minute)
	defer c.Delete(ctx, "k")

	require.NoError(t, c.Set(ctx, "k", item{Name: "remera", Qty: 5}))
	var got item
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{Name: "remera", Qty: 5}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
