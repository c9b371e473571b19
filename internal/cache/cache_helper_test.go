package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "test:"), mr
}

func TestCacheSetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, helper.Set(ctx, "course:1", payload{Name: "CS-101", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, helper.Get(ctx, "course:1", &got))
	assert.Equal(t, "CS-101", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCacheGetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got map[string]interface{}
	err := helper.Get(context.Background(), "nope", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheWithoutClient(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")

	var got map[string]interface{}
	err := helper.Get(context.Background(), "anything", &got)
	assert.ErrorIs(t, err, ErrCacheNotAvailable)

	// Set degrades to a no-op so callers never branch on cache health
	err = helper.Set(context.Background(), "anything", "value", time.Minute)
	assert.NoError(t, err)
}

func TestCacheExpiry(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "ttl-key", "value", time.Minute))
	mr.FastForward(2 * time.Minute)

	var got string
	err := helper.Get(ctx, "ttl-key", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestInvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "stats:course:1", 42, time.Minute))
	require.NoError(t, helper.Set(ctx, "stats:course:2", 43, time.Minute))
	require.NoError(t, helper.Set(ctx, "other:1", 44, time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "stats:*"))

	var got int
	assert.ErrorIs(t, helper.Get(ctx, "stats:course:1", &got), ErrCacheNotFound)
	assert.ErrorIs(t, helper.Get(ctx, "stats:course:2", &got), ErrCacheNotFound)
	assert.NoError(t, helper.Get(ctx, "other:1", &got))
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"value": 7}, nil
	}

	var first map[string]int
	require.NoError(t, helper.CacheOrExecute(ctx, "expensive", &first, time.Minute, fetch))
	assert.Equal(t, 7, first["value"])
	assert.Equal(t, 1, calls)

	// The write-behind goroutine owns the Set; poll until it lands
	require.Eventually(t, func() bool {
		var probe map[string]int
		return helper.Get(ctx, "expensive", &probe) == nil
	}, time.Second, 10*time.Millisecond)

	var second map[string]int
	require.NoError(t, helper.CacheOrExecute(ctx, "expensive", &second, time.Minute, fetch))
	assert.Equal(t, 7, second["value"])
	assert.Equal(t, 1, calls, "second read should come from cache")
}

func TestCacheOrExecuteFetchError(t *testing.T) {
	helper, _ := newTestHelper(t)

	fetchErr := errors.New("database down")
	var dest map[string]int
	err := helper.CacheOrExecute(context.Background(), "failing", &dest, time.Minute, func() (interface{}, error) {
		return nil, fetchErr
	})
	assert.ErrorIs(t, err, fetchErr)
}
