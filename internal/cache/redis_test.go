package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideFetchThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var got []int
	fetch := func() error {
		fetches++
		got = []int{1, 2, 3}
		return nil
	}

	require.NoError(t, Aside(ctx, "k", &got, time.Minute, fetch))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, []int{1, 2, 3}, got)

	var again []int
	require.NoError(t, Aside(ctx, "k", &again, time.Minute, func() error {
		fetches++
		return nil
	}))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, []int{1, 2, 3}, again)
}

func TestAsideWithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var v string
	require.NoError(t, Aside(context.Background(), "k", &v, time.Minute, func() error {
		fetches++
		v = "fresh"
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "fresh", v)
}

func TestInvalidateGlobalFeed(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(GlobalFeedKey(20), `[1]`))
	require.NoError(t, mr.Set(GlobalFeedKey(50), `[2]`))
	require.NoError(t, mr.Set("unrelated", "x"))

	InvalidateGlobalFeed(ctx)

	assert.False(t, mr.Exists(GlobalFeedKey(20)))
	assert.False(t, mr.Exists(GlobalFeedKey(50)))
	assert.True(t, mr.Exists("unrelated"))
}
