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

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func useTestRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestGetSetJSON(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	var out cachedUser
	found, err := GetJSON(ctx, UserKey(1), &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedUser{ID: 1, Name: "Jordan"}, time.Minute))

	found, err = GetJSON(ctx, UserKey(1), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Jordan", out.Name)
}

func TestAside(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			*dest = cachedUser{ID: 2, Name: "From DB"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &first, time.Minute, fetch(&first)))
	assert.Equal(t, "From DB", first.Name)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &second, time.Minute, fetch(&second)))
	assert.Equal(t, "From DB", second.Name)
	assert.Equal(t, 1, fetches)

	// Invalidation forces a refetch.
	InvalidateUser(ctx, 2)
	var third cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestNilClientDegradesToFetch(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var out cachedUser
	err := Aside(ctx, UserKey(3), &out, time.Minute, func() error {
		fetches++
		out = cachedUser{ID: 3, Name: "Direct"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Direct", out.Name)
	assert.Equal(t, 1, fetches)

	// Writes and invalidations are silent no-ops.
	assert.NoError(t, SetJSON(ctx, UserKey(3), out, time.Minute))
	InvalidateUser(ctx, 3)
}
