//go:build integration

package trapper_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestIntegration_RedisCache(t *testing.T) {
	client := setupRedisContainer(t)
	ctx := context.Background()

	cache := trapper.NewRedisCache(&trapper.RedisConfig{Client: client, Prefix: "test:"})

	entry := &trapper.CacheEntry{
		Data:      []byte(`{"pagination": {"page": 1}, "results": []}`),
		ExpiresAt: time.Now().Add(time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "page-1", entry))

	got, err := cache.Get(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)

	ttl, err := client.TTL(ctx, "test:page-1").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl, "entry expiry is mirrored as key expiry")

	require.NoError(t, cache.Set(ctx, "stale", &trapper.CacheEntry{
		Data:      []byte("x"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	assert.False(t, cache.Has(ctx, "stale"), "expired entries are not stored")

	require.NoError(t, client.Set(ctx, "other:key", "kept", 0).Err())
	require.NoError(t, cache.Clear(ctx))

	_, err = cache.Get(ctx, "page-1")
	require.ErrorIs(t, err, trapper.ErrCacheMiss)

	kept, err := client.Get(ctx, "other:key").Result()
	require.NoError(t, err)
	assert.Equal(t, "kept", kept, "Clear only removes prefixed keys")
}

func TestIntegration_ClientWithRedisCache(t *testing.T) {
	client := setupRedisContainer(t)
	ctx := context.Background()

	cache := trapper.NewRedisCache(&trapper.RedisConfig{Client: client})
	fetcher := newPagedFetcher(3, 10)

	key, err := trapper.CacheKey("geomap/api/locations/", nil)
	require.NoError(t, err)

	env, err := trapper.FetchAll(ctx, fetcher, "geomap/api/locations/", nil)
	require.NoError(t, err)

	data, err := env.MarshalJSON()
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, key, &trapper.CacheEntry{Data: data, ExpiresAt: time.Now().Add(time.Minute)}))

	cached, err := cache.Get(ctx, key)
	require.NoError(t, err)

	var restored trapper.Envelope
	require.NoError(t, restored.UnmarshalJSON(cached.Data))
	assert.Len(t, restored.Results, 3)
	assert.Equal(t, env.Pagination, restored.Pagination)
}
