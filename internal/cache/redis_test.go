//go:build integration

package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tripdesk/service-booking/internal/application"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port.Port())})
}

func TestRedisStatsCache(t *testing.T) {
	c := NewRedisStatsCacheWithClient(startRedis(t), time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	miss, gen, err := c.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, miss)
	assert.Equal(t, int64(0), gen)

	stats := &application.BookingStatsDTO{
		TotalBookings: 3,
		ByStatus:      map[string]int64{"pending_review": 2, "confirmed": 1},
		GeneratedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.SetBookingStats(ctx, stats, gen))

	hit, _, err := c.GetBookingStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, int64(3), hit.TotalBookings)
	assert.Equal(t, int64(2), hit.ByStatus["pending_review"])
	assert.True(t, stats.GeneratedAt.Equal(hit.GeneratedAt))

	require.NoError(t, c.InvalidateBookingStats(ctx))
	gone, gen, err := c.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, int64(1), gen)
}

func TestRedisStatsCache_SkipsStaleWrite(t *testing.T) {
	c := NewRedisStatsCacheWithClient(startRedis(t), time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_, gen, err := c.GetBookingStats(ctx)
	require.NoError(t, err)

	require.NoError(t, c.InvalidateBookingStats(ctx))
	require.NoError(t, c.SetBookingStats(ctx, &application.BookingStatsDTO{TotalBookings: 7}, gen))

	cached, current, err := c.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Equal(t, gen+1, current)
}
