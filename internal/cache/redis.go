package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/config"
)

const (
	bookingStatsKey           = "cache:booking:stats"
	bookingStatsGenerationKey = "cache:booking:stats:gen"
)

// RedisStatsCache keeps the admin booking stats in Redis.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects to the configured Redis.
func NewRedisStatsCache(cfg config.RedisConfig) *RedisStatsCache {
	return NewRedisStatsCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		cfg.TTL,
	)
}

// NewRedisStatsCacheWithClient wraps an existing client.
func NewRedisStatsCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetBookingStats returns the cached stats, nil on a miss, along with the
// current generation.
func (c *RedisStatsCache) GetBookingStats(ctx context.Context) (*application.BookingStatsDTO, int64, error) {
	values, err := c.client.MGet(ctx, bookingStatsGenerationKey, bookingStatsKey).Result()
	if err != nil {
		return nil, 0, err
	}

	generation, err := parseGeneration(values[0])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := values[1].(string)
	if !ok {
		return nil, generation, nil
	}

	var stats application.BookingStatsDTO
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, 0, err
	}
	return &stats, generation, nil
}

// SetBookingStats stores stats unless the generation moved since they were
// computed. A lost race is not an error.
func (c *RedisStatsCache) SetBookingStats(ctx context.Context, stats *application.BookingStatsDTO, generation int64) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, bookingStatsGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, bookingStatsKey, payload, c.ttl)
			return nil
		})
		return err
	}, bookingStatsGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateBookingStats drops the cached stats and advances the generation.
func (c *RedisStatsCache) InvalidateBookingStats(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, bookingStatsGenerationKey)
		pipe.Del(ctx, bookingStatsKey)
		return nil
	})
	return err
}

// Close closes the client.
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

func parseGeneration(v interface{}) (int64, error) {
	raw, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
